package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is the on-disk form of a pre-trained multinomial linear model.
// Weights has one row per class and one column per feature.
type LinearModel struct {
	Classes []int       `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// Linear scores every class as W·x + b and predicts the best one.
type Linear struct {
	classes []int
	weights *mat.Dense
	bias    *mat.VecDense
}

func NewLinear(m LinearModel) (*Linear, error) {
	rows := len(m.Weights)
	if rows == 0 {
		return nil, fmt.Errorf("linear model has no classes")
	}
	if len(m.Classes) != rows {
		return nil, fmt.Errorf("linear model has %d classes but %d weight rows", len(m.Classes), rows)
	}
	if len(m.Bias) != rows {
		return nil, fmt.Errorf("linear model has %d bias terms for %d classes", len(m.Bias), rows)
	}
	cols := len(m.Weights[0])
	if cols == 0 {
		return nil, fmt.Errorf("linear model has no features")
	}
	data := make([]float64, 0, rows*cols)
	for i, row := range m.Weights {
		if len(row) != cols {
			return nil, fmt.Errorf("weight row %d has %d features, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}

	return &Linear{
		classes: append([]int(nil), m.Classes...),
		weights: mat.NewDense(rows, cols, data),
		bias:    mat.NewVecDense(rows, append([]float64(nil), m.Bias...)),
	}, nil
}

// LoadLinear reads a LinearModel from a JSON file.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file '%s': %w", path, err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model '%s': %w", path, err)
	}
	return NewLinear(m)
}

func (l *Linear) Predict(features []float64) (int, error) {
	rows, cols := l.weights.Dims()
	if len(features) != cols {
		return 0, fmt.Errorf("linear model expects %d features, got %d: %w", cols, len(features), ErrDimension)
	}
	x := mat.NewVecDense(cols, features)
	scores := mat.NewVecDense(rows, nil)
	scores.MulVec(l.weights, x)
	scores.AddVec(scores, l.bias)
	return l.classes[argmax(scores.RawVector().Data)], nil
}
