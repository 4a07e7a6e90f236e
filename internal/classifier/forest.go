package classifier

import (
	"fmt"

	"github.com/agenthands/evalharness/internal/dataset"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

const DefaultTrees = 50

// Forest is a random forest fitted once at start-up and only voted on afterwards.
type Forest struct {
	forest   *randomforest.Forest
	features int
}

func FitForest(samples []dataset.Sample, trees int) (*Forest, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot fit forest: %w", dataset.ErrEmpty)
	}
	if trees <= 0 {
		trees = DefaultTrees
	}
	width := len(samples[0].Features)

	xData := make([][]float64, len(samples))
	yData := make([]int, len(samples))
	for i, s := range samples {
		if len(s.Features) != width {
			return nil, fmt.Errorf("sample %d has %d features, expected %d: %w", i, len(s.Features), width, ErrDimension)
		}
		if s.Label < 0 {
			return nil, fmt.Errorf("sample %d has negative label %d", i, s.Label)
		}
		xData[i] = s.Features
		yData[i] = s.Label
	}

	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xData, Class: yData}
	forest.Train(trees)
	log.Info().Int("trees", trees).Int("samples", len(samples)).Msg("fitted random forest")

	return &Forest{forest: forest, features: width}, nil
}

func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != f.features {
		return 0, fmt.Errorf("forest expects %d features, got %d: %w", f.features, len(features), ErrDimension)
	}
	votes := f.forest.Vote(features)
	if len(votes) == 0 {
		return 0, fmt.Errorf("forest returned no votes")
	}
	// vote slots are indexed by class id
	return argmax(votes), nil
}
