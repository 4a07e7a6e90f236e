package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/agenthands/evalharness/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// Centroid predicts the class whose mean feature vector is closest in Euclidean distance.
type Centroid struct {
	classes   []int
	centroids [][]float64
}

// FitCentroid averages the samples of every class.
func FitCentroid(samples []dataset.Sample) (*Centroid, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot fit centroids: %w", dataset.ErrEmpty)
	}
	width := len(samples[0].Features)

	sums := make(map[int][]float64)
	counts := make(map[int]float64)
	for i, s := range samples {
		if len(s.Features) != width {
			return nil, fmt.Errorf("sample %d has %d features, expected %d: %w", i, len(s.Features), width, ErrDimension)
		}
		sum, ok := sums[s.Label]
		if !ok {
			sum = make([]float64, width)
			sums[s.Label] = sum
		}
		floats.Add(sum, s.Features)
		counts[s.Label]++
	}

	classes := make([]int, 0, len(sums))
	for c := range sums {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	centroids := make([][]float64, len(classes))
	for i, c := range classes {
		floats.Scale(1/counts[c], sums[c])
		centroids[i] = sums[c]
	}

	return &Centroid{classes: classes, centroids: centroids}, nil
}

func (c *Centroid) Predict(features []float64) (int, error) {
	width := len(c.centroids[0])
	if len(features) != width {
		return 0, fmt.Errorf("centroid model expects %d features, got %d: %w", width, len(features), ErrDimension)
	}
	best := 0
	bestDist := math.Inf(1)
	for i, centroid := range c.centroids {
		if d := floats.Distance(features, centroid, 2); d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.classes[best], nil
}
