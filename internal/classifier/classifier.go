package classifier

import (
	"errors"
)

var ErrDimension = errors.New("feature dimension mismatch")

// Classifier maps a feature vector to a class label.
// Implementations are immutable once built and safe for concurrent use.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// argmax returns the index of the largest score, the lowest index on ties.
func argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
