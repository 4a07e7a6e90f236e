package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/agenthands/evalharness/internal/classifier"
	"github.com/agenthands/evalharness/internal/dataset"
	"github.com/agenthands/evalharness/internal/metrics"
	"github.com/agenthands/evalharness/internal/render"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidIndex = errors.New("invalid index")
	ErrPrediction   = errors.New("prediction failed")
)

// ArtifactStore persists misclassification images keyed by the incorrect counter.
type ArtifactStore interface {
	Write(n int, data []byte) error
	Clear() []error
}

// Result is the outcome of one evaluation together with the counters right after it.
type Result struct {
	Prediction  int  `json:"prediction"`
	TrueLabel   int  `json:"true_label"`
	Correct     int  `json:"correct"`
	Incorrect   int  `json:"incorrect"`
	IsIncorrect bool `json:"is_incorrect"`
}

type Snapshot struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// State holds the running hit/miss counters and the artifact directory.
// A single mutex covers the counters and every artifact write or delete,
// so the file for the n-th miss is always incorrect_<n>.png.
type State struct {
	Dataset    dataset.Dataset
	Classifier classifier.Classifier
	Renderer   render.Renderer
	Store      ArtifactStore
	Metrics    *metrics.Metrics

	mu        sync.Mutex
	correct   int
	incorrect int
}

func NewState(ds dataset.Dataset, clf classifier.Classifier, r render.Renderer, store ArtifactStore, m *metrics.Metrics) *State {
	return &State{
		Dataset:    ds,
		Classifier: clf,
		Renderer:   r,
		Store:      store,
		Metrics:    m,
	}
}

// Evaluate classifies the sample at index and records the outcome.
func (s *State) Evaluate(index int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.Dataset.Len() {
		return Result{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, index, s.Dataset.Len())
	}
	sample, err := s.Dataset.Get(index)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}

	prediction, err := s.Classifier.Predict(sample.Features)
	if err != nil {
		return Result{}, fmt.Errorf("%w: index %d: %v", ErrPrediction, index, err)
	}

	res := Result{Prediction: prediction, TrueLabel: sample.Label}
	if prediction == sample.Label {
		s.correct++
	} else {
		s.incorrect++
		res.IsIncorrect = true
		s.saveArtifact(s.incorrect, sample.Features)
	}
	res.Correct = s.correct
	res.Incorrect = s.incorrect

	if s.Metrics != nil {
		s.Metrics.Observe(res.IsIncorrect, res.Correct, res.Incorrect)
	}
	log.Debug().
		Int("index", index).
		Int("prediction", prediction).
		Int("true_label", sample.Label).
		Int("correct", res.Correct).
		Int("incorrect", res.Incorrect).
		Msg("evaluated sample")

	return res, nil
}

// saveArtifact is best effort: the counter has already been committed.
func (s *State) saveArtifact(n int, features []float64) {
	data, err := s.Renderer.Render(features)
	if err == nil {
		err = s.Store.Write(n, data)
	}
	if err != nil {
		log.Error().Err(err).Int("incorrect", n).Msg("could not save misclassification image")
		if s.Metrics != nil {
			s.Metrics.ArtifactFailure(metrics.OpWrite)
		}
	}
}

// Reset zeroes the counters and empties the artifact directory.
func (s *State) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.correct = 0
	s.incorrect = 0
	for _, err := range s.Store.Clear() {
		log.Error().Err(err).Msg("could not delete misclassification image")
		if s.Metrics != nil {
			s.Metrics.ArtifactFailure(metrics.OpDelete)
		}
	}
	if s.Metrics != nil {
		s.Metrics.Reset()
	}
	log.Info().Msg("testing has been reset")

	return Snapshot{}
}

// Status returns the current counters.
func (s *State) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Correct: s.correct, Incorrect: s.incorrect}
}

// Accuracy is correct/(correct+incorrect), zero before any evaluation.
func (s Snapshot) Accuracy() float64 {
	total := s.Correct + s.Incorrect
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total)
}
