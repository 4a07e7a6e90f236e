package core

import (
	"fmt"
	"sync"

	"github.com/agenthands/evalharness/internal/dataset"
)

// MockClassifier predicts from a fixed table keyed by the first feature.
type MockClassifier struct {
	Predictions map[float64]int
	Err         error
}

func (m *MockClassifier) Predict(features []float64) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Predictions[features[0]], nil
}

type MockRenderer struct {
	Err error
}

func (m *MockRenderer) Render(features []float64) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []byte(fmt.Sprintf("png:%v", features[0])), nil
}

// MockStore records writes in memory and can fail individual deletes.
type MockStore struct {
	mu         sync.Mutex
	Files      map[int][]byte
	WriteErr   error
	DeleteErrs []error
	WriteCalls int
	ClearCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{Files: make(map[int][]byte)}
}

func (m *MockStore) Write(n int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Files[n] = data
	return nil
}

func (m *MockStore) Clear() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	m.Files = make(map[int][]byte)
	return m.DeleteErrs
}

// digits builds a dataset whose i-th sample has first feature i.
func digits(labels ...int) *dataset.Memory {
	samples := make([]dataset.Sample, len(labels))
	for i, l := range labels {
		samples[i] = dataset.Sample{Features: []float64{float64(i), 0}, Label: l}
	}
	return dataset.NewMemory(samples)
}
