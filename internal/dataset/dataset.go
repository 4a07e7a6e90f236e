package dataset

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("index out of range")

// Sample is one labeled feature vector.
type Sample struct {
	Features []float64 `json:"features"`
	Label    int       `json:"label"`
}

// Dataset is an immutable, indexable collection of samples.
type Dataset interface {
	Len() int
	Get(index int) (Sample, error)
}

// Memory is a Dataset held entirely in memory. It is never mutated after construction.
type Memory struct {
	samples []Sample
	width   int
}

func NewMemory(samples []Sample) *Memory {
	m := &Memory{samples: samples}
	if len(samples) > 0 {
		m.width = len(samples[0].Features)
	}
	return m
}

func (m *Memory) Len() int {
	return len(m.samples)
}

// Width is the number of features per sample.
func (m *Memory) Width() int {
	return m.width
}

func (m *Memory) Get(index int) (Sample, error) {
	if index < 0 || index >= len(m.samples) {
		return Sample{}, fmt.Errorf("get %d of %d: %w", index, len(m.samples), ErrOutOfRange)
	}
	return m.samples[index], nil
}

// Samples exposes the backing slice for read-only use, e.g. fitting a model.
func (m *Memory) Samples() []Sample {
	return m.samples
}
