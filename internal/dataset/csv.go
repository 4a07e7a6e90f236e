package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

var ErrEmpty = errors.New("dataset is empty")

type CSVOptions struct {
	// HasHeader skips the first record.
	HasHeader bool
}

// LoadCSV reads a labeled dataset where every record is "label,f0,f1,...".
func LoadCSV(path string, opts CSVOptions) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset '%s': %w", path, err)
	}
	defer f.Close()

	samples, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset '%s': %w", path, err)
	}

	m := NewMemory(samples)
	log.Info().
		Str("path", path).
		Int("samples", m.Len()).
		Int("features", m.Width()).
		Msg("loaded dataset")
	return m, nil
}

func ReadCSV(r io.Reader, opts CSVOptions) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	// widths are checked below so the error can name the line
	reader.FieldsPerRecord = -1

	var samples []Sample
	width := -1
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && opts.HasHeader {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected a label and at least one feature, got %d fields", line, len(record))
		}
		if width == -1 {
			width = len(record) - 1
		} else if len(record)-1 != width {
			return nil, fmt.Errorf("line %d: expected %d features, got %d", line, width, len(record)-1)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid label '%s': %w", line, record[0], err)
		}
		features := make([]float64, width)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid feature %d '%s': %w", line, i, field, err)
			}
			features[i] = v
		}
		samples = append(samples, Sample{Features: features, Label: label})
	}

	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	return samples, nil
}
