package classifier

import (
	"fmt"
	"strings"

	"github.com/agenthands/evalharness/internal/config"
	"github.com/agenthands/evalharness/internal/dataset"
	"github.com/rs/zerolog/log"
)

// New builds the classifier named by cfg.Provider.
func New(cfg config.ClassifierConfig) (Classifier, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "linear":
		log.Info().Str("model", cfg.ModelPath).Msg("loading linear model")
		c, err := LoadLinear(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		return c, nil

	case "centroid", "forest":
		ref, err := dataset.LoadCSV(cfg.ReferencePath, dataset.CSVOptions{HasHeader: cfg.ReferenceHasHeader})
		if err != nil {
			return nil, fmt.Errorf("failed to load reference set: %w", err)
		}
		if provider == "centroid" {
			c, err := FitCentroid(ref.Samples())
			if err != nil {
				return nil, err
			}
			return c, nil
		}
		f, err := FitForest(ref.Samples(), cfg.Trees)
		if err != nil {
			return nil, err
		}
		return f, nil

	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}
