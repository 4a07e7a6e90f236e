package server

import (
	"fmt"

	"github.com/agenthands/evalharness/internal/artifact"
	"github.com/agenthands/evalharness/internal/classifier"
	"github.com/agenthands/evalharness/internal/config"
	"github.com/agenthands/evalharness/internal/core"
	"github.com/agenthands/evalharness/internal/dataset"
	"github.com/agenthands/evalharness/internal/metrics"
	"github.com/agenthands/evalharness/internal/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Build loads the dataset and classifier named in cfg and wires them into a Server.
// Everything is loaded before the server accepts a request and stays read-only afterwards.
func Build(cfg *config.Config, reg *prometheus.Registry) (*Server, error) {
	ds, err := dataset.LoadCSV(cfg.Dataset.Path, dataset.CSVOptions{HasHeader: cfg.Dataset.HasHeader})
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if want := cfg.Artifacts.Width * cfg.Artifacts.Height; ds.Width() != want {
		log.Warn().
			Int("features", ds.Width()).
			Int("image_pixels", want).
			Msg("dataset width does not match image size, misclassification images will not render")
	}

	clf, err := classifier.New(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier '%s': %w", cfg.Classifier.Provider, err)
	}

	store, err := artifact.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		return nil, err
	}

	var (
		gatherer   prometheus.Gatherer
		registerer prometheus.Registerer
	)
	if reg != nil {
		gatherer, registerer = reg, reg
	}

	state := core.NewState(
		ds,
		clf,
		render.NewPNG(cfg.Artifacts.Width, cfg.Artifacts.Height, cfg.Artifacts.Scale),
		store,
		metrics.New(registerer),
	)
	log.Info().
		Int("samples", ds.Len()).
		Str("classifier", cfg.Classifier.Provider).
		Str("artifacts", store.Dir()).
		Msg("evaluation state ready")

	return NewServer(state, store.Dir(), gatherer), nil
}
