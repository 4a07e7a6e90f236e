package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "evalharness"

const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"

	OpWrite  = "write"
	OpDelete = "delete"
)

type Metrics struct {
	Evaluations      *prometheus.CounterVec
	Resets           prometheus.Counter
	ArtifactFailures *prometheus.CounterVec
	Correct          prometheus.Gauge
	Incorrect        prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Evaluated samples by outcome.",
		}, []string{"outcome"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Number of counter resets.",
		}),
		ArtifactFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_failures_total",
			Help:      "Misclassification images that could not be written or deleted.",
		}, []string{"op"}),
		Correct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "correct",
			Help:      "Correct predictions since the last reset.",
		}),
		Incorrect: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "incorrect",
			Help:      "Incorrect predictions since the last reset.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Evaluations, m.Resets, m.ArtifactFailures, m.Correct, m.Incorrect)
	}
	return m
}

// Observe records one evaluation and the counters after it.
func (m *Metrics) Observe(isIncorrect bool, correct, incorrect int) {
	outcome := OutcomeCorrect
	if isIncorrect {
		outcome = OutcomeIncorrect
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.Correct.Set(float64(correct))
	m.Incorrect.Set(float64(incorrect))
}

func (m *Metrics) Reset() {
	m.Resets.Inc()
	m.Correct.Set(0)
	m.Incorrect.Set(0)
}

func (m *Metrics) ArtifactFailure(op string) {
	m.ArtifactFailures.WithLabelValues(op).Inc()
}
