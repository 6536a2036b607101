// Package metrics counts question-bank operations for batch runs. The
// counters live on a private registry and are exported as a Prometheus
// textfile, which suits a CLI that exits before any scrape.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thinxi/thinxi-admin/internal/questions"
)

const namespace = "thinxi_admin"

// Metrics holds the batch counters on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	rounds      *prometheus.CounterVec
	adjustments *prometheus.CounterVec
	lastRun     prometheus.Gauge
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_rounds_total",
				Help:      "Question generation rounds by outcome and category.",
			},
			[]string{"outcome", "category"},
		),
		adjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "difficulty_adjustments_total",
				Help:      "Difficulty re-evaluations by result.",
			},
			[]string{"result"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the metrics file was last written.",
		}),
	}
	m.registry.MustRegister(m.rounds, m.adjustments, m.lastRun)
	return m
}

// Observe implements questions.Recorder.
func (m *Metrics) Observe(outcome questions.Outcome, categoryID string) {
	m.rounds.WithLabelValues(string(outcome), categoryID).Inc()
}

// ObserveAdjustment counts one difficulty re-evaluation as raised,
// lowered, unchanged, gated or settled.
func (m *Metrics) ObserveAdjustment(adj *questions.Adjustment) {
	m.adjustments.WithLabelValues(adjustmentResult(adj)).Inc()
}

func adjustmentResult(adj *questions.Adjustment) string {
	switch {
	case adj.Gated:
		return "gated"
	case adj.Settled:
		return "settled"
	case adj.Current > adj.Previous:
		return "raised"
	case adj.Current < adj.Previous:
		return "lowered"
	default:
		return "unchanged"
	}
}

// Registry exposes the underlying registry for tests and custom export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes every metric to path in the text exposition
// format, atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	m.lastRun.Set(float64(time.Now().Unix()))
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

var _ questions.Recorder = (*Metrics)(nil)
