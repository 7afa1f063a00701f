// Package metrics holds the Prometheus collectors for the decision pipeline.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neurosym"

// Metrics is one set of pipeline collectors bound to a registry.
type Metrics struct {
	registry *prometheus.Registry

	Decisions   *prometheus.CounterVec
	Fusions     *prometheus.CounterVec
	Violations  *prometheus.CounterVec
	Fallbacks   *prometheus.CounterVec
	Degraded    *prometheus.CounterVec
	Latency     prometheus.Histogram
	LearnErrors prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "total",
			Help:      "Hybrid decisions by response type",
		}, []string{"response_type"}),
		Fusions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fusion",
			Name:      "total",
			Help:      "Fusion results by strategy and context type",
		}, []string{"strategy", "context_type"}),
		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "constraint",
			Name:      "violations_total",
			Help:      "Constraint violations by rule",
		}, []string{"rule"}),
		Fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fallbacks_total",
			Help:      "Safe fallback responses by kind",
		}, []string{"kind"}),
		Degraded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "degraded_total",
			Help:      "Collaborator failures absorbed by the pipeline",
		}, []string{"collaborator"}),
		Latency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "latency_seconds",
			Help:      "End-to-end process latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		LearnErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "errors_total",
			Help:      "Background learning failures",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveViolations counts each violation under its rule id ("r1".."r6").
func (m *Metrics) ObserveViolations(violations []string) {
	for _, v := range violations {
		v = strings.TrimPrefix(v, "CRITICAL: ")
		id, _, _ := strings.Cut(v, ":")
		m.Violations.WithLabelValues(strings.ToLower(id)).Inc()
	}
}
