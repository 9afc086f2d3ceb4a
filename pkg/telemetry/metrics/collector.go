// Package metrics records compilation metrics with Prometheus. A nil or
// disabled Collector is safe to use and records nothing, so callers never
// branch on whether metrics are on.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "ionc"
	subsystem = "compiler"
)

// Collector registers and records all compiler metrics.
type Collector struct {
	registry *prometheus.Registry

	// Per-target compilation count by outcome
	compilationsTotal *prometheus.CounterVec

	// Per-target generation duration
	compileDuration *prometheus.HistogramVec

	// Per-target size of the generated primary source
	generatedBytes *prometheus.HistogramVec

	// Front-end failures by stage (lex, parse, validate)
	frontendErrors *prometheus.CounterVec
}

// NewCollector creates a collector registered against registry. A nil
// registry gets a fresh private one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		compilationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "compilations_total",
				Help:      "Total number of per-target compilations",
			},
			[]string{"target", "status"},
		),

		compileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "compile_duration_seconds",
				Help:      "Duration of per-target code generation in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"target"},
		),

		generatedBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "generated_bytes",
				Help:      "Size of the generated primary source file in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"target"},
		),

		frontendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "frontend_errors_total",
				Help:      "Total number of front-end failures by stage",
			},
			[]string{"stage"},
		),
	}

	registry.MustRegister(
		c.compilationsTotal,
		c.compileDuration,
		c.generatedBytes,
		c.frontendErrors,
	)

	return c
}

// RecordCompilation records one per-target generation outcome.
func (c *Collector) RecordCompilation(target, status string, duration time.Duration, generatedBytes int) {
	if c == nil {
		return
	}
	c.compilationsTotal.WithLabelValues(target, status).Inc()
	c.compileDuration.WithLabelValues(target).Observe(duration.Seconds())
	if generatedBytes > 0 {
		c.generatedBytes.WithLabelValues(target).Observe(float64(generatedBytes))
	}
}

// RecordFrontendError records a lex, parse, or validate failure.
func (c *Collector) RecordFrontendError(stage string) {
	if c == nil {
		return
	}
	c.frontendErrors.WithLabelValues(stage).Inc()
}

// Registry returns the underlying prometheus registry, nil on a nil
// collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
