// Package metrics exposes Prometheus instrumentation for long-running
// validation loops.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for the watch loop.
type Metrics struct {
	registry *prometheus.Registry

	runs         prometheus.Counter
	runFailures  prometheus.Counter
	violations   prometheus.Gauge
	scanDuration prometheus.Histogram
}

// New creates a Metrics with its own registry so tests and multiple watch
// loops never collide on the global default.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "layerlint",
			Name:      "validation_runs_total",
			Help:      "Completed validation runs.",
		}),
		runFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "layerlint",
			Name:      "validation_run_failures_total",
			Help:      "Validation runs aborted by scan errors.",
		}),
		violations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "layerlint",
			Name:      "violations",
			Help:      "Violations found by the most recent run.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "layerlint",
			Name:      "scan_duration_seconds",
			Help:      "Duration of full scan/check passes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.runs, m.runFailures, m.violations, m.scanDuration)
	return m
}

// ObserveRun records one completed validation pass.
func (m *Metrics) ObserveRun(duration time.Duration, violations int) {
	m.runs.Inc()
	m.violations.Set(float64(violations))
	m.scanDuration.Observe(duration.Seconds())
}

// ObserveFailure records a run aborted by a scan error.
func (m *Metrics) ObserveFailure() {
	m.runFailures.Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
