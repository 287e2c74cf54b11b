package metrics

import (
	"time"

	"stdr-sim/stdrc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CompileMetrics tracks metrics related to compiling description documents.
//
// Metrics:
//   - stdr_compiler_compiles_total: Compiles by status
//   - stdr_compiler_compile_duration_seconds: Compile duration
//   - stdr_compiler_pass_iterations_total: Changing iterations per normalization pass
//   - stdr_compiler_inclusions_total: Inclusion references resolved
type CompileMetrics struct {
	// Total compiles
	compilesTotal *prometheus.CounterVec

	// Compile duration histogram
	compileDuration prometheus.Histogram

	// Pass iterations
	passIterations *prometheus.CounterVec

	// Resolved inclusions
	inclusionsTotal prometheus.Counter
}

// NewCompileMetrics creates and registers compile metrics with the provided registry.
func NewCompileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CompileMetrics {
	cm := &CompileMetrics{
		compilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compiles_total",
				Help:      "Total number of compiles by status",
			},
			[]string{"status"},
		),

		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compile_duration_seconds",
				Help:      "Duration of a compile in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		passIterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pass_iterations_total",
				Help:      "Total number of changing iterations per normalization pass",
			},
			[]string{"pass"},
		),

		inclusionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "inclusions_total",
				Help:      "Total number of inclusion references resolved",
			},
		),
	}

	registry.MustRegister(
		cm.compilesTotal,
		cm.compileDuration,
		cm.passIterations,
		cm.inclusionsTotal,
	)

	return cm
}

// RecordCompile records one compile.
func (cm *CompileMetrics) RecordCompile(status string, duration time.Duration) {
	cm.compilesTotal.WithLabelValues(status).Inc()
	cm.compileDuration.Observe(duration.Seconds())
}

// RecordPass adds iterations to the pass counter.
func (cm *CompileMetrics) RecordPass(pass string, iterations int) {
	cm.passIterations.WithLabelValues(pass).Add(float64(iterations))
}

// RecordInclusions adds n resolved inclusions.
func (cm *CompileMetrics) RecordInclusions(n int) {
	cm.inclusionsTotal.Add(float64(n))
}
