package metrics

import (
	"time"

	"stdr-sim/stdrc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry of the compiler and records one
// compile at a time through a small set of methods.
//
// A disabled collector accepts every call and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	compileMetrics *CompileMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "stdr",
//		Subsystem: "compiler",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		compileMetrics: NewCompileMetrics(cfg, registry),
	}
}

// RecordCompile records a finished compile.
//
// Parameters:
//   - status: "ok", or the error category ("load", "reference", "schema")
//   - duration: wall time from parse to the normalized tree
func (c *Collector) RecordCompile(status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.compileMetrics.RecordCompile(status, duration)
}

// RecordPass records how many changing iterations a normalization pass took.
//
// Parameters:
//   - pass: "dereference", "merge", "merge_values" or "defaults"
//   - iterations: applications that changed the tree
func (c *Collector) RecordPass(pass string, iterations int) {
	if !c.config.Enabled {
		return
	}

	c.compileMetrics.RecordPass(pass, iterations)
}

// RecordInclusions records resolved inclusion references.
func (c *Collector) RecordInclusions(n int) {
	if !c.config.Enabled {
		return
	}

	c.compileMetrics.RecordInclusions(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
