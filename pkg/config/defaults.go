package config

import "time"

// Default values for configuration fields.
const (
	// Specs defaults
	DefaultSchemaFile         = "specifications/stdr_specifications.xml"
	DefaultMergeExemptionFile = "specifications/stdr_multiple_allowed.xml"

	// Resolver defaults
	DefaultFilenameTag = "filename"
	DefaultMaxDepth    = 32

	// Parser defaults
	DefaultMaxFileSize = int64(10 * 1024 * 1024) // 10MB

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "stdr"
	DefaultMetricsSubsystem = "compiler"
	DefaultPrometheusPath   = "/metrics"

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond
)

// DefaultResolverOrder is the inclusion lookup order used when none is configured.
var DefaultResolverOrder = []string{"literal", "includer", "search_path", "search_basename"}

// DefaultWatchExtensions are the extensions that trigger a recompile.
var DefaultWatchExtensions = []string{".xml", ".yaml", ".yml"}

// DefaultDurationBuckets cover compiles from 100µs to about 3s.
var DefaultDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3}

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields already
// set are left alone, so it is safe to call more than once.
func ApplyDefaults(cfg *Config) {
	// Specs
	if cfg.Specs.SchemaFile == "" {
		cfg.Specs.SchemaFile = DefaultSchemaFile
	}
	if cfg.Specs.MergeExemptionFile == "" {
		cfg.Specs.MergeExemptionFile = DefaultMergeExemptionFile
	}

	// Resolver
	if len(cfg.Resolver.Order) == 0 {
		cfg.Resolver.Order = append([]string(nil), DefaultResolverOrder...)
	}
	if cfg.Resolver.FilenameTag == "" {
		cfg.Resolver.FilenameTag = DefaultFilenameTag
	}
	if cfg.Resolver.MaxDepth == 0 {
		cfg.Resolver.MaxDepth = DefaultMaxDepth
	}

	// Parser
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = DefaultMaxFileSize
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	// Watch
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}
}
