package config

import "time"

// Config is the root configuration of the stdrc compiler and CLI.
type Config struct {
	// Specs locates the schema documents.
	Specs SpecsConfig `yaml:"specs"`

	// Resolver controls how inclusion references are located.
	Resolver ResolverConfig `yaml:"resolver"`

	// Parser contains document parsing limits.
	Parser ParserConfig `yaml:"parser"`

	// Normalizer contains optional normalization passes.
	Normalizer NormalizerConfig `yaml:"normalizer"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch contains recompile-on-change settings.
	Watch WatchConfig `yaml:"watch"`
}

// SpecsConfig locates the schema and merge-exemption documents.
type SpecsConfig struct {
	// SchemaFile is the document listing allowed, required and default
	// children per tag.
	// Default: "specifications/stdr_specifications.xml"
	SchemaFile string `yaml:"schema_file"`

	// MergeExemptionFile lists the tags that are never merged.
	// Default: "specifications/stdr_multiple_allowed.xml"
	MergeExemptionFile string `yaml:"merge_exemption_file"`
}

// ResolverConfig controls inclusion resolution.
type ResolverConfig struct {
	// SearchPaths are fallback directories for inclusion references.
	SearchPaths []string `yaml:"search_paths"`

	// Order is the sequence of lookup strategies.
	// Options: "literal", "includer", "search_path", "search_basename"
	// Default: all four, in that order
	Order []string `yaml:"order"`

	// FilenameTag is the child tag marking an inclusion reference.
	// Default: "filename"
	FilenameTag string `yaml:"filename_tag"`

	// MaxDepth bounds the number of nested documents on one inclusion chain.
	// Default: 32
	MaxDepth int `yaml:"max_depth"`
}

// ParserConfig contains parsing limits.
type ParserConfig struct {
	// MaxFileSize is the largest document accepted, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`
}

// NormalizerConfig contains optional normalization passes.
type NormalizerConfig struct {
	// ApplyDefaults adds schema default values for absent allowed children.
	// Default: false
	ApplyDefaults bool `yaml:"apply_defaults"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "stdr"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "compiler"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves the metrics endpoint while watching.
	// Empty disables the endpoint.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// TextfilePath, if set, receives the metrics in text exposition format
	// after every one-shot command, for a node exporter textfile collector.
	TextfilePath string `yaml:"textfile_path"`

	// DurationBuckets are the histogram buckets for compile durations, in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// WatchConfig contains recompile-on-change settings.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before recompiling.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions are the document extensions that trigger a recompile.
	// Default: [".xml", ".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`
}
