package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with default values.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	b := &ConfigBuilder{}
	ApplyDefaults(&b.cfg)
	return b
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithSchemaFile sets the schema document path.
func (b *ConfigBuilder) WithSchemaFile(path string) *ConfigBuilder {
	b.cfg.Specs.SchemaFile = path
	return b
}

// WithResolverOrder sets the inclusion lookup order.
func (b *ConfigBuilder) WithResolverOrder(order ...string) *ConfigBuilder {
	b.cfg.Resolver.Order = order
	return b
}

// WithSearchPaths sets the inclusion search paths.
func (b *ConfigBuilder) WithSearchPaths(paths ...string) *ConfigBuilder {
	b.cfg.Resolver.SearchPaths = paths
	return b
}

// WithMaxDepth sets the inclusion depth limit.
func (b *ConfigBuilder) WithMaxDepth(depth int) *ConfigBuilder {
	b.cfg.Resolver.MaxDepth = depth
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithMetrics enables metrics with an optional listen address.
func (b *ConfigBuilder) WithMetrics(listen string) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = true
	b.cfg.Telemetry.Metrics.ListenAddress = listen
	return b
}

// WithDebounce sets the watch debounce period.
func (b *ConfigBuilder) WithDebounce(d time.Duration) *ConfigBuilder {
	b.cfg.Watch.Debounce = d
	return b
}
