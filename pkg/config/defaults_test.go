package config

import (
	"slices"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"specs.schema_file", cfg.Specs.SchemaFile, DefaultSchemaFile},
		{"specs.merge_exemption_file", cfg.Specs.MergeExemptionFile, DefaultMergeExemptionFile},
		{"resolver.filename_tag", cfg.Resolver.FilenameTag, DefaultFilenameTag},
		{"resolver.max_depth", cfg.Resolver.MaxDepth, DefaultMaxDepth},
		{"parser.max_file_size", cfg.Parser.MaxFileSize, DefaultMaxFileSize},
		{"normalizer.apply_defaults", cfg.Normalizer.ApplyDefaults, false},
		{"telemetry.logging.level", cfg.Telemetry.Logging.Level, DefaultLoggingLevel},
		{"telemetry.logging.format", cfg.Telemetry.Logging.Format, DefaultLoggingFormat},
		{"telemetry.metrics.enabled", cfg.Telemetry.Metrics.Enabled, false},
		{"telemetry.metrics.namespace", cfg.Telemetry.Metrics.Namespace, DefaultMetricsNamespace},
		{"telemetry.metrics.subsystem", cfg.Telemetry.Metrics.Subsystem, DefaultMetricsSubsystem},
		{"telemetry.metrics.path", cfg.Telemetry.Metrics.Path, DefaultPrometheusPath},
		{"watch.debounce", cfg.Watch.Debounce, DefaultWatchDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !slices.Equal(cfg.Resolver.Order, DefaultResolverOrder) {
		t.Errorf("resolver.order = %v, want %v", cfg.Resolver.Order, DefaultResolverOrder)
	}
	if !slices.Equal(cfg.Watch.Extensions, DefaultWatchExtensions) {
		t.Errorf("watch.extensions = %v, want %v", cfg.Watch.Extensions, DefaultWatchExtensions)
	}

	cfg.Resolver.Order[0] = "includer"
	if DefaultResolverOrder[0] != "literal" {
		t.Error("ApplyDefaults shares the default order slice")
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Resolver: ResolverConfig{FilenameTag: "include", MaxDepth: 4},
		Watch:    WatchConfig{Debounce: time.Second},
	}
	ApplyDefaults(cfg)

	if cfg.Resolver.FilenameTag != "include" || cfg.Resolver.MaxDepth != 4 {
		t.Errorf("resolver = %+v, explicit values overwritten", cfg.Resolver)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("watch.debounce = %v, want 1s", cfg.Watch.Debounce)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg1 := &Config{}
	ApplyDefaults(cfg1)

	cfg2 := &Config{}
	ApplyDefaults(cfg2)
	ApplyDefaults(cfg2)

	if cfg1.Specs != cfg2.Specs || cfg1.Parser != cfg2.Parser || cfg1.Telemetry.Logging != cfg2.Telemetry.Logging {
		t.Error("ApplyDefaults is not idempotent")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Default() configuration is invalid: %v", err)
	}
}
