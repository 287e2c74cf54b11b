package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "resolver.max_depth").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSpecs(&cfg.Specs)...)
	errs = append(errs, validateResolver(&cfg.Resolver)...)
	errs = append(errs, validateParser(&cfg.Parser)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateSpecs validates the schema document locations.
func validateSpecs(cfg *SpecsConfig) []FieldError {
	var errs []FieldError

	if cfg.SchemaFile == "" {
		errs = append(errs, FieldError{
			Field:   "specs.schema_file",
			Message: "schema file is required",
		})
	}
	documents := []struct{ field, path string }{
		{"specs.schema_file", cfg.SchemaFile},
		{"specs.merge_exemption_file", cfg.MergeExemptionFile},
	}
	for _, doc := range documents {
		if doc.path == "" {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(doc.path)); !isDocumentExt(ext) {
			errs = append(errs, FieldError{
				Field:   doc.field,
				Message: fmt.Sprintf("unsupported document extension %q: must be .xml, .yaml or .yml", ext),
			})
		}
	}

	return errs
}

// validateResolver validates inclusion resolution settings.
func validateResolver(cfg *ResolverConfig) []FieldError {
	var errs []FieldError

	validOrder := map[string]bool{"literal": true, "includer": true, "search_path": true, "search_basename": true}
	seen := make(map[string]bool)
	for _, st := range cfg.Order {
		if !validOrder[st] {
			errs = append(errs, FieldError{
				Field:   "resolver.order",
				Message: fmt.Sprintf("invalid strategy %q: must be 'literal', 'includer', 'search_path' or 'search_basename'", st),
			})
			continue
		}
		if seen[st] {
			errs = append(errs, FieldError{
				Field:   "resolver.order",
				Message: fmt.Sprintf("strategy %q listed more than once", st),
			})
		}
		seen[st] = true
	}

	if len(seen) > 0 && !seen["literal"] && !seen["includer"] && len(cfg.SearchPaths) == 0 {
		errs = append(errs, FieldError{
			Field:   "resolver.search_paths",
			Message: "search paths are required when only search strategies are used",
		})
	}

	for i, dir := range cfg.SearchPaths {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("resolver.search_paths[%d]", i),
				Message: "search path must not be empty",
			})
		}
	}

	if cfg.FilenameTag == "" {
		errs = append(errs, FieldError{
			Field:   "resolver.filename_tag",
			Message: "filename tag is required",
		})
	}

	if cfg.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "resolver.max_depth",
			Message: "max depth must be at least 1",
		})
	}

	return errs
}

// validateParser validates parsing limits.
func validateParser(cfg *ParserConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "parser.max_file_size",
			Message: "max file size must be positive",
		})
	}

	return errs
}

// validateTelemetry validates logging and metrics settings.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path is required when metrics are enabled",
		})
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}
	if cfg.Metrics.ListenAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid listen address: %v", err),
			})
		}
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}

// validateWatch validates recompile-on-change settings.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with '.'", ext),
			})
		}
	}

	return errs
}

func isDocumentExt(ext string) bool {
	switch ext {
	case ".xml", ".yaml", ".yml":
		return true
	}
	return false
}
