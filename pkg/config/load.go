package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "STDRC_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention STDRC_SECTION_FIELD (e.g., STDRC_SPECS_SCHEMA_FILE).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored. List values are comma separated.
func applyEnvOverrides(cfg *Config) {
	// Specs overrides
	if val := getenv("SPECS_SCHEMA_FILE"); val != "" {
		cfg.Specs.SchemaFile = val
	}
	if val := getenv("SPECS_MERGE_EXEMPTION_FILE"); val != "" {
		cfg.Specs.MergeExemptionFile = val
	}

	// Resolver overrides
	if val := getenv("RESOLVER_SEARCH_PATHS"); val != "" {
		cfg.Resolver.SearchPaths = splitList(val)
	}
	if val := getenv("RESOLVER_ORDER"); val != "" {
		cfg.Resolver.Order = splitList(val)
	}
	if val := getenv("RESOLVER_FILENAME_TAG"); val != "" {
		cfg.Resolver.FilenameTag = val
	}
	if val := getenv("RESOLVER_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Resolver.MaxDepth = i
		}
	}

	// Parser overrides
	if val := getenv("PARSER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Parser.MaxFileSize = i
		}
	}

	// Normalizer overrides
	if val := getenv("NORMALIZER_APPLY_DEFAULTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Normalizer.ApplyDefaults = b
		}
	}

	// Telemetry overrides
	if val := getenv("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := getenv("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := getenv("TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := getenv("TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := getenv("TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := getenv("TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}

	// Watch overrides
	if val := getenv("WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := getenv("WATCH_EXTENSIONS"); val != "" {
		cfg.Watch.Extensions = splitList(val)
	}
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

func splitList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
