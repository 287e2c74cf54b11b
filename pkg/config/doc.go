// Package config provides configuration management for the stdrc compiler.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. Every field has a default,
// so a configuration file is optional.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("stdrc.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("stdrc.yaml")
//
// An empty path loads the defaults.
//
// # Example File
//
//	specs:
//	  schema_file: resources/specifications/stdr_specifications.xml
//	  merge_exemption_file: resources/specifications/stdr_multiple_allowed.xml
//	resolver:
//	  search_paths: [resources/sensors, resources/robots]
//	  order: [literal, includer, search_basename]
//	normalizer:
//	  apply_defaults: true
//	telemetry:
//	  logging:
//	    level: debug
//	watch:
//	  debounce: 500ms
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention STDRC_SECTION_FIELD.
// For example:
//
//   - STDRC_SPECS_SCHEMA_FILE overrides specs.schema_file
//   - STDRC_RESOLVER_SEARCH_PATHS overrides resolver.search_paths (comma separated)
//   - STDRC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Values from YAML file
//  2. Default values for fields the file left empty
//  3. Environment variable overrides
//  4. Validation (all field errors are reported together)
//
// # Singleton Pattern
//
// The CLI initializes the configuration once in its root command:
//
//	if err := config.Initialize(cfgFile); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// Library code takes an explicit *Config instead.
package config
