package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stdr-sim/stdrc/pkg/cli"
	"stdr-sim/stdrc/pkg/config"
	"stdr-sim/stdrc/pkg/stdr"
	"stdr-sim/stdrc/pkg/stdr/validator"
	"stdr-sim/stdrc/pkg/telemetry/logging"
	"stdr-sim/stdrc/pkg/telemetry/metrics"
)

var (
	// Global flags
	cfgFile     string
	verbose     bool
	schemaFile  string
	exemptFile  string
	searchPaths []string
	defaults    bool
)

var rootCmd = &cobra.Command{
	Use:   "stdrc",
	Short: "stdrc - STDR robot description compiler",
	Long: `stdrc compiles robot-simulation descriptions written in XML or YAML.

Each entry document is parsed, its <filename> inclusions are resolved,
every element is checked against the schema, and repeated elements are
merged so that values from more deeply included documents win.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every normalization pass")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "override specs.schema_file")
	rootCmd.PersistentFlags().StringVar(&exemptFile, "exemptions", "", "override specs.merge_exemption_file")
	rootCmd.PersistentFlags().StringArrayVarP(&searchPaths, "search-path", "I", nil, "add an inclusion search path (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&defaults, "defaults", false, "fill absent leaves from schema defaults")
}

// loadConfig initializes the process configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	applyFlags(cfg)
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if schemaFile != "" {
		cfg.Specs.SchemaFile = schemaFile
	}
	if exemptFile != "" {
		cfg.Specs.MergeExemptionFile = exemptFile
	}
	if len(searchPaths) > 0 {
		cfg.Resolver.SearchPaths = append(cfg.Resolver.SearchPaths, searchPaths...)
	}
	if defaults {
		cfg.Normalizer.ApplyDefaults = true
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
}

// toolchain is what every command needs to compile documents.
type toolchain struct {
	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.Collector
	registry  *validator.Registry
	compiler  *stdr.Compiler
}

// newToolchain builds the logger, metrics and compiler described by cfg.
// A non-nil prev hands over its collector and schema registry, so counters
// survive a reload and a schema that fails to load leaves prev's in place.
func newToolchain(cfg *config.Config, prev *toolchain) (*toolchain, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	var (
		collector *metrics.Collector
		registry  *validator.Registry
	)
	if prev != nil {
		collector, registry = prev.collector, prev.registry
	} else {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		registry = validator.NewRegistry()
	}

	compiler, err := stdr.FromConfig(cfg, registry, stdr.WithLogger(logger), stdr.WithRecorder(collector))
	if err != nil {
		return nil, err
	}

	return &toolchain{cfg: cfg, logger: logger, collector: collector, registry: registry, compiler: compiler}, nil
}

// flushMetrics writes the textfile export when one is configured.
func (tc *toolchain) flushMetrics() {
	m := tc.cfg.Telemetry.Metrics
	if !m.Enabled || m.TextfilePath == "" {
		return
	}
	if err := tc.collector.WriteTextfile(m.TextfilePath); err != nil {
		tc.logger.Warn("Failed to write metrics textfile", "path", m.TextfilePath, "error", err)
	}
}
