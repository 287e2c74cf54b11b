package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"stdr-sim/stdrc/pkg/cli"
	"stdr-sim/stdrc/pkg/config"
	"stdr-sim/stdrc/pkg/telemetry/health"
	"stdr-sim/stdrc/pkg/watch"
)

var watchFlags struct {
	output        string
	metricsListen string
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Recompile a description whenever it changes",
	Long: `Compile an entry document, then watch it and every document it includes,
recompiling after each change. The set of watched documents follows the
inclusions of the last successful compile.

SIGHUP reloads the configuration file and the schema. When metrics are
served, /health and /ready are served next to them; /ready answers 503 while
the last compile failed.

Examples:
  # Recompile on change and keep build/pandora.xml up to date
  stdrc watch robots/pandora.xml --output build/pandora.xml

  # Serve compile metrics for Prometheus while watching
  stdrc watch robots/pandora.xml --metrics-listen :9464`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.output, "output", "o", "", "rewrite this file after every successful compile")
	watchCmd.Flags().StringVar(&watchFlags.metricsListen, "metrics-listen", "", "override telemetry.metrics.listen_address")
}

// session recompiles one entry document and swaps its toolchain on reload.
type session struct {
	entry  string
	output string

	mu      sync.Mutex
	tc      *toolchain
	lastErr error
}

func (s *session) toolchain() *toolchain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tc
}

// compile runs one compile and reports it. It returns the documents to
// track, or nil if the compile failed.
func (s *session) compile(ctx context.Context) []string {
	tc := s.toolchain()

	res, err := tc.compiler.Compile(ctx, s.entry)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if err != nil {
		tc.logger.Error("Compile failed", "document", s.entry, "error", err)
		return nil
	}
	defer res.Root.Release()

	tc.logger.Info(cli.NewReport(s.entry, res.Duration, res.Sources, res.Nodes(), nil).String())

	if s.output != "" {
		if err := writeOutput(tc.compiler, res.Root, s.output); err != nil {
			tc.logger.Error("Failed to write output", "path", s.output, "error", err)
		}
	}
	tc.flushMetrics()
	return res.Sources
}

// lastCompile returns the error of the last compile, or nil if it succeeded.
func (s *session) lastCompile(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// reload rebuilds the toolchain from the configuration file.
func (s *session) reload() error {
	if err := config.ReloadConfig(cfgFile); err != nil {
		return err
	}
	cfg := config.GetConfig()
	applyFlags(cfg)

	next, err := newToolchain(cfg, s.toolchain())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tc = next
	s.mu.Unlock()
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlags.metricsListen != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.ListenAddress = watchFlags.metricsListen
	}
	tc, err := newToolchain(cfg, nil)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	s := &session{entry: args[0], output: watchFlags.output, tc: tc}

	if addr := cfg.Telemetry.Metrics.ListenAddress; cfg.Telemetry.Metrics.Enabled && addr != "" {
		srv := serveMetrics(s, addr, cfg.Telemetry.Metrics.Path)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	w, err := watch.NewFileWatcher(&watch.Config{
		Paths:      []string{args[0]},
		Debounce:   cfg.Watch.Debounce,
		Extensions: cfg.Watch.Extensions,
		SkipHidden: true,
	}, tc.logger.Slog())
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	track := func(sources []string) {
		if sources == nil {
			return
		}
		if cfgFile != "" {
			sources = append(sources, cfgFile)
		}
		if err := w.Track(sources); err != nil {
			s.toolchain().logger.Warn("Failed to track documents", "error", err)
		}
	}
	track(s.compile(ctx))

	go func() {
		reloads := cli.WaitForReload()
		for {
			select {
			case <-ctx.Done():
				return
			case <-reloads:
				if err := s.reload(); err != nil {
					s.toolchain().logger.Error("Reload failed", "error", err)
					continue
				}
				s.toolchain().logger.Info("Configuration reloaded")
				track(s.compile(ctx))
			}
		}
	}()

	return w.Watch(ctx, func(path string) error {
		if cfgFile != "" && sameFile(path, cfgFile) {
			if err := s.reload(); err != nil {
				return fmt.Errorf("reload %s: %w", cfgFile, err)
			}
		}
		track(s.compile(ctx))
		return nil
	})
}

// serveMetrics starts the Prometheus endpoint and the health probes in the
// background.
func serveMetrics(s *session, addr, path string) *http.Server {
	tc := s.toolchain()

	checker := health.New(time.Second)
	checker.RegisterCheck("compile", s.lastCompile)

	mux := http.NewServeMux()
	mux.Handle(path, tc.collector.Handler())
	checker.Register(mux)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		tc.logger.Info("Serving metrics", "address", addr, "path", path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tc.logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
