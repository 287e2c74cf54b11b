package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"stdr-sim/stdrc/pkg/cli"
	"stdr-sim/stdrc/pkg/stdr"
)

var lintFlags struct {
	dir      string
	format   string
	progress bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [FILE...]",
	Short: "Check description documents",
	Long: `Compile each document and report whether it is valid.

A document is valid when it loads, all of its inclusions resolve and the
normalized tree satisfies the schema. The exit code reflects the first
failure: 2 for load errors, 3 for reference errors, 4 for schema violations.

Examples:
  # Lint two robots
  stdrc lint robots/pandora.xml robots/atlas.yaml

  # Lint every document in a directory
  stdrc lint --dir robots/

  # JSON output for CI/CD
  stdrc lint --dir robots/ --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of description documents")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, yaml")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show a progress bar on standard error")
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(lintFlags.format)
	if err != nil {
		return err
	}

	files, err := lintTargets(args, lintFlags.dir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc, err := newToolchain(cfg, nil)
	if err != nil {
		return err
	}
	defer tc.flushMetrics()

	var progress cli.ProgressReporter
	if lintFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	summary := lintFiles(cmd.Context(), tc.compiler, files, progress)
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), summary); err != nil {
		return err
	}
	return summary.Err()
}

// lintTargets returns the files to lint: the explicit arguments followed by
// the documents found directly in dir.
func lintTargets(args []string, dir string) ([]string, error) {
	files := slices.Clone(args)

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list description files: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".xml", ".yaml", ".yml":
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	if len(files) == 0 {
		return nil, cli.NewConfigError("lint", "no description files given; pass FILE arguments or --dir")
	}
	return files, nil
}

// lintFiles compiles every file and collects the reports.
func lintFiles(ctx context.Context, c *stdr.Compiler, files []string, progress cli.ProgressReporter) *cli.Summary {
	if ctx == nil {
		ctx = context.Background()
	}
	if progress != nil {
		progress.Start(len(files))
		defer progress.Finish()
	}

	summary := &cli.Summary{}
	for _, file := range files {
		var report *cli.Report
		res, err := c.Compile(ctx, file)
		if err != nil {
			report = cli.NewReport(file, 0, nil, 0, err)
		} else {
			report = cli.NewReport(file, res.Duration, res.Sources, res.Nodes(), nil)
			res.Root.Release()
		}
		summary.Add(report)
		if progress != nil {
			progress.Done(report)
		}
	}
	return summary
}
