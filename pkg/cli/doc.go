/*
Package cli provides the helpers shared by the stdrc commands.

Output Formatting:

Compile results are reported as a Report, or a Summary when several
documents are linted, and rendered in text, JSON or YAML:

	formatter := cli.NewFormatter(cli.FormatJSON)
	report := cli.NewReport(path, res.Duration, res.Sources, res.Nodes(), err)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

ExitCode maps a compile error to a process exit code by its category.

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(files))
	for _, f := range files {
		progress.Done(lint(f))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
