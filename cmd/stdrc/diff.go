package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"stdr-sim/stdrc/pkg/stdr"
)

// errDocumentsDiffer makes diff exit non-zero when the documents differ.
var errDocumentsDiffer = errors.New("normalized documents differ")

var diffFlags struct {
	context int
}

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two descriptions after normalization",
	Long: `Compile two entry documents and print a line diff of their normalized
YAML. Differences in layout, inclusion structure or source format that do
not change the normalized tree are not reported.

Examples:
  # Did splitting the laser into its own file change anything?
  stdrc diff robots/pandora.xml robots/pandora_split.xml

  # Compare an XML description with its YAML port
  stdrc diff robots/pandora.xml robots/pandora.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().IntVarP(&diffFlags.context, "context", "U", 3, "unchanged lines shown around each change")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc, err := newToolchain(cfg, nil)
	if err != nil {
		return err
	}
	defer tc.flushMetrics()

	return diffFiles(cmd.Context(), tc.compiler, args[0], args[1], diffFlags.context, cmd.OutOrStdout())
}

// diffFiles writes the line diff of the normalized documents to w and
// returns errDocumentsDiffer if there is any change.
func diffFiles(ctx context.Context, c *stdr.Compiler, oldPath, newPath string, contextLines int, w io.Writer) error {
	oldText, err := normalizedYAML(ctx, c, oldPath)
	if err != nil {
		return err
	}
	newText, err := normalizedYAML(ctx, c, newPath)
	if err != nil {
		return err
	}

	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	if !hasChanges(diffs) {
		fmt.Fprintln(w, "no differences")
		return nil
	}

	fmt.Fprintln(w, color.RedString("--- %s", oldPath))
	fmt.Fprintln(w, color.GreenString("+++ %s", newPath))
	writeDiff(w, diffs, contextLines)
	return errDocumentsDiffer
}

func normalizedYAML(ctx context.Context, c *stdr.Compiler, path string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.Compile(ctx, path)
	if err != nil {
		return "", err
	}
	defer res.Root.Release()

	var buf bytes.Buffer
	if err := (stdr.FileSerializer{}).Serialize(&buf, stdr.Document{Root: res.Root, Specs: c.Specs()}, ".yaml"); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func hasChanges(diffs []diffpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

// writeDiff prints changed lines with a +/- prefix and at most contextLines
// unchanged lines around each change.
func writeDiff(w io.Writer, diffs []diffpatch.Diff, contextLines int) {
	for i, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffpatch.DiffDelete:
			for _, line := range lines {
				fmt.Fprintln(w, color.RedString("-%s", line))
			}
		case diffpatch.DiffInsert:
			for _, line := range lines {
				fmt.Fprintln(w, color.GreenString("+%s", line))
			}
		case diffpatch.DiffEqual:
			writeContext(w, lines, contextLines, i > 0, i < len(diffs)-1)
		}
	}
}

// writeContext prints the tail of an unchanged run after a change and its
// head before the next one, eliding the middle.
func writeContext(w io.Writer, lines []string, n int, afterChange, beforeChange bool) {
	var head, tail []string
	if afterChange {
		head = lines[:min(n, len(lines))]
	}
	if beforeChange {
		tail = lines[max(len(lines)-n, len(head)):]
	}

	for _, line := range head {
		fmt.Fprintf(w, " %s\n", line)
	}
	if len(head)+len(tail) < len(lines) {
		fmt.Fprintln(w, color.CyanString("@@"))
	}
	for _, line := range tail {
		fmt.Fprintf(w, " %s\n", line)
	}
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
