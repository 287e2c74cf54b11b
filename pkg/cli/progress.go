package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter follows a lint run one document at a time.
type ProgressReporter interface {
	Start(total int)
	Done(r *Report)
	Finish()
}

// LintProgress renders a single status line: a bar over the documents, the
// number of included documents pulled in so far and the failures.
type LintProgress struct {
	mu       sync.Mutex
	total    int
	done     int
	included int
	failed   int
	started  time.Time
	writer   io.Writer
}

// NewProgressReporter creates a reporter that writes to w, or to os.Stderr
// when w is nil.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &LintProgress{writer: w}
}

// Start resets the counters for total documents.
func (p *LintProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done, p.included, p.failed = 0, 0, 0
	p.started = time.Now()
	p.render()
}

// Done counts the document behind r and the documents it included.
func (p *LintProgress) Done(r *Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if len(r.Sources) > 1 {
		p.included += len(r.Sources) - 1
	}
	if !r.OK {
		p.failed++
	}
	p.render()
}

// Finish ends the status line.
func (p *LintProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		fmt.Fprintln(p.writer)
	}
}

func (p *LintProgress) render() {
	if p.total == 0 {
		return
	}

	const barWidth = 30
	filled := barWidth * min(p.done, p.total) / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	rate := 0.0
	if elapsed := time.Since(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}

	fmt.Fprintf(p.writer, "\rLinting: [%s] %d/%d documents, %d included, %d failed (%.1f docs/s)",
		bar, p.done, p.total, p.included, p.failed, rate)
}
