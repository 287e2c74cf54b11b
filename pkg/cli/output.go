package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML output.
	FormatYAML OutputFormat = "yaml"
)

// Formatter formats command output.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as plain text.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	return []byte(fmt.Sprintf("%v\n", data)), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// Format converts data to YAML format.
func (f *YAMLFormatter) Format(data any) ([]byte, error) {
	return yaml.Marshal(data)
}

// FormatTo writes data to writer in YAML format.
func (f *YAMLFormatter) FormatTo(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unknown format %q (text, json, yaml)", s))
	}
}

// ErrorReport is the serializable form of a compile error.
type ErrorReport struct {
	Type       string `json:"type" yaml:"type"`
	Message    string `json:"message" yaml:"message"`
	Tag        string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Report summarizes the compile of one document.
type Report struct {
	File       string       `json:"file" yaml:"file"`
	OK         bool         `json:"ok" yaml:"ok"`
	DurationMS float64      `json:"duration_ms" yaml:"duration_ms"`
	Sources    []string     `json:"sources,omitempty" yaml:"sources,omitempty"`
	Nodes      int          `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Error      *ErrorReport `json:"error,omitempty" yaml:"error,omitempty"`

	// err keeps the full error for text output.
	err error
}

// NewReport builds the report of a compile that read sources and produced
// nodes tag nodes, or failed with err.
func NewReport(file string, duration time.Duration, sources []string, nodes int, err error) *Report {
	r := &Report{
		File:       file,
		OK:         err == nil,
		DurationMS: float64(duration.Microseconds()) / 1000,
		Sources:    sources,
		Nodes:      nodes,
		err:        err,
	}
	if err == nil {
		return r
	}

	r.Error = &ErrorReport{Type: "error", Message: err.Error()}
	if e, ok := stdrErrors.As(err); ok {
		r.Error = &ErrorReport{
			Type:       string(e.Type),
			Message:    e.Message,
			Tag:        e.Tag,
			Suggestion: e.Suggestion,
		}
		if e.Location.File != "" {
			r.Error.Location = e.Location.String()
		}
	}
	return r
}

// String renders the report for a terminal.
func (r *Report) String() string {
	if r.OK {
		return fmt.Sprintf("%s %s (%d nodes, %d documents, %.2fms)",
			color.GreenString("ok  "), r.File, r.Nodes, len(r.Sources), r.DurationMS)
	}
	detail := ""
	switch {
	case r.err != nil:
		detail = r.err.Error()
	case r.Error != nil:
		detail = r.Error.Message
	}
	return fmt.Sprintf("%s %s\n%s", color.RedString("FAIL"), r.File, strings.TrimRight(detail, "\n"))
}

// Summary is the result of linting several documents.
type Summary struct {
	Reports []*Report `json:"reports" yaml:"reports"`
	Passed  int       `json:"passed" yaml:"passed"`
	Failed  int       `json:"failed" yaml:"failed"`
}

// Add appends r and updates the counts.
func (s *Summary) Add(r *Report) {
	s.Reports = append(s.Reports, r)
	if r.OK {
		s.Passed++
	} else {
		s.Failed++
	}
}

// Err returns the first failure, or nil.
func (s *Summary) Err() error {
	for _, r := range s.Reports {
		if !r.OK {
			return r.err
		}
	}
	return nil
}

// String renders every report followed by the counts.
func (s *Summary) String() string {
	var sb strings.Builder
	for _, r := range s.Reports {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d passed, %d failed", s.Passed, s.Failed)
	return sb.String()
}
