package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/tree"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q, want %q", string(output), "test message\n")
	}

	buf := &bytes.Buffer{}
	if err := formatter.FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{name: "simple string", data: "test"},
		{name: "map with indent", data: map[string]string{"key": "value"}, indent: true},
		{name: "report", data: NewReport("robot.xml", time.Millisecond, []string{"robot.xml"}, 4, nil), indent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result any
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
			if tt.indent && !bytes.Contains(output, []byte("\n")) {
				t.Error("indented output has no newlines")
			}
		})
	}
}

func TestYAMLFormatter(t *testing.T) {
	loc := tree.Location{File: "laser.xml", Line: 2}
	report := NewReport("robot.xml", 0, nil, 0, stdrErrors.NewSchemaViolation("frame_id", loc, "missing <frame_id>"))

	buf := &bytes.Buffer{}
	if err := (&YAMLFormatter{}).FormatTo(buf, report); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded struct {
		File  string `yaml:"file"`
		OK    bool   `yaml:"ok"`
		Error struct {
			Type     string `yaml:"type"`
			Tag      string `yaml:"tag"`
			Location string `yaml:"location"`
		} `yaml:"error"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if decoded.OK || decoded.Error.Type != "schema" || decoded.Error.Tag != "frame_id" {
		t.Errorf("decoded = %+v", decoded)
	}
	if !strings.HasPrefix(decoded.Error.Location, "laser.xml:2") {
		t.Errorf("location = %q, want laser.xml:2...", decoded.Error.Location)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := NewFormatter(tt.format)
			switch got.(type) {
			case *TextFormatter:
				if tt.want != "*cli.TextFormatter" {
					t.Errorf("NewFormatter(%q) = %T, want %s", tt.format, got, tt.want)
				}
			case *JSONFormatter:
				if tt.want != "*cli.JSONFormatter" {
					t.Errorf("NewFormatter(%q) = %T, want %s", tt.format, got, tt.want)
				}
			case *YAMLFormatter:
				if tt.want != "*cli.YAMLFormatter" {
					t.Errorf("NewFormatter(%q) = %T, want %s", tt.format, got, tt.want)
				}
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReport_String(t *testing.T) {
	ok := NewReport("robot.xml", 1500*time.Microsecond, []string{"robot.xml", "laser.xml"}, 12, nil)
	if got := ok.String(); got != "ok   robot.xml (12 nodes, 2 documents, 1.50ms)" {
		t.Errorf("String() = %q", got)
	}

	failed := NewReport("robot.xml", 0, nil, 0, errors.New("boom"))
	if got := failed.String(); got != "FAIL robot.xml\nboom" {
		t.Errorf("String() = %q", got)
	}
	if failed.Error.Type != "error" {
		t.Errorf("Error.Type = %q, want error", failed.Error.Type)
	}
}

func TestSummary(t *testing.T) {
	schemaErr := stdrErrors.NewSchemaViolation("frame_id", tree.Location{}, "missing")

	var s Summary
	s.Add(NewReport("a.xml", 0, nil, 1, nil))
	s.Add(NewReport("b.xml", 0, nil, 0, schemaErr))
	s.Add(NewReport("c.xml", 0, nil, 1, nil))

	if s.Passed != 2 || s.Failed != 1 {
		t.Errorf("passed/failed = %d/%d, want 2/1", s.Passed, s.Failed)
	}
	if !errors.Is(s.Err(), schemaErr) {
		t.Errorf("Err() = %v, want the schema violation", s.Err())
	}
	if !strings.HasSuffix(s.String(), "2 passed, 1 failed") {
		t.Errorf("String() = %q", s.String())
	}

	var empty Summary
	if empty.Err() != nil {
		t.Error("Err() of empty summary != nil")
	}
}
