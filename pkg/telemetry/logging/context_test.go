package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	if got := GetSession(ctx); got != "" {
		t.Errorf("GetSession() on empty context = %q", got)
	}

	ctx = WithSession(ctx, "7b1c")
	if got := GetSession(ctx); got != "7b1c" {
		t.Errorf("GetSession() = %q, want %q", got, "7b1c")
	}

	ctx = WithDocument(ctx, "robots/pandora.xml")
	if got := GetDocument(ctx); got != "robots/pandora.xml" {
		t.Errorf("GetDocument() = %q, want %q", got, "robots/pandora.xml")
	}

	ctx = WithPass(ctx, "dereference")
	if got := GetPass(ctx); got != "dereference" {
		t.Errorf("GetPass() = %q, want %q", got, "dereference")
	}
}

func TestExtractContextFields(t *testing.T) {
	if fields := extractContextFields(context.Background()); len(fields) != 0 {
		t.Errorf("extractContextFields() on empty context = %v", fields)
	}

	ctx := WithPass(WithSession(context.Background(), "s"), "merge")
	fields := extractContextFields(ctx)
	want := []any{"session", "s", "pass", "merge"}
	if len(fields) != len(want) {
		t.Fatalf("extractContextFields() = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, fields[i], want[i])
		}
	}
}

func TestContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "text", Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithSession(context.Background(), "watch-1")
	cl := NewContextLogger(logger, ctx).With("trigger", "robot.xml")

	cl.Info("recompiling")
	cl.Debug("changed")
	cl.Warn("slow")
	cl.Error("failed")

	output := buf.String()
	if got := strings.Count(output, "session=watch-1"); got != 4 {
		t.Errorf("session field appears %d times, want 4: %s", got, output)
	}
	if got := strings.Count(output, "trigger=robot.xml"); got != 4 {
		t.Errorf("trigger field appears %d times, want 4: %s", got, output)
	}
}
