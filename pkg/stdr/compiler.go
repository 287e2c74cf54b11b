package stdr

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/normalizer"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"
	"stdr-sim/stdrc/pkg/telemetry/logging"

	"github.com/google/uuid"
)

// Pass names reported to the Recorder and in logs.
const (
	PassDereference = "dereference"
	PassMerge       = "merge"
	PassMergeValues = "merge_values"
	PassDefaults    = "defaults"
)

// StatusOK is the compile status recorded for a successful compile. Failed
// compiles are recorded with their error type.
const StatusOK = "ok"

// Recorder receives compile measurements. *metrics.Collector implements it.
type Recorder interface {
	RecordCompile(status string, duration time.Duration)
	RecordPass(pass string, iterations int)
	RecordInclusions(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordCompile(string, time.Duration) {}
func (nopRecorder) RecordPass(string, int)              {}
func (nopRecorder) RecordInclusions(int)                {}

// Compiler turns an entry document into a validated, normalized tree.
//
// A Compiler holds its own schema snapshot and keeps no state between
// compiles, so one Compiler may serve concurrent callers.
type Compiler struct {
	parser      *parser.Parser
	resolver    *normalizer.Resolver
	filenameTag string
	maxDepth    int
	specs       *validator.Specs
	defaults    bool
	logger      *logging.Logger
	recorder    Recorder
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithParser sets the document parser.
func WithParser(p *parser.Parser) Option {
	return func(c *Compiler) { c.parser = p }
}

// WithResolver sets how inclusion references are located.
func WithResolver(r *normalizer.Resolver) Option {
	return func(c *Compiler) { c.resolver = r }
}

// WithFilenameTag sets the tag marking an inclusion reference.
func WithFilenameTag(tag string) Option {
	return func(c *Compiler) { c.filenameTag = tag }
}

// WithMaxDepth bounds the number of nested documents on one inclusion chain.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) { c.maxDepth = depth }
}

// WithSpecs sets the schema used for validation and merging.
func WithSpecs(specs *validator.Specs) Option {
	return func(c *Compiler) { c.specs = specs }
}

// WithRegistry takes the schema currently installed in r.
func WithRegistry(r *validator.Registry) Option {
	return func(c *Compiler) { c.specs = r.Current() }
}

// WithDefaults enables filling absent leaves from schema default values.
func WithDefaults(enabled bool) Option {
	return func(c *Compiler) { c.defaults = enabled }
}

// WithLogger sets the logger. Passes are logged at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) { c.recorder = r }
}

// New creates a compiler. Without options it parses XML and YAML, resolves
// inclusions relative to the literal path and the including document, and
// validates against an empty schema.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}

	if c.filenameTag == "" {
		c.filenameTag = normalizer.DefaultFilenameTag
	}
	if c.maxDepth <= 0 {
		c.maxDepth = normalizer.DefaultMaxDepth
	}
	if c.parser == nil {
		c.parser = parser.NewParser()
	}
	if c.resolver == nil {
		c.resolver = normalizer.NewResolver()
	}
	if c.specs == nil {
		c.specs = validator.NewSpecs()
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	return c
}

// Specs returns the schema the compiler validates against.
func (c *Compiler) Specs() *validator.Specs {
	return c.specs
}

// Result is a compiled document.
type Result struct {
	// Root is the normalized tree, rooted at a tree.DocumentTag node.
	Root *tree.Node

	// Sources lists the absolute paths of every document read, entry first.
	Sources []string

	// Inclusions is the number of inclusion references resolved.
	Inclusions int

	// Duration is the wall time of the compile.
	Duration time.Duration
}

// Nodes returns the number of tag nodes in the tree, the root excluded.
func (r *Result) Nodes() int {
	count := 0
	r.Root.Walk(func(n *tree.Node) bool {
		if n.IsTag() && n != r.Root {
			count++
		}
		return true
	})
	return count
}

// Parse compiles the document at path and returns the normalized tree.
func (c *Compiler) Parse(path string) (*tree.Node, error) {
	res, err := c.Compile(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return res.Root, nil
}

// Compile parses the document at path, resolves its inclusions, validates
// it, merges repeated elements and, if enabled, fills default values.
//
// Inclusion resolution stops early when ctx is cancelled. Failures are
// *errors.Error values of type load, reference or schema.
func (c *Compiler) Compile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	ctx = logging.WithSession(ctx, uuid.NewString())
	ctx = logging.WithDocument(ctx, path)

	res, err := c.compile(ctx, path)
	elapsed := time.Since(start)
	c.recorder.RecordCompile(status(err), elapsed)

	if err != nil {
		c.logger.DebugContext(ctx, "Compile failed", "error", err, "duration", elapsed)
		return nil, err
	}

	res.Duration = elapsed
	c.logger.DebugContext(ctx, "Compile finished",
		"documents", len(res.Sources),
		"inclusions", res.Inclusions,
		"duration", elapsed,
	)
	return res, nil
}

func (c *Compiler) compile(ctx context.Context, path string) (*Result, error) {
	root, err := c.parser.Parse(path)
	if err != nil {
		return nil, err
	}

	norm := normalizer.New(c.parser, c.resolver).
		WithFilenameTag(c.filenameTag).
		WithMaxDepth(c.maxDepth)

	inclusions, err := normalizer.Fixpoint(func() (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return norm.EliminateFilenames(root)
	})
	c.recorder.RecordInclusions(inclusions)
	c.recorder.RecordPass(PassDereference, inclusions)
	if err != nil {
		root.Release()
		return nil, err
	}
	c.logger.DebugContext(logging.WithPass(ctx, PassDereference), "Pass finished", "iterations", inclusions)

	// Merging discards the inclusion records of folded duplicates.
	sources := collectSources(path, root)

	if err := validator.NewValidator(c.specs).ValidateDocument(path, root); err != nil {
		root.Release()
		return nil, err
	}

	merges, _ := normalizer.Fixpoint(func() (bool, error) {
		return normalizer.MergeNodes(root, c.specs), nil
	})
	c.recorder.RecordPass(PassMerge, merges)
	c.logger.DebugContext(logging.WithPass(ctx, PassMerge), "Pass finished", "iterations", merges)

	removed := normalizer.MergeNodesValues(root, c.specs)
	c.recorder.RecordPass(PassMergeValues, removed)
	c.logger.DebugContext(logging.WithPass(ctx, PassMergeValues), "Pass finished", "removed", removed)

	if c.defaults {
		added := normalizer.FillDefaults(root, c.specs)
		c.recorder.RecordPass(PassDefaults, added)
		c.logger.DebugContext(logging.WithPass(ctx, PassDefaults), "Pass finished", "added", added)
	}

	return &Result{Root: root, Sources: sources, Inclusions: inclusions}, nil
}

// collectSources returns the entry document followed by every document
// spliced into root, without duplicates.
func collectSources(path string, root *tree.Node) []string {
	entry, err := filepath.Abs(path)
	if err != nil {
		entry = path
	}
	sources := []string{entry}
	root.Walk(func(n *tree.Node) bool {
		for _, file := range n.Inclusions {
			if !slices.Contains(sources, file) {
				sources = append(sources, file)
			}
		}
		return true
	})
	return sources
}

func status(err error) string {
	if err == nil {
		return StatusOK
	}
	if e, ok := stdrErrors.As(err); ok {
		return string(e.Type)
	}
	return "error"
}
