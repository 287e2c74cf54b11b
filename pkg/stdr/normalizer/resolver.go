package normalizer

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/tree"
)

// Strategy names one way of turning an inclusion reference into a candidate path.
type Strategy string

const (
	// StrategyLiteral uses the reference as written, relative to the working directory.
	StrategyLiteral Strategy = "literal"

	// StrategyIncluder resolves the reference against the directory of the
	// document that contains it.
	StrategyIncluder Strategy = "includer"

	// StrategySearchPath joins every search path with the reference.
	StrategySearchPath Strategy = "search_path"

	// StrategySearchBasename joins every search path with the base name of the
	// reference.
	StrategySearchBasename Strategy = "search_basename"
)

// DefaultOrder is the search order used when none is configured.
var DefaultOrder = []Strategy{
	StrategyLiteral,
	StrategyIncluder,
	StrategySearchPath,
	StrategySearchBasename,
}

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyLiteral, StrategyIncluder, StrategySearchPath, StrategySearchBasename:
		return st, nil
	default:
		return "", fmt.Errorf("unknown resolver strategy %q (valid: %s, %s, %s, %s)", s,
			StrategyLiteral, StrategyIncluder, StrategySearchPath, StrategySearchBasename)
	}
}

// Resolver locates the document named by an inclusion reference.
type Resolver struct {
	// SearchPaths are the fallback directories, tried in order.
	SearchPaths []string

	// Order is the sequence of strategies tried. Empty means DefaultOrder.
	Order []Strategy
}

// NewResolver creates a resolver with the default order.
func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{SearchPaths: searchPaths}
}

// Candidates returns the paths tried for ref, in order, without duplicates.
// includer is the path of the document holding the reference.
func (r *Resolver) Candidates(ref, includer string) []string {
	order := r.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	var candidates []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !slices.Contains(candidates, path) {
			candidates = append(candidates, path)
		}
	}

	for _, st := range order {
		switch st {
		case StrategyLiteral:
			add(ref)
		case StrategyIncluder:
			if includer != "" && !filepath.IsAbs(ref) {
				add(filepath.Join(filepath.Dir(includer), ref))
			}
		case StrategySearchPath:
			if filepath.IsAbs(ref) {
				continue
			}
			for _, dir := range r.SearchPaths {
				add(filepath.Join(dir, ref))
			}
		case StrategySearchBasename:
			for _, dir := range r.SearchPaths {
				add(filepath.Join(dir, filepath.Base(ref)))
			}
		}
	}
	return candidates
}

// Resolve returns the absolute path of the first candidate that is a regular
// file. loc is the position of the reference and is used for errors.
func (r *Resolver) Resolve(ref string, loc tree.Location) (string, error) {
	candidates := r.Candidates(ref, loc.File)
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", stdrErrors.NewReferenceError(ref, loc, err.Error())
		}
		return abs, nil
	}

	err := stdrErrors.NewReferenceError(ref, loc, fmt.Sprintf("cannot resolve inclusion %q", ref))
	err.Suggestion = "Tried: " + strings.Join(candidates, ", ")
	return "", stdrErrors.AddContextToError(err)
}
