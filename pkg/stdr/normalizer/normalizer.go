package normalizer

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/tree"
)

const (
	// DefaultFilenameTag is the child tag marking an inclusion reference.
	DefaultFilenameTag = "filename"

	// DefaultMaxDepth bounds the length of an inclusion chain.
	DefaultMaxDepth = 32
)

// Normalizer resolves inclusion references using a parser and a resolver.
// The merge passes do not need one and are plain functions.
type Normalizer struct {
	parser      *parser.Parser
	resolver    *Resolver
	filenameTag string
	maxDepth    int
}

// New creates a normalizer. A nil resolver searches with the default order
// and no search paths.
func New(p *parser.Parser, r *Resolver) *Normalizer {
	if p == nil {
		p = parser.NewParser()
	}
	if r == nil {
		r = NewResolver()
	}
	return &Normalizer{
		parser:      p,
		resolver:    r,
		filenameTag: DefaultFilenameTag,
		maxDepth:    DefaultMaxDepth,
	}
}

// WithFilenameTag sets the tag that marks an inclusion reference.
func (n *Normalizer) WithFilenameTag(tag string) *Normalizer {
	n.filenameTag = tag
	return n
}

// WithMaxDepth sets the maximum number of nested documents on one inclusion chain.
func (n *Normalizer) WithMaxDepth(depth int) *Normalizer {
	n.maxDepth = depth
	return n
}

// EliminateFilenames resolves the first inclusion reference found in a
// pre-order walk of root. The referenced document is parsed and its
// top-level elements replace the reference as children of the including
// node, each raised above the including node's priority. If the referenced
// document holds a single element with the including node's tag, that
// element's children are spliced instead.
//
// It returns false when root holds no reference. Callers loop until then.
func (n *Normalizer) EliminateFilenames(root *tree.Node) (bool, error) {
	path := findReference(root, n.filenameTag)
	if path == nil {
		return false, nil
	}
	including := path[len(path)-1]
	ref := including.Elements[0]
	loc := ref.Location()

	name := strings.TrimSpace(ref.Text())
	if name == "" {
		err := stdrErrors.NewReferenceError("", loc,
			fmt.Sprintf("empty <%s> inclusion in <%s>", n.filenameTag, including.Tag))
		return false, stdrErrors.AddContextToError(err)
	}

	resolved, err := n.resolver.Resolve(name, loc)
	if err != nil {
		return false, err
	}

	chain := inclusionChain(append(path, ref))
	if slices.Contains(chain, resolved) {
		err := stdrErrors.NewReferenceError(name, loc,
			fmt.Sprintf("inclusion cycle: %s -> %s", strings.Join(chain, " -> "), resolved))
		return false, stdrErrors.AddContextToError(err)
	}
	if len(chain) >= n.maxDepth {
		err := stdrErrors.NewReferenceError(name, loc,
			fmt.Sprintf("inclusion chain deeper than %d documents", n.maxDepth))
		return false, stdrErrors.AddContextToError(err)
	}

	doc, err := n.parser.Parse(resolved)
	if err != nil {
		return false, err
	}

	children := spliceable(doc, including.Tag)
	delta := including.Priority + 1
	for _, child := range children {
		for range delta {
			child.IncreasePriority()
		}
	}

	ref.Release()
	including.Elements = children
	including.Inclusions = append(including.Inclusions, resolved)
	doc.Elements = nil

	return true, nil
}

// findReference returns the ancestors of the first node carrying an
// inclusion reference, ending with that node, or nil.
func findReference(root *tree.Node, filenameTag string) []*tree.Node {
	if root.IsValue() {
		return nil
	}
	if root.CheckForFilename(filenameTag) {
		return []*tree.Node{root}
	}
	for _, child := range root.Elements {
		if path := findReference(child, filenameTag); path != nil {
			return append([]*tree.Node{root}, path...)
		}
	}
	return nil
}

// inclusionChain returns the distinct documents along path, outermost first:
// the origin of every node and the documents already spliced into it.
func inclusionChain(path []*tree.Node) []string {
	var chain []string
	add := func(file string) {
		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}
		if !slices.Contains(chain, abs) {
			chain = append(chain, abs)
		}
	}
	for _, n := range path {
		if n.FileOrigin != "" {
			add(n.FileOrigin)
		}
		for _, file := range n.Inclusions {
			add(file)
		}
	}
	return chain
}

// spliceable returns the nodes a parsed document contributes to an including
// node with the given tag.
func spliceable(doc *tree.Node, tag string) []*tree.Node {
	if doc.Tag != tree.DocumentTag {
		return doc.Elements
	}
	if len(doc.Elements) == 1 && doc.Elements[0].Tag == tag {
		inner := doc.Elements[0]
		children := inner.Elements
		inner.Elements = nil
		return children
	}
	return doc.Elements
}
