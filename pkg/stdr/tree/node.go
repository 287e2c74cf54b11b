package tree

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

// DocumentTag is the tag of the synthetic root returned by the format parsers.
// Its children are the top-level elements of the document.
const DocumentTag = "#document"

// indentUnit is appended to the indent for every level rendered by Render.
const indentUnit = "| "

// Node is the unit of the document tree.
// Exactly one of Tag and Value is non-empty: a tag node is structural and may
// have children, a value node is leaf text and has none.
type Node struct {
	Tag      string  `json:"tag,omitempty"`
	Value    string  `json:"value,omitempty"`
	Elements []*Node `json:"elements,omitempty"`

	// Priority ranks nodes contributed at different inclusion depths.
	// Higher means more specific.
	Priority int `json:"priority"`

	FileOrigin string `json:"file_origin,omitempty"`
	FileRow    int    `json:"file_row,omitempty"`

	// Inclusions lists the documents spliced into this node, outermost first.
	Inclusions []string `json:"-"`
}

// NewTag creates a tag node at the given location.
func NewTag(tag string, loc Location) *Node {
	return &Node{Tag: tag, FileOrigin: loc.File, FileRow: loc.Line}
}

// NewValue creates a value node at the given location.
func NewValue(value string, loc Location) *Node {
	return &Node{Value: value, FileOrigin: loc.File, FileRow: loc.Line}
}

// IsValue returns true if the node carries leaf text.
func (n *Node) IsValue() bool {
	return n.Tag == ""
}

// IsTag returns true if the node is a structural element.
func (n *Node) IsTag() bool {
	return n.Tag != ""
}

// IsLeaf returns true for a tag node whose children are all value nodes,
// such as <max_range>5</max_range>. A tag node with no children is not a leaf.
func (n *Node) IsLeaf() bool {
	if !n.IsTag() || len(n.Elements) == 0 {
		return false
	}
	for _, child := range n.Elements {
		if child.IsTag() {
			return false
		}
	}
	return true
}

// Text returns the concatenated values of the node's value children.
func (n *Node) Text() string {
	var sb strings.Builder
	for _, child := range n.Elements {
		if child.IsValue() {
			sb.WriteString(child.Value)
		}
	}
	return sb.String()
}

// Location returns the source position of the node.
func (n *Node) Location() Location {
	return Location{File: n.FileOrigin, Line: n.FileRow}
}

// Append adds children at the end of the node's elements.
func (n *Node) Append(children ...*Node) {
	n.Elements = append(n.Elements, children...)
}

// CheckForFilename returns true if the node has exactly one child and that
// child's tag equals name. This is how an inclusion reference is recognized.
func (n *Node) CheckForFilename(name string) bool {
	return len(n.Elements) == 1 && n.Elements[0].Tag == name
}

// GetTag returns the positions among the direct children whose tag equals
// name, in declaration order. The result is empty if there is no match.
func (n *Node) GetTag(name string) []int {
	indexes := make([]int, 0)
	for i, child := range n.Elements {
		if child.Tag == name {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// IncreasePriority increments the priority of the node and of every descendant.
func (n *Node) IncreasePriority() {
	n.Priority++
	for _, child := range n.Elements {
		child.IncreasePriority()
	}
}

// Render returns a lazy trace of the subtree, one line per node.
// Each line holds the label (value for value nodes, tag otherwise), the
// priority, the source row and the base name of the source file. Children are
// rendered with indentUnit appended to indent. The sequence can be ranged
// over any number of times.
func (n *Node) Render(indent string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n.render(indent, yield)
	}
}

func (n *Node) render(indent string, yield func(string) bool) bool {
	label := n.Tag
	if n.IsValue() {
		label = n.Value
	}
	line := fmt.Sprintf("%s-%s (%d) - %d %s", indent, label, n.Priority, n.FileRow, baseName(n.FileOrigin))
	if !yield(line) {
		return false
	}
	for _, child := range n.Elements {
		if !child.render(indent+indentUnit, yield) {
			return false
		}
	}
	return true
}

// String renders the whole subtree with no indent.
func (n *Node) String() string {
	var sb strings.Builder
	for line := range n.Render("") {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Release tears down the subtree: every descendant is released exactly once
// and the node is left without children. The node must not be used as part of
// a tree afterwards.
func (n *Node) Release() {
	children := n.Elements
	n.Elements = nil
	for _, child := range children {
		child.Release()
	}
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Elements {
		child.Walk(fn)
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := *n
	c.Inclusions = slices.Clone(n.Inclusions)
	if n.Elements != nil {
		c.Elements = make([]*Node, len(n.Elements))
		for i, child := range n.Elements {
			c.Elements[i] = child.Clone()
		}
	}
	return &c
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
