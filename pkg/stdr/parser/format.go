package parser

import "stdr-sim/stdrc/pkg/stdr/tree"

// Format converts one serialized document into a tree.
// Every emitted node is annotated with the document path and its row in the
// document; the returned root has tag tree.DocumentTag.
type Format interface {
	// Name identifies the format in logs and errors.
	Name() string

	// Extensions lists the file extensions handled by the format, with the dot.
	Extensions() []string

	// Decode parses data read from path.
	Decode(data []byte, path string) (*tree.Node, error)
}
