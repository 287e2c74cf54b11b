package tree

import "fmt"

// Location represents the source position of a node in the document that produced it.
type Location struct {
	File string // Path to the source document
	Line int    // Line number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
