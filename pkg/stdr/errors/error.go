package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"stdr-sim/stdrc/pkg/stdr/tree"
)

// ErrorType categorizes the failure.
type ErrorType string

const (
	ErrorTypeLoad      ErrorType = "load"      // Document cannot be opened or is malformed
	ErrorTypeReference ErrorType = "reference" // Inclusion reference cannot be resolved
	ErrorTypeSchema    ErrorType = "schema"    // Allowed/required child violation
)

// Error is the single structured error raised by every stage of the compiler.
type Error struct {
	Type       ErrorType     // Category of error
	Message    string        // Human-readable message
	Tag        string        // Offending tag (schema) or path (load, reference)
	Location   tree.Location // Origin of the offending node, when known
	Context    string        // Surrounding lines of the source document
	Suggestion string        // Suggested fix (optional)
	Err        error         // Underlying cause (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	sb.WriteString("\n")

	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewLoadError reports a document that cannot be opened or parsed.
func NewLoadError(path string, line int, cause error) *Error {
	return &Error{
		Type:     ErrorTypeLoad,
		Message:  fmt.Sprintf("failed to load %q", path),
		Tag:      path,
		Location: tree.Location{File: path, Line: line},
		Err:      cause,
	}
}

// NewReferenceError reports an inclusion reference that cannot be resolved.
// loc is the position of the including node.
func NewReferenceError(path string, loc tree.Location, message string) *Error {
	return &Error{
		Type:     ErrorTypeReference,
		Message:  message,
		Tag:      path,
		Location: loc,
	}
}

// NewSchemaViolation reports a child tag violating the schema of its parent.
func NewSchemaViolation(tag string, loc tree.Location, message string) *Error {
	return &Error{
		Type:     ErrorTypeSchema,
		Message:  message,
		Tag:      tag,
		Location: loc,
	}
}

// IsLoadError reports whether err is, or wraps, a load error.
func IsLoadError(err error) bool {
	return hasType(err, ErrorTypeLoad)
}

// IsReferenceError reports whether err is, or wraps, a reference error.
func IsReferenceError(err error) bool {
	return hasType(err, ErrorTypeReference)
}

// IsSchemaViolation reports whether err is, or wraps, a schema violation.
func IsSchemaViolation(err error) bool {
	return hasType(err, ErrorTypeSchema)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasType(err error, errType ErrorType) bool {
	e, ok := As(err)
	return ok && e.Type == errType
}
