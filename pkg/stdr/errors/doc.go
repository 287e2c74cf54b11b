// Package errors provides the structured error type raised while loading,
// resolving, and validating STDR description documents.
//
// # Error Types
//
// ErrorTypeLoad: a document (primary or included) cannot be opened or is
// malformed for its format
//
// ErrorTypeReference: an inclusion reference points to a document that cannot
// be found, or forms a cycle
//
// ErrorTypeSchema: a child tag is not allowed, or a required child is missing
//
// # Basic Usage
//
//	_, err := compiler.Parse("robot.xml")
//	if errors.IsSchemaViolation(err) {
//	    e, _ := errors.As(err)
//	    fmt.Println("offending tag:", e.Tag, "at", e.Location)
//	}
//
// # Error Format
//
//	[schema] required tag "frame_id" missing from <laser_specifications>
//	  --> robots/robot.xml:12
//	  |
//	   10 |       <min_range>0.1</min_range>
//	   11 |       <num_rays>667</num_rays>
//	-> 12 |     <laser_specifications>
//	  |
//	  = suggestion: Add a <frame_id> element inside <laser_specifications>
package errors
