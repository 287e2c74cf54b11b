// stdrc compiles STDR robot-simulation descriptions.
//
// It reads XML or YAML documents describing robots, sensors and
// environments, resolves their inclusions, validates them against the
// schema and merges repeated elements into one normalized tree.
//
// Usage:
//
//	# Compile a robot and print the normalized document
//	stdrc compile robots/pandora.xml
//
//	# Write the normalized document as XML
//	stdrc compile robots/pandora.yaml --output build/pandora.xml
//
//	# Check every description in a directory
//	stdrc lint --dir robots/
//
//	# Compare two descriptions after normalization
//	stdrc diff robots/pandora.xml robots/pandora_v2.xml
//
//	# Recompile whenever a document changes
//	stdrc watch robots/pandora.xml
package main

func main() {
	Execute()
}
