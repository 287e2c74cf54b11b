// Package stdr compiles robot-simulation description documents.
//
// A Compiler reads an entry document in XML or YAML and returns one
// normalized tree:
//
//  1. parse the entry document
//  2. resolve inclusion references until none is left
//  3. validate every element against the schema
//  4. merge repeated structural elements until none is left
//  5. keep the most specific of repeated leaves
//  6. optionally fill absent leaves from schema defaults
//
// Build a compiler from explicit options or from configuration:
//
//	c, err := stdr.FromConfig(cfg, nil, stdr.WithLogger(logger), stdr.WithRecorder(collector))
//	if err != nil {
//		return err
//	}
//	root, err := c.Parse("robots/pandora.xml")
//
// CreateMessage materializes the tree as a typed record and SaveMessage
// writes a record back as XML or YAML:
//
//	robot, err := stdr.CreateMessage(c, path, stdr.YAMLMaterializer[Robot]{
//		Specs:   c.Specs(),
//		Element: "robot",
//	})
//	err = stdr.SaveMessage(robot, "out/pandora.yaml", nil)
package stdr
