// Package validator loads the declarative schema of the description language
// and checks trees against it.
//
// The schema is structural only: for every tag it lists the tags allowed as
// direct children, the tags required among them, and an optional default
// value. A second document lists the tags whose repetition is legitimate and
// which the normalizer must never merge.
//
// # Basic Usage
//
//	specs, err := validator.LoadSpecs(parser.NewParser(),
//	    "resources/specifications.xml", "resources/non_mergable.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v := validator.NewValidator(specs)
//	if err := v.Validate("robot.xml", root); err != nil {
//	    log.Fatal(err)
//	}
//
// # Registry
//
// Specs is a plain value threaded through validation and merging. Registry
// keeps a current Specs for callers that need a shared one; Clear swaps in an
// empty schema and returns the previous one so sessions stay isolated.
//
// # Leaf Values
//
// Leaf text is never checked. Tags without a schema entry are treated as
// having empty allowed and required sets.
package validator
