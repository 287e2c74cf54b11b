// Package parser converts XML and YAML description documents into trees.
//
// Both formats are adapters behind the Format interface and produce the same
// tree shape: a synthetic tree.DocumentTag root whose children are the
// document's top-level elements, with every node annotated with the source
// path and row.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	root, err := p.Parse("robots/pandora.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The same robot in XML and YAML:
//
//	<robot>
//	  <robot_specifications>
//	    <laser>
//	      <filename>sensors/laser.xml</filename>
//	    </laser>
//	  </robot_specifications>
//	</robot>
//
//	robot:
//	  robot_specifications:
//	    - laser:
//	        filename: sensors/laser.yaml
//
// # Inclusion References
//
// An element whose only content is a filename element is kept as-is; the
// normalizer resolves it. Parsers never recurse into other documents.
//
// # Custom Formats
//
// Additional formats can be registered by extension:
//
//	p := parser.NewParser().Register(myFormat{})
package parser
