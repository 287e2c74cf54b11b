package parser

import (
	"errors"

	"gopkg.in/yaml.v3"

	"stdr-sim/stdrc/pkg/stdr/tree"
)

// mergeKey is the YAML merge key; its mapping is folded into the enclosing one.
const mergeKey = "<<"

// YAMLFormat decodes YAML documents.
// Mapping keys become tag nodes and scalars become value nodes. The items of a
// sequence are decoded into the enclosing tag, which is how repeated elements
// (several lasers in one robot) are written in YAML.
type YAMLFormat struct{}

// Name implements Format.
func (YAMLFormat) Name() string { return "yaml" }

// Extensions implements Format.
func (YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }

// Decode implements Format.
func (YAMLFormat) Decode(data []byte, path string) (*tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, errors.New("document is empty")
	}

	root := tree.NewTag(tree.DocumentTag, tree.Location{File: path, Line: 1})
	decodeYAML(&doc, root, path)
	return root, nil
}

// decodeYAML appends the content of n to parent, preserving line numbers from
// the YAML parser.
func decodeYAML(n *yaml.Node, parent *tree.Node, path string) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, item := range n.Content {
			decodeYAML(item, parent, path)
		}

	case yaml.AliasNode:
		if n.Alias != nil {
			decodeYAML(n.Alias, parent, path)
		}

	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Value == mergeKey {
				decodeYAML(value, parent, path)
				continue
			}
			child := tree.NewTag(key.Value, tree.Location{File: path, Line: key.Line})
			parent.Append(child)
			decodeYAML(value, child, path)
		}

	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return
		}
		parent.Append(tree.NewValue(n.Value, tree.Location{File: path, Line: n.Line}))
	}
}
