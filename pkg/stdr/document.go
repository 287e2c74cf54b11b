package stdr

import (
	"encoding/xml"

	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"

	"gopkg.in/yaml.v3"
)

// Document is a normalized tree that SaveMessage can write as XML or YAML.
type Document struct {
	Root  *tree.Node
	Specs *validator.Specs
}

// MarshalYAML implements yaml.Marshaler.
func (d Document) MarshalYAML() (any, error) {
	var lists validator.TagSet
	if d.Specs != nil {
		lists = d.Specs.NonMergable
	}
	return ToYAML(d.Root, lists), nil
}

// MarshalXML implements xml.Marshaler. A document root with a single
// top-level element is written as that element; otherwise start wraps the
// top-level elements.
func (d Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	root := d.Root
	if root.Tag != tree.DocumentTag {
		return encodeNode(e, root)
	}
	if len(root.Elements) == 1 && root.Elements[0].IsTag() {
		return encodeNode(e, root.Elements[0])
	}

	start.Name = xml.Name{Local: "document"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range root.Elements {
		if err := encodeNode(e, child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func encodeNode(e *xml.Encoder, n *tree.Node) error {
	if n.IsValue() {
		return e.EncodeToken(xml.CharData(n.Value))
	}
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for i, child := range n.Elements {
		// Adjacent values are separated so they do not fuse into one word.
		if i > 0 && child.IsValue() && n.Elements[i-1].IsValue() {
			if err := e.EncodeToken(xml.CharData(" ")); err != nil {
				return err
			}
		}
		if err := encodeNode(e, child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

var (
	_ xml.Marshaler  = Document{}
	_ yaml.Marshaler = Document{}
)
