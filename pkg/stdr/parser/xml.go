package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"stdr-sim/stdrc/pkg/stdr/tree"
)

// XMLFormat decodes XML documents.
// Elements become tag nodes and non-blank text becomes a value node, but only
// for elements without child elements. Attributes, comments and processing
// instructions are ignored.
type XMLFormat struct{}

// xmlFrame tracks an open element while its content is streamed.
type xmlFrame struct {
	node *tree.Node
	text strings.Builder
}

// Name implements Format.
func (XMLFormat) Name() string { return "xml" }

// Extensions implements Format.
func (XMLFormat) Extensions() []string { return []string{".xml"} }

// Decode implements Format.
func (XMLFormat) Decode(data []byte, path string) (*tree.Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root := tree.NewTag(tree.DocumentTag, tree.Location{File: path, Line: 1})
	stack := []*xmlFrame{{node: root}}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			node := tree.NewTag(t.Name.Local, tree.Location{File: path, Line: line})
			top.node.Append(node)
			stack = append(stack, &xmlFrame{node: node})

		case xml.CharData:
			top.text.Write(t)

		case xml.EndElement:
			if len(stack) == 1 {
				line, _ := dec.InputPos()
				return nil, &xml.SyntaxError{Msg: fmt.Sprintf("unexpected end element </%s>", t.Name.Local), Line: line}
			}
			stack = stack[:len(stack)-1]

			text := strings.TrimSpace(top.text.String())
			if text != "" && !hasTagChildren(top.node) {
				top.node.Append(tree.NewValue(text, top.node.Location()))
			}
		}
	}

	if len(stack) != 1 {
		line, _ := dec.InputPos()
		return nil, &xml.SyntaxError{Msg: "unexpected EOF", Line: line}
	}
	if len(root.Elements) == 0 {
		return nil, errors.New("document has no elements")
	}

	return root, nil
}

func hasTagChildren(n *tree.Node) bool {
	for _, child := range n.Elements {
		if child.IsTag() {
			return true
		}
	}
	return false
}

// syntaxErrorLine extracts the line of an XML syntax error, or 0.
func syntaxErrorLine(err error) int {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Line
	}
	return 0
}
