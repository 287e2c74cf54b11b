package stdr

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"

	"gopkg.in/yaml.v3"
)

// Materializer maps a normalized tree to a typed record.
type Materializer[T any] interface {
	Materialize(root *tree.Node) (T, error)
}

// MaterializerFunc adapts a function to Materializer.
type MaterializerFunc[T any] func(root *tree.Node) (T, error)

// Materialize implements Materializer.
func (f MaterializerFunc[T]) Materialize(root *tree.Node) (T, error) {
	return f(root)
}

// CreateMessage compiles the document at path and materializes it as T.
// The tree is released once m returns.
func CreateMessage[T any](c *Compiler, path string, m Materializer[T]) (T, error) {
	var zero T
	root, err := c.Parse(path)
	if err != nil {
		return zero, err
	}
	defer root.Release()

	record, err := m.Materialize(root)
	if err != nil {
		return zero, fmt.Errorf("materialize %s: %w", path, err)
	}
	return record, nil
}

// YAMLMaterializer decodes a tree into T through yaml struct tags.
//
// Leaves become scalars and structural tags become mappings. A tag repeated
// under one parent, or listed as non-mergable in Specs, becomes a sequence
// so that it can be decoded into a slice field.
type YAMLMaterializer[T any] struct {
	// Specs supplies the non-mergable tags. Nil means none.
	Specs *validator.Specs

	// Element selects a top-level element to decode. Empty decodes the
	// mapping of all top-level elements.
	Element string
}

// Materialize implements Materializer.
func (m YAMLMaterializer[T]) Materialize(root *tree.Node) (T, error) {
	var record T

	var lists validator.TagSet
	if m.Specs != nil {
		lists = m.Specs.NonMergable
	}

	src := root
	if m.Element != "" {
		idx := root.GetTag(m.Element)
		if len(idx) == 0 {
			return record, fmt.Errorf("no <%s> element", m.Element)
		}
		src = root.Elements[idx[0]]
	}

	if err := ToYAML(src, lists).Decode(&record); err != nil {
		return record, err
	}
	return record, nil
}

// ToYAML converts the subtree at n into a YAML node. Tags in lists always
// become sequences.
func ToYAML(n *tree.Node, lists validator.TagSet) *yaml.Node {
	if n.IsValue() {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strings.TrimSpace(n.Value), Line: n.FileRow}
	}
	if n.IsLeaf() {
		if len(n.Elements) == 1 {
			return ToYAML(n.Elements[0], lists)
		}
		// Several values come from a YAML sequence of scalars.
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Line: n.FileRow}
		for _, v := range n.Elements {
			seq.Content = append(seq.Content, ToYAML(v, lists))
		}
		return seq
	}

	var order []string
	groups := make(map[string][]*tree.Node)
	for _, child := range n.Elements {
		if child.IsValue() {
			continue
		}
		if _, seen := groups[child.Tag]; !seen {
			order = append(order, child.Tag)
		}
		groups[child.Tag] = append(groups[child.Tag], child)
	}
	if len(order) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: n.FileRow}
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode, Line: n.FileRow}
	for _, tag := range order {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag}
		items := groups[tag]
		if len(items) == 1 && !lists.Has(tag) {
			mapping.Content = append(mapping.Content, key, ToYAML(items[0], lists))
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Line: items[0].FileRow}
		for _, item := range items {
			seq.Content = append(seq.Content, ToYAML(item, lists))
		}
		mapping.Content = append(mapping.Content, key, seq)
	}
	return mapping
}

// Serializer writes a record in the format named by ext (".xml", ".yaml").
type Serializer interface {
	Serialize(w io.Writer, record any, ext string) error
}

// FileSerializer writes YAML with yaml.v3 and XML with encoding/xml.
type FileSerializer struct{}

// Serialize implements Serializer.
func (FileSerializer) Serialize(w io.Writer, record any, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(record); err != nil {
			return err
		}
		return enc.Close()

	case ".xml":
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(record); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err

	default:
		return fmt.Errorf("unsupported extension %q", ext)
	}
}

// SaveMessage writes record to path with s, choosing the format by the
// extension of path. The file is replaced only if serialization succeeds.
func SaveMessage(record any, path string, s Serializer) (err error) {
	if s == nil {
		s = FileSerializer{}
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = s.Serialize(tmp, record, filepath.Ext(path)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
