package validator

import (
	"fmt"
	"strings"
	"unicode"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/tree"
)

// Schema document vocabulary.
const (
	SpecificationsTag = "specifications"
	AllowedTag        = "allowed"
	RequiredTag       = "required"
	DefaultTag        = "default"

	NonMergableTag = "non_mergable_tags"
	ExemptTag      = "tag"
)

// ParseSpecifications reads the schema entries of a parsed schema document:
//
//	<specifications>
//	  <laser_specifications>
//	    <allowed>max_angle, min_angle, max_range, min_range, num_rays, frequency, frame_id, noise</allowed>
//	    <required>max_angle, min_angle, max_range, min_range, num_rays, frequency, frame_id</required>
//	  </laser_specifications>
//	  <frequency>
//	    <default>10</default>
//	  </frequency>
//	</specifications>
//
// Repeated allowed or required leaves accumulate.
func ParseSpecifications(doc *tree.Node) (map[string]ElSpecs, error) {
	section, err := findSection(doc, SpecificationsTag)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]ElSpecs)
	for _, entry := range section.Elements {
		if entry.IsValue() {
			continue
		}

		e, ok := specs[entry.Tag]
		if !ok {
			e = ElSpecs{Allowed: make(TagSet), Required: make(TagSet)}
		}

		for _, field := range entry.Elements {
			switch field.Tag {
			case AllowedTag:
				e.Allowed.Add(valueTags(field)...)
			case RequiredTag:
				e.Required.Add(valueTags(field)...)
			case DefaultTag:
				e.DefaultValue = strings.TrimSpace(field.Text())
			}
		}

		specs[entry.Tag] = e
	}

	return specs, nil
}

// ParseMergableSpecifications reads the tags exempt from duplicate merging:
//
//	<non_mergable_tags>robot, laser, sonar, point</non_mergable_tags>
//
// or, one per element:
//
//	<non_mergable_tags>
//	  <tag>robot</tag>
//	  <tag>point</tag>
//	</non_mergable_tags>
func ParseMergableSpecifications(doc *tree.Node) (TagSet, error) {
	section, err := findSection(doc, NonMergableTag)
	if err != nil {
		return nil, err
	}

	tags := make(TagSet)
	for _, child := range section.Elements {
		switch {
		case child.IsValue():
			tags.Add(splitTags(child.Value)...)
		case child.Tag == ExemptTag:
			tags.Add(valueTags(child)...)
		}
	}
	return tags, nil
}

// LoadSpecs parses the schema document and, if exemptionPath is not empty, the
// merge-exemption document.
func LoadSpecs(p *parser.Parser, schemaPath, exemptionPath string) (*Specs, error) {
	specs := NewSpecs()

	doc, err := p.Parse(schemaPath)
	if err != nil {
		return nil, err
	}
	elements, err := ParseSpecifications(doc)
	if err != nil {
		return nil, err
	}
	specs.Extend(elements)

	if exemptionPath == "" {
		return specs, nil
	}

	doc, err = p.Parse(exemptionPath)
	if err != nil {
		return nil, err
	}
	nonMergable, err := ParseMergableSpecifications(doc)
	if err != nil {
		return nil, err
	}
	specs.NonMergable = nonMergable

	return specs, nil
}

// findSection returns the element named tag: either doc itself or one of the
// top-level elements under a document root.
func findSection(doc *tree.Node, tag string) (*tree.Node, error) {
	if doc.Tag == tag {
		return doc, nil
	}
	if doc.Tag == tree.DocumentTag {
		if idx := doc.GetTag(tag); len(idx) > 0 {
			return doc.Elements[idx[0]], nil
		}
	}
	return nil, stdrErrors.NewLoadError(doc.FileOrigin, doc.FileRow,
		fmt.Errorf("no <%s> element in document", tag))
}

// valueTags splits every value child of n on its own, so a YAML sequence
// contributes one tag per item.
func valueTags(n *tree.Node) []string {
	var tags []string
	for _, child := range n.Elements {
		if child.IsValue() {
			tags = append(tags, splitTags(child.Value)...)
		}
	}
	return tags
}

func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Load parses the schema and exemption documents and installs the result.
// The current schema is kept when loading fails.
func (r *Registry) Load(p *parser.Parser, schemaPath, exemptionPath string) error {
	specs, err := LoadSpecs(p, schemaPath, exemptionPath)
	if err != nil {
		return err
	}
	r.Set(specs)
	return nil
}
