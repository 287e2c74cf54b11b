package validator

import (
	"fmt"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/tree"
)

// Validator checks the allowed/required child relationships of a tree
// against a schema. Validation is fail-fast: the first violation is returned.
type Validator struct {
	specs *Specs
}

// NewValidator creates a validator bound to specs.
func NewValidator(specs *Specs) *Validator {
	if specs == nil {
		specs = NewSpecs()
	}
	return &Validator{specs: specs}
}

// Specs returns the schema the validator checks against.
func (v *Validator) Specs() *Specs {
	return v.specs
}

// AllowedCheck verifies that every direct child tag of n is allowed by the
// schema entry of n.Tag. Value nodes pass.
func (v *Validator) AllowedCheck(origin string, n *tree.Node) error {
	if n.IsValue() {
		return nil
	}

	e, known := v.specs.Lookup(n.Tag)
	for _, child := range n.Elements {
		if child.IsValue() || e.Allowed.Has(child.Tag) {
			continue
		}

		msg := fmt.Sprintf("tag %q is not allowed in <%s>", child.Tag, n.Tag)
		if !known {
			msg = fmt.Sprintf("tag %q is not allowed in <%s>, which has no specification", child.Tag, n.Tag)
		}
		err := stdrErrors.NewSchemaViolation(child.Tag, locate(origin, child), msg)
		err.Suggestion = stdrErrors.SuggestTag(child.Tag, e.Allowed.Sorted())
		return stdrErrors.AddContextToError(err)
	}
	return nil
}

// RequiredCheck verifies that every tag required by the schema entry of n.Tag
// appears among the direct children of n. Value nodes pass.
func (v *Validator) RequiredCheck(origin string, n *tree.Node) error {
	if n.IsValue() {
		return nil
	}

	e, _ := v.specs.Lookup(n.Tag)
	if len(e.Required) == 0 {
		return nil
	}

	present := make(TagSet, len(n.Elements))
	for _, child := range n.Elements {
		if child.IsTag() {
			present.Add(child.Tag)
		}
	}

	for _, tag := range e.Required.Sorted() {
		if present.Has(tag) {
			continue
		}
		err := stdrErrors.NewSchemaViolation(tag, locate(origin, n),
			fmt.Sprintf("required tag %q missing from <%s>", tag, n.Tag))
		err.Suggestion = stdrErrors.SuggestMissingTag(tag, n.Tag)
		return stdrErrors.AddContextToError(err)
	}
	return nil
}

// Validate applies both checks to n and then to every tag descendant, in
// pre-order. It stops at the first violation.
func (v *Validator) Validate(origin string, n *tree.Node) error {
	if n.IsValue() {
		return nil
	}
	if err := v.AllowedCheck(origin, n); err != nil {
		return err
	}
	if err := v.RequiredCheck(origin, n); err != nil {
		return err
	}
	for _, child := range n.Elements {
		if child.IsTag() {
			if err := v.Validate(origin, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateDocument validates a parsed document. The synthetic document root
// is checked only when the schema has an entry for tree.DocumentTag;
// otherwise each top-level element is validated on its own.
func (v *Validator) ValidateDocument(origin string, root *tree.Node) error {
	if root.Tag != tree.DocumentTag {
		return v.Validate(origin, root)
	}
	if _, ok := v.specs.Lookup(tree.DocumentTag); ok {
		return v.Validate(origin, root)
	}
	for _, child := range root.Elements {
		if err := v.Validate(origin, child); err != nil {
			return err
		}
	}
	return nil
}

// locate returns the node's location, falling back to origin when the node
// was built in memory.
func locate(origin string, n *tree.Node) tree.Location {
	loc := n.Location()
	if loc.File == "" {
		loc.File = origin
	}
	return loc
}
