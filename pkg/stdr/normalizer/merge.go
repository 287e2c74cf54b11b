package normalizer

import (
	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"
)

// MergeNodes performs at most one structural merge. It searches root in
// pre-order for the first node holding a repeated, mergable tag among its
// direct children where no occurrence is a leaf. All occurrences are folded
// into the first one: their children are concatenated in declaration order
// and the merged priority is the highest of theirs.
//
// It returns false when nothing is left to merge. Callers loop until then.
func MergeNodes(root *tree.Node, specs *validator.Specs) bool {
	if root.IsValue() {
		return false
	}
	if tag, ok := duplicatedTag(root, specs); ok {
		mergeSiblings(root, tag)
		return true
	}
	for _, child := range root.Elements {
		if MergeNodes(child, specs) {
			return true
		}
	}
	return false
}

func duplicatedTag(n *tree.Node, specs *validator.Specs) (string, bool) {
	counts := make(map[string]int)
	leaf := make(map[string]bool)
	var order []string

	for _, child := range n.Elements {
		if child.IsValue() {
			continue
		}
		if counts[child.Tag] == 0 {
			order = append(order, child.Tag)
		}
		counts[child.Tag]++
		leaf[child.Tag] = leaf[child.Tag] || child.IsLeaf()
	}

	for _, tag := range order {
		if counts[tag] > 1 && !leaf[tag] && specs.IsMergable(tag) {
			return tag, true
		}
	}
	return "", false
}

func mergeSiblings(n *tree.Node, tag string) {
	var merged *tree.Node
	elements := make([]*tree.Node, 0, len(n.Elements))

	for _, child := range n.Elements {
		if child.Tag != tag {
			elements = append(elements, child)
			continue
		}
		if merged == nil {
			merged = child
			elements = append(elements, child)
			continue
		}
		merged.Append(child.Elements...)
		merged.Priority = max(merged.Priority, child.Priority)
		child.Elements = nil
	}

	n.Elements = elements
}

// MergeNodesValues reduces, under every node, each group of mergable leaf
// siblings sharing a tag to the one with the highest priority. On a tie the
// later declaration wins. It returns the number of leaves discarded.
func MergeNodesValues(root *tree.Node, specs *validator.Specs) int {
	if root.IsValue() {
		return 0
	}

	winners := make(map[string]*tree.Node)
	for _, child := range root.Elements {
		if !child.IsLeaf() || !specs.IsMergable(child.Tag) {
			continue
		}
		if w, ok := winners[child.Tag]; !ok || child.Priority >= w.Priority {
			winners[child.Tag] = child
		}
	}

	removed := 0
	elements := make([]*tree.Node, 0, len(root.Elements))
	for _, child := range root.Elements {
		if w, ok := winners[child.Tag]; ok && child.IsLeaf() && w != child {
			child.Release()
			removed++
			continue
		}
		elements = append(elements, child)
	}
	root.Elements = elements

	for _, child := range root.Elements {
		removed += MergeNodesValues(child, specs)
	}
	return removed
}

// FillDefaults adds, under every tag node, a leaf for each allowed child tag
// that is absent and whose schema entry has a default value. Added leaves
// take the parent's location and priority. It returns the number of leaves added.
func FillDefaults(root *tree.Node, specs *validator.Specs) int {
	added := 0
	root.Walk(func(n *tree.Node) bool {
		if n.IsValue() {
			return false
		}
		e, ok := specs.Lookup(n.Tag)
		if !ok {
			return true
		}
		for _, tag := range e.Allowed.Sorted() {
			def, ok := specs.Lookup(tag)
			if !ok || def.DefaultValue == "" || len(n.GetTag(tag)) > 0 {
				continue
			}
			leaf := tree.NewTag(tag, n.Location())
			leaf.Priority = n.Priority
			leaf.Append(tree.NewValue(def.DefaultValue, n.Location()))
			n.Append(leaf)
			added++
		}
		return true
	})
	return added
}
