// Package normalizer rewrites parsed description trees in place.
//
// Three passes run after parsing:
//
//   - EliminateFilenames replaces one inclusion reference, a tag whose only
//     child is <filename>path</filename>, with the content of the referenced
//     document.
//   - MergeNodes folds one group of repeated structural siblings into a
//     single node.
//   - MergeNodesValues keeps only the most specific of repeated leaf siblings.
//
// The first two make one change per call and are driven to a fixpoint:
//
//	n := normalizer.New(parser.NewParser(), normalizer.NewResolver("resources"))
//	if _, err := normalizer.Fixpoint(func() (bool, error) {
//	    return n.EliminateFilenames(root)
//	}); err != nil {
//	    return err
//	}
//	normalizer.Fixpoint(func() (bool, error) {
//	    return normalizer.MergeNodes(root, specs), nil
//	})
//	normalizer.MergeNodesValues(root, specs)
//
// Priorities order the contributions of nested documents: every node spliced
// in by an inclusion ends above the node that included it, and value merging
// keeps the highest.
package normalizer
