// Package tree provides the generic document tree shared by every stage of the
// STDR description compiler.
//
// A parsed document is a tree of *Node values. Each node is either a tag node
// (a structural element named by Tag) or a value node (leaf text held in
// Value). Children are owned exclusively by their parent and keep the
// declaration order of the source document.
//
// # Basic Usage
//
//	root := tree.NewTag(tree.DocumentTag, Location{File: "robot.xml", Line: 1})
//	laser := tree.NewTag("laser", Location{File: "robot.xml", Line: 2})
//	root.Append(laser)
//
//	for line := range root.Render("") {
//	    fmt.Println(line)
//	}
//
// # Inclusion References
//
// A tag node whose only child is a "filename" tag is a pointer to another
// document:
//
//	<laser>
//	  <filename>sensors/laser.xml</filename>
//	</laser>
//
// CheckForFilename recognizes the pattern; resolving it is the normalizer's job.
//
// # Priority
//
// Priority ranks nodes contributed at different inclusion depths. Every node
// starts at 0 and IncreasePriority bumps a whole subtree when it is spliced in
// from an included document, so deeper (more specific) definitions win ties.
package tree
