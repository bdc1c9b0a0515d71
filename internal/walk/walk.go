// Package walk provides generic depth-first traversal over tree-sitter
// nodes. It operates purely on node kind strings and source ranges and has
// no knowledge of any specific language.
package walk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// KindSet builds a membership set from kind names
func KindSet(kinds ...string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Walk visits node and its descendants depth-first in pre-order, which is
// source order. Returning false from visit prunes that node's subtree.
func Walk(node *sitter.Node, visit func(node *sitter.Node, depth int) bool) {
	walk(node, 0, visit)
}

func walk(node *sitter.Node, depth int, visit func(node *sitter.Node, depth int) bool) {
	if node == nil {
		return
	}

	if !visit(node, depth) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), depth+1, visit)
	}
}

// Collect returns every descendant of root (root included) whose kind is in
// the set, in source order.
func Collect(root *sitter.Node, kinds map[string]bool) []*sitter.Node {
	var found []*sitter.Node
	Walk(root, func(node *sitter.Node, _ int) bool {
		if kinds[node.Kind()] {
			found = append(found, node)
		}
		return true
	})
	return found
}

// First returns the first descendant (source order) whose kind is in the set
func First(root *sitter.Node, kinds map[string]bool) *sitter.Node {
	var found *sitter.Node
	Walk(root, func(node *sitter.Node, _ int) bool {
		if found != nil {
			return false
		}
		if kinds[node.Kind()] {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindChild returns the first direct child with the given kind
func FindChild(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}

	return nil
}

// FindChildren returns all direct children with the given kind
func FindChildren(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}

	var children []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			children = append(children, child)
		}
	}

	return children
}

// FieldOrChild resolves a named field, falling back to the first direct
// child whose kind is in the fallback list. Grammars disagree about whether
// identifiers are fields or bare children; this smooths that over.
func FieldOrChild(node *sitter.Node, field string, fallbackKinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	if field != "" {
		if child := node.ChildByFieldName(field); child != nil {
			return child
		}
	}
	for _, kind := range fallbackKinds {
		if child := FindChild(node, kind); child != nil {
			return child
		}
	}
	return nil
}

// PrecedingComments returns the maximal chain of comment-kind siblings
// immediately before node, in source order. A blank line between two
// comments, or between the last comment and the node, breaks the chain.
func PrecedingComments(node *sitter.Node, kinds map[string]bool) []*sitter.Node {
	if node == nil {
		return nil
	}

	var reversed []*sitter.Node
	nextRow := node.StartPosition().Row

	for sib := node.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if !kinds[sib.Kind()] {
			break
		}
		// More than one row between the comment's end and whatever follows
		// means a blank line separates them.
		if nextRow > sib.EndPosition().Row+1 {
			break
		}
		reversed = append(reversed, sib)
		nextRow = sib.StartPosition().Row
	}

	if len(reversed) == 0 {
		return nil
	}

	ordered := make([]*sitter.Node, len(reversed))
	for i, c := range reversed {
		ordered[len(reversed)-1-i] = c
	}
	return ordered
}

// LineRange returns the node's 1-indexed, inclusive line span
func LineRange(node *sitter.Node) (int, int) {
	if node == nil {
		return 0, 0
	}
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// Text returns the source text covered by node, bounds-checked
func Text(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()

	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}

	return string(content[start:end])
}

// Contains reports whether ancestor is on node's parent chain, or is the
// node itself.
func Contains(ancestor, node *sitter.Node) bool {
	if ancestor == nil || node == nil {
		return false
	}
	for n := node; n != nil; n = n.Parent() {
		if n.Id() == ancestor.Id() {
			return true
		}
	}
	return false
}

// NearestAncestor returns the closest ancestor (excluding node itself) whose
// kind is in the set.
func NearestAncestor(node *sitter.Node, kinds map[string]bool) *sitter.Node {
	if node == nil {
		return nil
	}
	for n := node.Parent(); n != nil; n = n.Parent() {
		if kinds[n.Kind()] {
			return n
		}
	}
	return nil
}
