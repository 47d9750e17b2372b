package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByType finds the first child node with one of the given types.
func findChildByType(node *sitter.Node, nodeTypes ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, t := range nodeTypes {
			if child.Kind() == t {
				return child
			}
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with one of the given types.
func findChildrenByType(node *sitter.Node, nodeTypes ...string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, t := range nodeTypes {
			if child.Kind() == t {
				results = append(results, child)
				break
			}
		}
	}
	return results
}

// namedChildren returns all named children of a node.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// eachChild calls the visitor for every child (named and anonymous) in order.
func eachChild(node *sitter.Node, visit func(child *sitter.Node)) {
	if node == nil {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		visit(node.Child(i))
	}
}

// firstDescendantByType does a depth-first search for the first node of one of
// the given types, the starting node included.
func firstDescendantByType(node *sitter.Node, nodeTypes ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for _, t := range nodeTypes {
		if node.Kind() == t {
			return node
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstDescendantByType(node.Child(i), nodeTypes...); found != nil {
			return found
		}
	}
	return nil
}
