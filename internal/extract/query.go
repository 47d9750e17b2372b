package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Capture is one named binding from a query match to a syntax-tree node.
type Capture struct {
	Name string
	Node *sitter.Node
}

// Match is one query match with its capture bindings in executor order. A
// capture name may repeat within one match (e.g. several modifier captures).
type Match struct {
	Captures []Capture
}

// First returns the first node bound to the given capture name, or nil.
func (m *Match) First(name string) *sitter.Node {
	for _, c := range m.Captures {
		if c.Name == name {
			return c.Node
		}
	}
	return nil
}

// All returns every node bound to the given capture name, in order.
func (m *Match) All(name string) []*sitter.Node {
	var nodes []*sitter.Node
	for _, c := range m.Captures {
		if c.Name == name {
			nodes = append(nodes, c.Node)
		}
	}
	return nodes
}

// ExecQuery runs a compiled query against a tree root and returns the matches
// in the order the query executor reports them. Ordering across separate
// queries is not a property of this engine.
func ExecQuery(query *sitter.Query, root *sitter.Node, source []byte) []*Match {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()

	var matches []*Match
	qm := cursor.Matches(query, root, source)
	for m := qm.Next(); m != nil; m = qm.Next() {
		match := &Match{Captures: make([]Capture, 0, len(m.Captures))}
		for _, c := range m.Captures {
			node := c.Node
			match.Captures = append(match.Captures, Capture{
				Name: names[c.Index],
				Node: &node,
			})
		}
		matches = append(matches, match)
	}
	return matches
}
