package orgmodel

// Visitor is called for every node reached by Walk with the node's JSON
// Pointer relative to the walk root. Returning false skips the node's
// descendants.
type Visitor func(path string, n *Node) bool

// Walk visits n and its descendants depth-first in document order:
// node-valued properties (title, tag) first, then slots, then contents.
func Walk(n *Node, fn Visitor) {
	if n == nil {
		return
	}
	walk(Root(), n, fn)
}

func walk(at PathRef, n *Node, fn Visitor) {
	if !fn(at.Pointer(), n) {
		return
	}
	shape := MustShape(n.kind)
	for _, spec := range shape.Props {
		if spec.Type != PropObjects {
			continue
		}
		cs, _ := n.props.fields[spec.Name].([]Child)
		walkChildren(at.Field("properties").Field(spec.Name), cs, fn)
	}
	for _, sl := range shape.Slots {
		if s := n.slots[sl.Name]; s != nil {
			walk(at.Field(sl.Name), s, fn)
		}
	}
	walkChildren(at.Field(FieldContents), n.contents, fn)
}

func walkChildren(at PathRef, cs []Child, fn Visitor) {
	for i, c := range cs {
		if child, ok := c.(*Node); ok && child != nil {
			walk(at.Index(i), child, fn)
		}
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(string, *Node) bool { total++; return true })
	return total
}
