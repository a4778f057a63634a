package orgmodel

// Child is one entry of a contents sequence: a raw text span (Text) or a
// nested node (*Node). The set is closed.
type Child interface {
	isChild()
}

// Text is a raw text span inside a contents sequence.
type Text string

func (Text) isChild() {}

// Node is one element or object of a document tree. Nodes are only created
// through MakeNode (or a Builder) and are never mutated afterwards; every
// accessor returns a copy, so a tree may be read concurrently.
type Node struct {
	kind     Kind
	ref      string
	props    Properties
	contents []Child
	slots    map[string]*Node
}

func (*Node) isChild() {}

// Kind returns the node's kind tag.
func (n *Node) Kind() Kind { return n.kind }

// Ref returns the node's reference identifier.
func (n *Node) Ref() string { return n.ref }

// Properties returns a copy of the node's attribute bag.
func (n *Node) Properties() Properties { return n.props.clone() }

// Children returns the contents sequence, empty when the kind has none.
func (n *Node) Children() []Child {
	if len(n.contents) == 0 {
		return []Child{}
	}
	return append([]Child(nil), n.contents...)
}

// Slot returns a single-node field such as clock.timestamp or
// planning.deadline, nil when unset.
func (n *Node) Slot(name string) *Node { return n.slots[name] }

// Value returns the scalar "value" field carried by verbatim kinds (code,
// verbatim, comment, fixed-width, blocks, ...).
func (n *Node) Value() (string, bool) {
	v, ok := n.props.fields["value"].(string)
	return v, ok
}

// Shape returns the catalog descriptor of the node's kind.
func (n *Node) Shape() Shape { return MustShape(n.kind) }

// KindOf returns the kind of n.
func KindOf(n *Node) Kind { return n.Kind() }

// PropertiesOf returns a copy of the properties of n.
func PropertiesOf(n *Node) Properties { return n.Properties() }

// ChildrenOf returns the contents sequence of n (empty if the kind has no
// contents field).
func ChildrenOf(n *Node) []Child { return n.Children() }

// Nodes filters the node children out of a contents sequence.
func Nodes(cs []Child) []*Node {
	var out []*Node
	for _, c := range cs {
		if n, ok := c.(*Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// PlainText concatenates the raw text of a contents sequence, descending into
// nested nodes and their scalar values.
func PlainText(cs []Child) string {
	var b []byte
	var walk func([]Child)
	walk = func(cs []Child) {
		for _, c := range cs {
			switch v := c.(type) {
			case Text:
				b = append(b, v...)
			case *Node:
				if s, ok := v.Value(); ok && !v.Shape().HasContents() {
					b = append(b, s...)
					continue
				}
				walk(v.contents)
			}
		}
	}
	walk(cs)
	return string(b)
}
