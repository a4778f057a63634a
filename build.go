package orgmodel

import "sync"

// Builder assembles validated nodes and documents for one assembly pass.
// It allocates refs, rejects a ref that was already handed out or accepted
// in the same pass, and rejects attaching a node to a second parent.
// A Builder is safe for concurrent use.
type Builder struct {
	refs   RefAllocator
	track  bool
	strict bool

	mu    sync.Mutex
	seen  map[string]struct{}
	owned map[*Node]struct{}
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRefs replaces the ref allocator (default: CounterRefs("n") local to the
// builder).
func WithRefs(a RefAllocator) BuilderOption {
	return func(b *Builder) {
		if a != nil {
			b.refs = a
		}
	}
}

// WithStrictProperties makes MakeDocument reject metadata that fails
// DocumentProperties.ValidateFormats.
func WithStrictProperties() BuilderOption {
	return func(b *Builder) { b.strict = true }
}

// NewBuilder returns a Builder for one assembly pass.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		refs:  CounterRefs("n"),
		track: true,
		seen:  map[string]struct{}{},
		owned: map[*Node]struct{}{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// std backs the package-level constructors. It draws refs from a process-wide
// counter, so they never collide, and leaves ownership checks to
// MakeDocument.
var std = &Builder{refs: defaultRefs}

// MakeNode builds a node of kind from fields and children using a
// process-wide ref counter. See Builder.MakeNode.
func MakeNode(kind Kind, fields Fields, children []Child) (*Node, error) {
	return std.MakeNode(kind, fields, children)
}

// MakeNode resolves the shape of kind, builds its properties, checks every
// child, node-valued property and slot against the governing content class
// and assigns a fresh ref. Single-node fields (clock "timestamp", planning
// "deadline", ...) are passed in fields as *Node values. On failure every
// violation is reported as Issues and no node is returned.
func (b *Builder) MakeNode(kind Kind, fields Fields, children []Child) (*Node, error) {
	return b.make("", kind, fields, children, nil)
}

// MakeNodeWithRef is MakeNode with a caller-chosen ref, used when an
// identity must be preserved (decoding, schema upgrades). An empty ref is
// allocated. A ref already seen by this builder fails with duplicate_ref.
func (b *Builder) MakeNodeWithRef(ref string, kind Kind, fields Fields, children []Child) (*Node, error) {
	return b.make(ref, kind, fields, children, nil)
}

// Rebuild returns a new node of the same kind with fields overlaid onto the
// properties of n and the given children. The new node gets a fresh ref and
// takes over n's children, so they can be relinked under the replacement;
// the caller is expected to rebuild n's parent the same way. A failed
// Rebuild leaves every ownership claim as it was.
func (b *Builder) Rebuild(n *Node, fields Fields, children []Child) (*Node, error) {
	base := n.props.Fields()
	for name, s := range n.slots {
		base[name] = s
	}
	return b.make("", n.kind, MergeFields(base, fields), children, n)
}

func (b *Builder) make(ref string, kind Kind, fields Fields, children []Child, replaced *Node) (*Node, error) {
	shape, ok := LookupShape(kind)
	if !ok {
		return nil, singleIssue(CodeUnknownKind, Issue{Kind: kind})
	}
	root := Root()
	var iss Issues

	// split single-node slots off the property fields
	slots := map[string]*Node{}
	propFields := make(Fields, len(fields))
	for name, v := range fields {
		if _, isSlot := shape.Slot(name); !isSlot {
			propFields[name] = v
			continue
		}
		switch x := v.(type) {
		case nil:
		case *Node:
			if x != nil {
				slots[name] = x
			}
		default:
			iss = append(iss, root.Field(name).Issue(CodeInvalidType, Issue{Kind: kind, Field: name, Hint: "expected *Node"}))
		}
	}

	props, more := buildProperties(root.Field("properties"), shape, propFields)
	iss = append(iss, more...)

	var attached []*Node
	attach := func(c Child) {
		if n, ok := c.(*Node); ok && n != nil {
			attached = append(attached, n)
		}
	}

	for _, sl := range shape.Slots {
		s, ok := slots[sl.Name]
		at := root.Field(sl.Name)
		if !ok {
			if sl.Required {
				iss = append(iss, at.Issue(CodeRequired, Issue{Kind: kind, Field: sl.Name}))
			}
			continue
		}
		if it, ok := checkChild(at, kind, sl.Name, sl.Class, s); !ok {
			iss = append(iss, it)
			continue
		}
		attach(s)
	}

	for _, spec := range shape.Props {
		if spec.Type != PropObjects {
			continue
		}
		cs, _ := props.fields[spec.Name].([]Child)
		at := root.Field("properties").Field(spec.Name)
		for i, c := range cs {
			if it, ok := checkChild(at.Index(i), kind, spec.Name, spec.Class, c); !ok {
				iss = append(iss, it)
				continue
			}
			attach(c)
		}
	}

	contentsAt := root.Field(FieldContents)
	if !shape.HasContents() && len(children) > 0 {
		it := Issue{Kind: kind, Field: FieldContents, Class: ClassNone, Hint: "kind has no contents"}
		if n, ok := children[0].(*Node); ok && n != nil {
			it.Child = n.kind
		}
		iss = append(iss, contentsAt.Issue(CodeContentClass, it))
	} else {
		for i, c := range children {
			if it, ok := checkChild(contentsAt.Index(i), kind, FieldContents, shape.Contents, c); !ok {
				iss = append(iss, it)
				continue
			}
			attach(c)
		}
	}

	local := make(map[*Node]struct{}, len(attached))
	for _, n := range attached {
		if _, dup := local[n]; dup {
			iss = append(iss, root.Issue(CodeDuplicateRef, Issue{Kind: kind, Child: n.kind, Ref: n.ref, Hint: "node attached twice"}))
			continue
		}
		local[n] = struct{}{}
	}

	if len(iss) > 0 {
		return nil, iss
	}

	ref, err := b.commit(ref, kind, attached, replaced)
	if err != nil {
		return nil, err
	}

	var contents []Child
	if len(children) > 0 {
		contents = append([]Child(nil), children...)
	}
	if len(slots) == 0 {
		slots = nil
	}
	return &Node{kind: kind, ref: ref, props: props, contents: contents, slots: slots}, nil
}

// commit reserves ref (allocating one when empty) and claims ownership of
// the attached children, all or nothing. Children of replaced count as free
// and lose their claim once the commit succeeds.
func (b *Builder) commit(ref string, kind Kind, attached []*Node, replaced *Node) (string, error) {
	if !b.track {
		if ref == "" {
			ref = b.refs.NextRef()
		}
		return ref, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	freed := map[*Node]struct{}{}
	for _, c := range directChildren(replaced) {
		freed[c] = struct{}{}
	}
	var iss Issues
	for _, n := range attached {
		if _, taken := b.owned[n]; !taken {
			continue
		}
		if _, ok := freed[n]; ok {
			continue
		}
		iss = append(iss, Root().Issue(CodeDuplicateRef, Issue{Kind: kind, Child: n.kind, Ref: n.ref, Hint: "node already has a parent"}))
	}
	if ref != "" {
		if _, dup := b.seen[ref]; dup {
			iss = append(iss, Root().Issue(CodeDuplicateRef, Issue{Kind: kind, Ref: ref}))
		}
	}
	if len(iss) > 0 {
		return "", iss
	}
	if ref == "" {
		for {
			ref = b.refs.NextRef()
			if _, dup := b.seen[ref]; !dup {
				break
			}
		}
	}
	b.seen[ref] = struct{}{}
	for n := range freed {
		delete(b.owned, n)
	}
	for _, n := range attached {
		b.owned[n] = struct{}{}
	}
	return ref, nil
}

// directChildren lists the nodes n links to: contents, slots and
// node-valued properties.
func directChildren(n *Node) []*Node {
	if n == nil {
		return nil
	}
	out := Nodes(n.contents)
	for _, s := range n.slots {
		out = append(out, s)
	}
	for _, v := range n.props.fields {
		if cs, ok := v.([]Child); ok {
			out = append(out, Nodes(cs)...)
		}
	}
	return out
}

// claimRoots marks top-level document nodes as owned by the document.
func (b *Builder) claimRoots(nodes []*Node) error {
	if !b.track {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var iss Issues
	for i, n := range nodes {
		if _, taken := b.owned[n]; taken {
			iss = append(iss, Root().Field(FieldContents).Index(i).Issue(CodeDuplicateRef, Issue{Child: n.kind, Ref: n.ref, Hint: "node already has a parent"}))
		}
	}
	if len(iss) > 0 {
		return iss
	}
	for _, n := range nodes {
		b.owned[n] = struct{}{}
	}
	return nil
}
