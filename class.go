package orgmodel

// Class names a set of admissible child kinds for one structural position.
// Classes are tested by concrete membership; two classes that share a
// common core (table-cell and link-description both extend minimal) are
// otherwise unrelated.
type Class string

const (
	ClassNone Class = "" // the position does not exist for the kind

	ClassMinimal            Class = "minimal"
	ClassTableCell          Class = "table-cell"
	ClassLinkDescription    Class = "link-description"
	ClassTextMarkup         Class = "text-markup"
	ClassSection            Class = "section"
	ClassParagraph          Class = "paragraph"
	ClassHeadlineTitle      Class = "headline-title"
	ClassFootnoteDefinition Class = "footnote-definition"

	// Structural classes for containers owning exactly one child kind.
	ClassTableRows      Class = "table-rows"
	ClassTableCells     Class = "table-cells"
	ClassListItems      Class = "list-items"
	ClassPropertyDrawer Class = "property-drawer"
	ClassTimestamp      Class = "timestamp"
)

type classSpec struct {
	members map[Kind]struct{}
	text    bool
	// forbid a direct child of the enclosing node's own kind
	noSelf bool
}

func kindSet(groups ...[]Kind) map[Kind]struct{} {
	m := map[Kind]struct{}{}
	for _, g := range groups {
		for _, k := range g {
			m[k] = struct{}{}
		}
	}
	return m
}

var minimalKinds = []Kind{
	KindBold, KindItalic, KindUnderline, KindStrikethrough,
	KindCode, KindVerbatim, KindEntity, KindLatexFragment,
	KindSubscript, KindSuperscript,
}

var classes = map[Class]classSpec{
	ClassMinimal: {members: kindSet(minimalKinds), text: true},
	ClassTableCell: {members: kindSet(minimalKinds, []Kind{
		KindCitationReference, KindExportSnippet, KindFootnoteReference,
		KindLink, KindMacro, KindRadioTarget, KindTarget, KindTimestamp,
	}), text: true},
	ClassLinkDescription: {members: kindSet(minimalKinds, []Kind{
		KindCitationReference, KindExportSnippet, KindFootnoteReference,
		KindMacro, KindTimestamp,
	}), text: true},
	ClassTextMarkup:         {members: kindSet(objectKinds), text: true, noSelf: true},
	ClassSection:            {members: kindSet(elementKinds), text: true},
	ClassParagraph:          {members: kindSet(objectKinds), text: true},
	ClassHeadlineTitle:      {members: kindSet(objectKinds), text: true},
	ClassFootnoteDefinition: {members: kindSet(elementKinds), text: true},

	ClassTableRows:      {members: kindSet([]Kind{KindTableRow})},
	ClassTableCells:     {members: kindSet([]Kind{KindTableCell})},
	ClassListItems:      {members: kindSet([]Kind{KindItem})},
	ClassPropertyDrawer: {members: kindSet([]Kind{KindNodeProperty}), text: true},
	ClassTimestamp:      {members: kindSet([]Kind{KindTimestamp})},
}

// Classes lists every content class.
func Classes() []Class {
	return []Class{
		ClassMinimal, ClassTableCell, ClassLinkDescription, ClassTextMarkup,
		ClassSection, ClassParagraph, ClassHeadlineTitle, ClassFootnoteDefinition,
		ClassTableRows, ClassTableCells, ClassListItems, ClassPropertyDrawer, ClassTimestamp,
	}
}

// Members returns the kinds admitted by c in catalog order.
func (c Class) Members() []Kind {
	spec, ok := classes[c]
	if !ok {
		return nil
	}
	var out []Kind
	for _, k := range Kinds() {
		if _, in := spec.members[k]; in {
			out = append(out, k)
		}
	}
	return out
}

// AdmitsText reports whether raw text spans may appear in c.
func (c Class) AdmitsText() bool { return classes[c].text }

// AdmitsKind reports whether a node of kind k is a member of c.
func (c Class) AdmitsKind(k Kind) bool {
	_, ok := classes[c].members[k]
	return ok
}

// ForbidsSelfNesting reports whether c rejects a direct child of the
// enclosing node's own kind.
func (c Class) ForbidsSelfNesting() bool { return classes[c].noSelf }

// Admits reports class membership of a candidate child: text is tested
// against AdmitsText, nodes against AdmitsKind. Self-nesting depends on the
// enclosing node and is checked by the construction API, not here.
func Admits(c Class, child Child) bool {
	switch v := child.(type) {
	case Text:
		return c.AdmitsText()
	case *Node:
		if v == nil {
			return false
		}
		return c.AdmitsKind(v.kind)
	default:
		return false
	}
}

// ClassFor resolves the content class governing field of parent. field is
// "contents", a node-valued property name ("title", "tag") or a slot name
// ("timestamp", "deadline", ...). ClassNone means parent has no such field.
func ClassFor(parent Kind, field string) Class {
	s, ok := catalog[parent]
	if !ok {
		return ClassNone
	}
	return s.classFor(field)
}

// checkChild tests one child of parent at p and reports the violation, if
// any. Text and node candidates both go through membership first; only
// admitted nodes are tested for self-nesting.
func checkChild(p PathRef, parent Kind, field string, c Class, child Child) (Issue, bool) {
	switch v := child.(type) {
	case Text:
		if !c.AdmitsText() {
			return p.Issue(CodeContentClass, Issue{Kind: parent, Field: field, Class: c, Hint: "raw text not allowed"}), false
		}
		return Issue{}, true
	case *Node:
		if v == nil {
			return p.Issue(CodeInvalidType, Issue{Kind: parent, Field: field, Class: c, Hint: "nil node"}), false
		}
		if !c.AdmitsKind(v.kind) {
			return p.Issue(CodeContentClass, Issue{Kind: parent, Field: field, Child: v.kind, Class: c}), false
		}
		if c.ForbidsSelfNesting() && v.kind == parent {
			return p.Issue(CodeSelfNesting, Issue{Kind: parent, Field: field, Child: v.kind, Class: c}), false
		}
		return Issue{}, true
	default:
		return p.Issue(CodeInvalidType, Issue{Kind: parent, Field: field, Class: c, Hint: "child must be Text or *Node"}), false
	}
}
