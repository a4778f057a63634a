package orgmodel

import "fmt"

// PropType is the value type of a catalogued property.
type PropType int

const (
	PropString         PropType = iota // string
	PropNullableString                 // string or nil
	PropInt                            // int
	PropBool                           // bool
	PropStrings                        // []string
	PropObjects                        // []Child, governed by PropSpec.Class
	PropMark                           // *TimestampMark (repeater / warning)
)

func (t PropType) String() string {
	switch t {
	case PropString:
		return "string"
	case PropNullableString:
		return "string|null"
	case PropInt:
		return "int"
	case PropBool:
		return "bool"
	case PropStrings:
		return "[]string"
	case PropObjects:
		return "[]Child"
	case PropMark:
		return "mark"
	default:
		return fmt.Sprintf("PropType(%d)", int(t))
	}
}

// PropSpec describes one kind-specific property.
type PropSpec struct {
	Name     string
	Type     PropType
	Required bool
	Enum     []string // closed value set for PropString properties
	Class    Class    // governs PropObjects properties
}

// SlotSpec describes a named single-node field such as clock.timestamp.
type SlotSpec struct {
	Name     string
	Class    Class
	Required bool
}

// Shape is the structural descriptor of one kind: which fields exist and
// which content class governs each node-valued field.
type Shape struct {
	Kind     Kind
	Element  bool
	Contents Class // ClassNone when the kind has no contents sequence
	Props    []PropSpec
	Slots    []SlotSpec
}

// HasContents reports whether the kind owns a contents sequence.
func (s Shape) HasContents() bool { return s.Contents != ClassNone }

// Prop returns the spec of the named property.
func (s Shape) Prop(name string) (PropSpec, bool) {
	for _, p := range s.Props {
		if p.Name == name {
			return p, true
		}
	}
	return PropSpec{}, false
}

// Slot returns the spec of the named single-node field.
func (s Shape) Slot(name string) (SlotSpec, bool) {
	for _, sl := range s.Slots {
		if sl.Name == name {
			return sl, true
		}
	}
	return SlotSpec{}, false
}

// Required lists required property and slot names in declaration order.
func (s Shape) Required() []string {
	var out []string
	for _, p := range s.Props {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	for _, sl := range s.Slots {
		if sl.Required {
			out = append(out, sl.Name)
		}
	}
	return out
}

func (s Shape) classFor(field string) Class {
	if field == FieldContents {
		return s.Contents
	}
	if p, ok := s.Prop(field); ok && p.Type == PropObjects {
		return p.Class
	}
	if sl, ok := s.Slot(field); ok {
		return sl.Class
	}
	return ClassNone
}

// FieldContents is the field name of a node's children sequence.
const FieldContents = "contents"

// LookupShape returns the shape of k.
func LookupShape(k Kind) (Shape, bool) {
	s, ok := catalog[k]
	return s, ok
}

// MustShape returns the shape of k and panics when k is not catalogued: the
// catalog is closed, so an unknown tag is a version skew between producer and
// this package rather than bad input.
func MustShape(k Kind) Shape {
	s, ok := catalog[k]
	if !ok {
		panic(fmt.Sprintf("orgmodel: %s: %q", CodeUnknownKind, string(k)))
	}
	return s
}

func str(name string) PropSpec      { return PropSpec{Name: name, Type: PropString} }
func reqStr(name string) PropSpec   { return PropSpec{Name: name, Type: PropString, Required: true} }
func nullStr(name string) PropSpec  { return PropSpec{Name: name, Type: PropNullableString} }
func strs(name string) PropSpec     { return PropSpec{Name: name, Type: PropStrings} }
func flag(name string) PropSpec     { return PropSpec{Name: name, Type: PropBool} }
func markProp(name string) PropSpec { return PropSpec{Name: name, Type: PropMark} }
func valueProp() PropSpec           { return reqStr("value") }

func enum(name string, required bool, vals ...string) PropSpec {
	return PropSpec{Name: name, Type: PropString, Required: required, Enum: vals}
}

func objects(name string, required bool, c Class) PropSpec {
	return PropSpec{Name: name, Type: PropObjects, Required: required, Class: c}
}

var (
	elementShapes = []Shape{
		{Kind: KindSection, Contents: ClassSection},
		{Kind: KindHeadline, Contents: ClassSection, Props: []PropSpec{
			{Name: "level", Type: PropInt, Required: true},
			nullStr("todoKeyword"), nullStr("todoType"), nullStr("priority"),
			objects("title", true, ClassHeadlineTitle),
			strs("tags"), strs("tagsAll"),
			flag("archivedp"), flag("commentedp"), flag("footnoteSectionP"),
		}},
		{Kind: KindParagraph, Contents: ClassParagraph},
		{Kind: KindCenterBlock, Contents: ClassSection},
		{Kind: KindQuoteBlock, Contents: ClassSection},
		{Kind: KindSpecialBlock, Contents: ClassSection, Props: []PropSpec{str("blockName")}},
		{Kind: KindExampleBlock, Props: lesserBlockProps()},
		{Kind: KindExportBlock, Props: lesserBlockProps()},
		{Kind: KindSrcBlock, Props: lesserBlockProps()},
		{Kind: KindVerseBlock, Props: lesserBlockProps()},
		{Kind: KindDrawer, Contents: ClassSection, Props: []PropSpec{reqStr("drawerName")}},
		{Kind: KindPropertyDrawer, Contents: ClassPropertyDrawer},
		{Kind: KindNodeProperty, Props: []PropSpec{reqStr("key"), valueProp()}},
		{Kind: KindDynamicBlock, Contents: ClassSection, Props: []PropSpec{reqStr("blockName"), strs("parameters")}},
		{Kind: KindTable, Contents: ClassTableRows, Props: []PropSpec{strs("tblfm")}},
		{Kind: KindTableRow, Contents: ClassTableCells, Props: []PropSpec{enum("type", true, "standard", "rule")}},
		{Kind: KindHorizontalRule},
		{Kind: KindFootnoteDefinition, Contents: ClassFootnoteDefinition, Props: []PropSpec{reqStr("label")}},
		{Kind: KindInlineTask, Contents: ClassSection, Props: []PropSpec{
			nullStr("todoKeyword"), nullStr("todoType"), nullStr("priority"),
			objects("title", true, ClassHeadlineTitle),
			strs("tags"),
		}},
		{Kind: KindComment, Props: []PropSpec{valueProp()}},
		{Kind: KindFixedWidth, Props: []PropSpec{valueProp()}},
		{Kind: KindClock, Props: []PropSpec{str("duration")}, Slots: []SlotSpec{
			{Name: "timestamp", Class: ClassTimestamp, Required: true},
		}},
		{Kind: KindPlanning, Slots: []SlotSpec{
			{Name: "deadline", Class: ClassTimestamp},
			{Name: "scheduled", Class: ClassTimestamp},
			{Name: "closed", Class: ClassTimestamp},
		}},
		{Kind: KindPlainList, Contents: ClassListItems, Props: []PropSpec{
			enum("listType", true, "ordered", "unordered", "descriptive"),
		}},
		{Kind: KindItem, Contents: ClassSection, Props: []PropSpec{
			str("bullet"), str("counter"),
			enum("checkbox", false, "on", "off", "trans"),
			objects("tag", false, ClassHeadlineTitle),
		}},
		{Kind: KindKeyword, Props: []PropSpec{reqStr("key"), valueProp()}},
	}

	objectShapes = []Shape{
		{Kind: KindEntity, Props: []PropSpec{
			reqStr("name"), str("html"), str("latex"), str("ascii"), str("unicode"),
		}},
		{Kind: KindLatexFragment, Props: []PropSpec{valueProp()}},
		{Kind: KindExportSnippet, Props: []PropSpec{reqStr("backend"), valueProp()}},
		// contents holds an inline definition ([fn::...]); anonymous
		// references carry no label.
		{Kind: KindFootnoteReference, Contents: ClassParagraph, Props: []PropSpec{str("label")}},
		{Kind: KindCitationReference, Props: []PropSpec{reqStr("key"), str("prefix"), str("suffix")}},
		{Kind: KindBabelCall, Props: []PropSpec{reqStr("name"), strs("arguments")}},
		{Kind: KindInlineBabelCall, Props: []PropSpec{reqStr("name"), strs("arguments")}},
		{Kind: KindRadioTarget, Props: []PropSpec{valueProp()}},
		{Kind: KindTarget, Props: []PropSpec{valueProp()}},
		{Kind: KindLink, Contents: ClassLinkDescription, Props: []PropSpec{
			reqStr("path"), str("format"), reqStr("rawLink"), reqStr("type"),
		}},
		{Kind: KindTimestamp, Props: []PropSpec{
			enum("timestampType", true, "active", "inactive", "diary", "range"),
			reqStr("start"), reqStr("end"), reqStr("rawValue"),
			markProp("repeater"), markProp("warning"),
		}},
		{Kind: KindMacro, Props: []PropSpec{reqStr("key"), strs("arguments")}},
		{Kind: KindSubscript, Contents: ClassTextMarkup},
		{Kind: KindSuperscript, Contents: ClassTextMarkup},
		{Kind: KindBold, Contents: ClassTextMarkup},
		{Kind: KindItalic, Contents: ClassTextMarkup},
		{Kind: KindUnderline, Contents: ClassTextMarkup},
		{Kind: KindStrikethrough, Contents: ClassTextMarkup},
		{Kind: KindCode, Props: []PropSpec{valueProp()}},
		{Kind: KindVerbatim, Props: []PropSpec{valueProp()}},
		{Kind: KindLineBreak},
		{Kind: KindStatisticsCookie, Props: []PropSpec{valueProp()}},
		{Kind: KindTableCell, Contents: ClassTableCell},
	}

	catalog = buildCatalog()
)

func lesserBlockProps() []PropSpec {
	return []PropSpec{str("language"), strs("parameters"), valueProp(), str("name")}
}

func buildCatalog() map[Kind]Shape {
	m := make(map[Kind]Shape, len(elementShapes)+len(objectShapes))
	for _, s := range elementShapes {
		s.Element = true
		m[s.Kind] = s
	}
	for _, s := range objectShapes {
		m[s.Kind] = s
	}
	return m
}
