// Package legacy models the first generation of the Org document tree, in
// which each kind carried its semantic fields as fixed top-level fields,
// properties held only positional bookkeeping (plus a headline's title and
// keyword data), timestamps exposed numeric date parts, and document dates
// were plain strings.
//
// Legacy trees are plain values: nothing here validates content classes.
// Use package upgrade to turn a legacy Document into a validated
// orgmodel.Document.
package legacy

// Element kinds of the legacy schema.
var ElementKinds = []string{
	"section", "headline", "paragraph",
	"center-block", "quote-block", "special-block",
	"example-block", "export-block", "src-block", "verse-block",
	"drawer", "property-drawer", "node-property", "dynamic-block",
	"table", "table-row", "horizontal-rule", "footnote-definition",
	"inline-task", "comment", "fixed-width", "clock", "planning",
	"plain-list", "item",
}

// Object kinds of the legacy schema.
var ObjectKinds = []string{
	"entity", "latex-fragment", "export-snippet", "footnote-reference",
	"citation-reference", "babel-call", "inline-babel-call",
	"radio-target", "target", "link", "timestamp", "macro",
	"subscript", "superscript",
	"bold", "italic", "underline", "strikethrough", "code", "verbatim",
	"line-break", "statistics-cookie", "table-cell",
}

// Kinds returns every legacy kind, elements first.
func Kinds() []string {
	out := make([]string, 0, len(ElementKinds)+len(ObjectKinds))
	out = append(out, ElementKinds...)
	return append(out, ObjectKinds...)
}

// IsKind reports whether t is a legacy kind tag.
func IsKind(t string) bool {
	for _, k := range ElementKinds {
		if k == t {
			return true
		}
	}
	for _, k := range ObjectKinds {
		if k == t {
			return true
		}
	}
	return false
}

// Child is a legacy contents entry: Text or *Node.
type Child interface{ isChild() }

// Text is a raw text span.
type Text string

func (Text) isChild()  {}
func (*Node) isChild() {}

// Document is a legacy document.
type Document struct {
	Properties DocumentProperties
	Contents   []*Node
}

// DocumentProperties is the legacy document metadata.
type DocumentProperties struct {
	Title       []string
	Filetags    []string
	Author      []string
	Creator     string
	Date        []string
	Description []string
	Email       string
	Language    string
}

// BaseProperties is the legacy properties record. Only headlines put
// semantic fields here; everything else is in the node's flat fields.
type BaseProperties struct {
	PostAffiliated int
	PostBlank      int
	TrueLevel      *int

	// headline
	Level       *int
	TodoKeyword string
	Priority    string
	Title       []Child
	Tags        []string
	Commentedp  *bool

	// Extra keeps unrecognized properties verbatim.
	Extra map[string]any
}

// Mark is a legacy timestamp repeater or warning. Components absent from
// the source stay nil/empty so the upgrade can report them.
type Mark struct {
	Type  string
	Value *int
	Unit  string
}

// Node is a legacy node. Which flat fields are meaningful depends on Type,
// mirroring the legacy per-kind interfaces; empty strings and nil slices
// mean "absent".
type Node struct {
	Type       string
	Ref        string
	Properties BaseProperties
	Contents   []Child

	// greater/lesser/dynamic blocks
	BlockName  string
	Language   string
	Parameters []string
	Value      *string // lesser blocks, comment, fixed-width, latex, snippets, targets, code, verbatim, cookies, node-property

	// drawers, node properties
	DrawerName string
	Key        string // node-property, citation-reference, macro

	Tblfm []string
	Label string // footnote definition / reference

	// inline task
	TodoKeyword string
	Priority    string
	Title       []Child
	Tags        []string

	// clock / planning
	Duration  string
	Timestamp *Node
	Deadline  *Node
	Scheduled *Node
	Closed    *Node

	// lists
	ListType string
	Bullet   string
	Counter  string
	Checkbox string
	Tag      []Child

	// entity, calls
	Name      string
	HTML      string
	LaTeX     string
	ASCII     string
	Unicode   string
	Arguments []string

	Backend    string
	Definition []Child // inline footnote definition

	Prefix string
	Suffix string

	// link
	Path        string
	Format      string
	RawLink     string
	Description []Child

	// timestamp
	TimestampType string
	Year          int
	Month         int
	Day           int
	DayName       string
	Hour          *int
	Minute        *int
	Repeater      *Mark
	Warning       *Mark
	EndYear       *int
	EndMonth      *int
	EndDay        *int
	EndHour       *int
	EndMinute     *int
}

// Int returns a pointer to n, for the optional numeric fields.
func Int(n int) *int { return &n }

// String returns a pointer to s, for Node.Value.
func String(s string) *string { return &s }
