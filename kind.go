package orgmodel

// Kind is the closed tag naming one element or object kind.
type Kind string

// Element kinds.
const (
	KindSection            Kind = "section"
	KindHeadline           Kind = "headline"
	KindParagraph          Kind = "paragraph"
	KindCenterBlock        Kind = "center-block"
	KindQuoteBlock         Kind = "quote-block"
	KindSpecialBlock       Kind = "special-block"
	KindExampleBlock       Kind = "example-block"
	KindExportBlock        Kind = "export-block"
	KindSrcBlock           Kind = "src-block"
	KindVerseBlock         Kind = "verse-block"
	KindDrawer             Kind = "drawer"
	KindPropertyDrawer     Kind = "property-drawer"
	KindNodeProperty       Kind = "node-property"
	KindDynamicBlock       Kind = "dynamic-block"
	KindTable              Kind = "table"
	KindTableRow           Kind = "table-row"
	KindHorizontalRule     Kind = "horizontal-rule"
	KindFootnoteDefinition Kind = "footnote-definition"
	KindInlineTask         Kind = "inline-task"
	KindComment            Kind = "comment"
	KindFixedWidth         Kind = "fixed-width"
	KindClock              Kind = "clock"
	KindPlanning           Kind = "planning"
	KindPlainList          Kind = "plain-list"
	KindItem               Kind = "item"
	KindKeyword            Kind = "keyword"
)

// Object kinds.
const (
	KindEntity            Kind = "entity"
	KindLatexFragment     Kind = "latex-fragment"
	KindExportSnippet     Kind = "export-snippet"
	KindFootnoteReference Kind = "footnote-reference"
	KindCitationReference Kind = "citation-reference"
	KindBabelCall         Kind = "babel-call"
	KindInlineBabelCall   Kind = "inline-babel-call"
	KindRadioTarget       Kind = "radio-target"
	KindTarget            Kind = "target"
	KindLink              Kind = "link"
	KindTimestamp         Kind = "timestamp"
	KindMacro             Kind = "macro"
	KindSubscript         Kind = "subscript"
	KindSuperscript       Kind = "superscript"
	KindBold              Kind = "bold"
	KindItalic            Kind = "italic"
	KindUnderline         Kind = "underline"
	KindStrikethrough     Kind = "strikethrough"
	KindCode              Kind = "code"
	KindVerbatim          Kind = "verbatim"
	KindLineBreak         Kind = "line-break"
	KindStatisticsCookie  Kind = "statistics-cookie"
	KindTableCell         Kind = "table-cell"
)

var elementKinds = []Kind{
	KindSection, KindHeadline, KindParagraph,
	KindCenterBlock, KindQuoteBlock, KindSpecialBlock,
	KindExampleBlock, KindExportBlock, KindSrcBlock, KindVerseBlock,
	KindDrawer, KindPropertyDrawer, KindNodeProperty, KindDynamicBlock,
	KindTable, KindTableRow, KindHorizontalRule, KindFootnoteDefinition,
	KindInlineTask, KindComment, KindFixedWidth, KindClock, KindPlanning,
	KindPlainList, KindItem, KindKeyword,
}

var objectKinds = []Kind{
	KindEntity, KindLatexFragment, KindExportSnippet, KindFootnoteReference,
	KindCitationReference, KindBabelCall, KindInlineBabelCall,
	KindRadioTarget, KindTarget, KindLink, KindTimestamp, KindMacro,
	KindSubscript, KindSuperscript,
	KindBold, KindItalic, KindUnderline, KindStrikethrough, KindCode, KindVerbatim,
	KindLineBreak, KindStatisticsCookie, KindTableCell,
}

// ElementKinds returns every element kind in catalog order.
func ElementKinds() []Kind { return append([]Kind(nil), elementKinds...) }

// ObjectKinds returns every object kind in catalog order.
func ObjectKinds() []Kind { return append([]Kind(nil), objectKinds...) }

// Kinds returns every catalogued kind, elements first.
func Kinds() []Kind {
	out := make([]Kind, 0, len(elementKinds)+len(objectKinds))
	out = append(out, elementKinds...)
	return append(out, objectKinds...)
}

// Known reports whether k is a catalogued kind.
func (k Kind) Known() bool {
	_, ok := catalog[k]
	return ok
}

// IsElement reports whether k is a block-level kind.
func (k Kind) IsElement() bool {
	s, ok := catalog[k]
	return ok && s.Element
}

// IsObject reports whether k is an inline kind.
func (k Kind) IsObject() bool {
	s, ok := catalog[k]
	return ok && !s.Element
}

// IsTextMarkup reports whether k is one of the emphasis-like markup kinds
// whose contents are governed by the text-markup class.
func (k Kind) IsTextMarkup() bool {
	s, ok := catalog[k]
	return ok && s.Contents == ClassTextMarkup
}
