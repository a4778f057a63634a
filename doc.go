// Package orgmodel provides the document object model for Org-mode markup:
//
// - A closed catalog of element and object kinds, each with a Shape naming
// its properties, its contents sequence and its single-node slots
// - Content classes: the grammar of which kinds (and whether raw text) may
// appear in each structural position, tested by concrete membership
// - An open Properties bag with bookkeeping defaults and typed accessors
// - A validating construction API (MakeNode, Builder) and document assembly
// (MakeDocument) reporting failures as Issues (JSON Pointer, code, context)
//
// Design policy:
// - Nodes and documents are immutable; edits rebuild the affected subtree.
// - Nothing is silently dropped or coerced: a child outside its class fails
// construction of its parent.
// - Legacy trees are upgraded by package upgrade; wire encoding lives in
// package codec.
//
// Typical usage:
//
//	b := orgmodel.NewBuilder()
//	bold, err := b.MakeNode(orgmodel.KindBold, nil, []orgmodel.Child{orgmodel.Text("hi")})
//	para, err := b.MakeNode(orgmodel.KindParagraph, nil, []orgmodel.Child{bold})
//	sec, err := b.MakeNode(orgmodel.KindSection, nil, []orgmodel.Child{para})
//	doc, err := b.MakeDocument(orgmodel.DocumentProperties{Title: []string{"Notes"}}, []*orgmodel.Node{sec})
package orgmodel
