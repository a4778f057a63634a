package orgmodel_test

import (
	"testing"

	orgmodel "github.com/reoring/orgmodel"
)

func TestCatalog_Counts(t *testing.T) {
	if got := len(orgmodel.ElementKinds()); got != 26 {
		t.Fatalf("elements: got %d, want 26", got)
	}
	if got := len(orgmodel.ObjectKinds()); got != 23 {
		t.Fatalf("objects: got %d, want 23", got)
	}
	for _, k := range orgmodel.Kinds() {
		s, ok := orgmodel.LookupShape(k)
		if !ok {
			t.Fatalf("no shape for %s", k)
		}
		if s.Element != k.IsElement() || k.IsElement() == k.IsObject() {
			t.Fatalf("%s: element/object flags disagree", k)
		}
		if s.HasContents() && orgmodel.ClassFor(k, orgmodel.FieldContents) != s.Contents {
			t.Fatalf("%s: ClassFor(contents) mismatch", k)
		}
	}
}

func TestMustShape_PanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	orgmodel.MustShape("no-such-kind")
}

// TestContentClass_Soundness builds every kind with contents against every
// kind as a direct child: members succeed, everything else fails with
// content_class (or self_nesting for text markup in itself).
func TestContentClass_Soundness(t *testing.T) {
	b := orgmodel.NewBuilder()
	for _, parent := range orgmodel.Kinds() {
		shape := orgmodel.MustShape(parent)
		if !shape.HasContents() {
			continue
		}
		class := shape.Contents
		for _, child := range orgmodel.Kinds() {
			c := mustNode(t, b, child, nil)
			_, err := b.MakeNode(parent, minimalFields(t, b, parent), []orgmodel.Child{c})
			switch {
			case class.AdmitsKind(child) && class.ForbidsSelfNesting() && child == parent:
				if !orgmodel.HasCode(err, orgmodel.CodeSelfNesting) {
					t.Fatalf("%s in %s: want self_nesting, got %v", child, parent, err)
				}
			case class.AdmitsKind(child):
				if err != nil {
					t.Fatalf("%s in %s (%s): unexpected error %v", child, parent, class, err)
				}
			default:
				if !orgmodel.HasCode(err, orgmodel.CodeContentClass) {
					t.Fatalf("%s in %s (%s): want content_class, got %v", child, parent, class, err)
				}
				it, _ := orgmodel.FirstIssue(err)
				if it.Kind != parent || it.Child != child || it.Class != class || it.Field != orgmodel.FieldContents {
					t.Fatalf("missing context: %+v", it)
				}
			}
		}

		_, err := b.MakeNode(parent, minimalFields(t, b, parent), text("t"))
		if class.AdmitsText() && err != nil {
			t.Fatalf("text in %s: unexpected error %v", parent, err)
		}
		if !class.AdmitsText() && !orgmodel.HasCode(err, orgmodel.CodeContentClass) {
			t.Fatalf("text in %s: want content_class, got %v", parent, err)
		}
	}
}

func TestContentClass_LeafRejectsChildren(t *testing.T) {
	_, err := orgmodel.MakeNode(orgmodel.KindHorizontalRule, nil, text("x"))
	if !orgmodel.HasCode(err, orgmodel.CodeContentClass) {
		t.Fatalf("want content_class, got %v", err)
	}
	it, _ := orgmodel.FirstIssue(err)
	if it.Class != orgmodel.ClassNone || it.Field != orgmodel.FieldContents {
		t.Fatalf("unexpected context: %+v", it)
	}
}

func TestSelfNesting(t *testing.T) {
	inner, err := orgmodel.MakeNode(orgmodel.KindBold, nil, text("x"))
	if err != nil {
		t.Fatalf("inner bold: %v", err)
	}
	_, err = orgmodel.MakeNode(orgmodel.KindBold, nil, []orgmodel.Child{inner})
	if !orgmodel.HasCode(err, orgmodel.CodeSelfNesting) {
		t.Fatalf("bold in bold: want self_nesting, got %v", err)
	}

	italic, err := orgmodel.MakeNode(orgmodel.KindItalic, nil, text("x"))
	if err != nil {
		t.Fatalf("italic: %v", err)
	}
	bold, err := orgmodel.MakeNode(orgmodel.KindBold, nil, []orgmodel.Child{italic})
	if err != nil {
		t.Fatalf("italic in bold: %v", err)
	}
	if got := orgmodel.ChildrenOf(bold); len(got) != 1 || got[0] != italic {
		t.Fatalf("children not kept: %v", got)
	}
}

func TestClasses_DistinctMembership(t *testing.T) {
	// link is a table-cell member but not a link-description member
	if !orgmodel.ClassTableCell.AdmitsKind(orgmodel.KindLink) {
		t.Fatalf("table-cell should admit link")
	}
	if orgmodel.ClassLinkDescription.AdmitsKind(orgmodel.KindLink) {
		t.Fatalf("link-description must not admit link")
	}
	for _, k := range orgmodel.ClassMinimal.Members() {
		if !orgmodel.ClassTableCell.AdmitsKind(k) || !orgmodel.ClassLinkDescription.AdmitsKind(k) {
			t.Fatalf("%s: minimal member missing from an extending class", k)
		}
	}
	if orgmodel.ClassTableRows.AdmitsText() || !orgmodel.ClassPropertyDrawer.AdmitsText() {
		t.Fatalf("structural text admission wrong")
	}
	if orgmodel.Admits(orgmodel.ClassParagraph, (*orgmodel.Node)(nil)) {
		t.Fatalf("nil node must not be admitted")
	}
}

func TestSlots_TimestampOnly(t *testing.T) {
	b := orgmodel.NewBuilder()
	bold := mustNode(t, b, orgmodel.KindBold, text("x"))
	_, err := b.MakeNode(orgmodel.KindClock, orgmodel.Fields{"timestamp": bold}, nil)
	if !orgmodel.HasCode(err, orgmodel.CodeContentClass) {
		t.Fatalf("want content_class for bold in clock.timestamp, got %v", err)
	}
	_, err = b.MakeNode(orgmodel.KindClock, nil, nil)
	it, ok := orgmodel.FirstIssue(err)
	if !ok || it.Code != orgmodel.CodeRequired || it.Field != "timestamp" {
		t.Fatalf("want required timestamp, got %v", err)
	}

	ts := mustNode(t, b, orgmodel.KindTimestamp, nil)
	plan, err := b.MakeNode(orgmodel.KindPlanning, orgmodel.Fields{"deadline": ts}, nil)
	if err != nil {
		t.Fatalf("planning: %v", err)
	}
	if plan.Slot("deadline") != ts || plan.Slot("scheduled") != nil {
		t.Fatalf("slots not kept")
	}
}
