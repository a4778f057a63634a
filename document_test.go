package orgmodel_test

import (
	"testing"

	orgmodel "github.com/reoring/orgmodel"
)

func reportProps() orgmodel.DocumentProperties {
	return orgmodel.DocumentProperties{
		Title: []string{"Report"}, Filetags: []string{}, Author: []string{"A"},
		Creator: "x", Date: []string{}, Description: []string{}, Email: "", Language: "",
	}
}

func TestMakeDocument_Assembly(t *testing.T) {
	section, err := orgmodel.MakeNode(orgmodel.KindSection, nil, nil)
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	doc, err := orgmodel.MakeDocument(reportProps(), []*orgmodel.Node{section})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if got := doc.Contents(); len(got) != 1 || got[0] != section {
		t.Fatalf("contents: %v", got)
	}
	p := doc.Properties()
	if p.Title[0] != "Report" || p.Author[0] != "A" || p.Creator != "x" {
		t.Fatalf("properties: %+v", p)
	}
}

func TestMakeDocument_NilSequencesAreEmpty(t *testing.T) {
	doc, err := orgmodel.MakeDocument(orgmodel.DocumentProperties{}, nil)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	p := doc.Properties()
	if p.Title == nil || p.Filetags == nil || p.Date == nil {
		t.Fatalf("sequences should be empty, not nil: %+v", p)
	}
}

func TestMakeDocument_RejectsObjectsAtTopLevel(t *testing.T) {
	bold, _ := orgmodel.MakeNode(orgmodel.KindBold, nil, text("x"))
	_, err := orgmodel.MakeDocument(reportProps(), []*orgmodel.Node{bold})
	it, ok := orgmodel.FirstIssue(err)
	if !ok || it.Code != orgmodel.CodeContentClass || it.Path != "/contents/0" || it.Class != orgmodel.ClassSection {
		t.Fatalf("want content_class at /contents/0, got %v", err)
	}
}

func TestMakeDocument_PropertyFormats(t *testing.T) {
	p := reportProps()
	p.Filetags = []string{"ok", "has space"}
	p.Email = "not-an-email"
	if _, err := orgmodel.MakeDocument(p, nil); err != nil {
		t.Fatalf("metadata is free-form by default: %v", err)
	}
	_, err := orgmodel.NewBuilder(orgmodel.WithStrictProperties()).MakeDocument(p, nil)
	iss, ok := orgmodel.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("want two issues, got %v", err)
	}
	if iss[0].Path != "/properties/email" || iss[1].Path != "/properties/filetags" {
		t.Fatalf("unexpected paths: %v", iss)
	}
	for _, it := range iss {
		if it.Code != orgmodel.CodeInvalidFormat {
			t.Fatalf("unexpected code: %+v", it)
		}
	}
}

func TestMakeDocument_FreeFormMetadata(t *testing.T) {
	cases := []struct {
		name string
		edit func(*orgmodel.DocumentProperties)
	}{
		{"email with display name", func(p *orgmodel.DocumentProperties) { p.Email = "John Doe <jd@example.org>" }},
		{"locale language", func(p *orgmodel.DocumentProperties) { p.Language = "en_US.UTF-8" }},
		{"empty filetag", func(p *orgmodel.DocumentProperties) { p.Filetags = []string{""} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := reportProps()
			tc.edit(&p)
			doc, err := orgmodel.NewBuilder().MakeDocument(p, nil)
			if err != nil {
				t.Fatalf("document: %v", err)
			}
			if got := doc.Properties(); got.Email != p.Email || got.Language != p.Language || len(got.Filetags) != len(p.Filetags) {
				t.Fatalf("metadata altered: %+v", got)
			}
		})
	}
}

func TestMakeDocument_DuplicateRefs(t *testing.T) {
	// the package-level constructors leave ownership to MakeDocument
	para, _ := orgmodel.MakeNode(orgmodel.KindParagraph, nil, text("shared"))
	a, _ := orgmodel.MakeNode(orgmodel.KindSection, nil, []orgmodel.Child{para})
	b, _ := orgmodel.MakeNode(orgmodel.KindSection, nil, []orgmodel.Child{para})
	_, err := orgmodel.MakeDocument(reportProps(), []*orgmodel.Node{a, b})
	it, ok := orgmodel.FirstIssue(err)
	if !ok || it.Code != orgmodel.CodeDuplicateRef || it.Ref != para.Ref() || it.Path != "/contents/1/contents/0" {
		t.Fatalf("want duplicate_ref for the shared paragraph, got %v", err)
	}

	bld := orgmodel.NewBuilder()
	x, _ := bld.MakeNodeWithRef("same", orgmodel.KindSection, nil, nil)
	other := orgmodel.NewBuilder()
	y, _ := other.MakeNodeWithRef("same", orgmodel.KindSection, nil, nil)
	if _, err := bld.MakeDocument(reportProps(), []*orgmodel.Node{x, y}); !orgmodel.HasCode(err, orgmodel.CodeDuplicateRef) {
		t.Fatalf("refs from two builders: want duplicate_ref, got %v", err)
	}
}

func TestDocument_RefsPairwiseDistinct(t *testing.T) {
	b := orgmodel.NewBuilder()
	var sections []*orgmodel.Node
	for i := 0; i < 5; i++ {
		bold := mustNode(t, b, orgmodel.KindBold, text("b"))
		title := []orgmodel.Child{orgmodel.Text("Heading "), bold}
		para := mustNode(t, b, orgmodel.KindParagraph, text("body"))
		h, err := b.MakeNode(orgmodel.KindHeadline, orgmodel.Fields{"level": 1, "title": title}, []orgmodel.Child{para})
		if err != nil {
			t.Fatalf("headline: %v", err)
		}
		sections = append(sections, mustNode(t, b, orgmodel.KindSection, []orgmodel.Child{h}))
	}
	doc, err := b.MakeDocument(reportProps(), sections)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	seen := map[string]string{}
	total := 0
	doc.Walk(func(path string, n *orgmodel.Node) bool {
		total++
		if prev, dup := seen[n.Ref()]; dup {
			t.Fatalf("ref %s at %s and %s", n.Ref(), prev, path)
		}
		seen[n.Ref()] = path
		return true
	})
	if total != 20 {
		t.Fatalf("walked %d nodes, want 20", total)
	}
	if _, ok := seen[sections[2].Ref()]; !ok || seen[sections[2].Ref()] != "/contents/2" {
		t.Fatalf("unexpected path for section 2: %v", seen[sections[2].Ref()])
	}
}
