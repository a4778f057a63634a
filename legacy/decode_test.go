package legacy_test

import (
	"testing"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/legacy"
)

var sampleJSON = []byte(`{
  "dataType": "org-document",
  "properties": {"title": ["Notes"], "filetags": ["work"], "author": [], "creator": "Emacs",
                 "date": ["2024-03-05"], "description": [], "email": "", "language": "en"},
  "contents": [
    {"type": "section", "ref": "s1", "properties": {"postAffiliated": 0, "postBlank": 1},
     "contents": [
       "#+TITLE: Hello\n",
       {"type": "headline", "ref": "h1",
        "properties": {"postAffiliated": 0, "postBlank": 0, "level": 1, "title": ["Task ", {"type": "bold", "contents": ["now"]}], "tags": ["a"]},
        "contents": []},
       {"type": "paragraph", "contents": [
         "see ",
         {"type": "link", "path": "https://orgmode.org", "rawLink": "https://orgmode.org", "description": ["site"]},
         {"type": "timestamp", "timestampType": "active", "year": 2024, "month": 3, "day": 5, "hour": 9, "minute": 30,
          "repeater": {"type": "+", "value": 1, "unit": "w"}}
       ]}
     ]}
  ]
}`)

func TestDecodeJSON(t *testing.T) {
	doc, err := legacy.DecodeJSON(sampleJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Properties.Creator != "Emacs" || doc.Properties.Date[0] != "2024-03-05" {
		t.Fatalf("document properties: %+v", doc.Properties)
	}
	sec := doc.Contents[0]
	if sec.Type != "section" || sec.Ref != "s1" || sec.Properties.PostBlank != 1 {
		t.Fatalf("section: %+v", sec)
	}
	if txt, ok := sec.Contents[0].(legacy.Text); !ok || txt != "#+TITLE: Hello\n" {
		t.Fatalf("loose text: %#v", sec.Contents[0])
	}
	h := sec.Contents[1].(*legacy.Node)
	if h.Properties.Level == nil || *h.Properties.Level != 1 || len(h.Properties.Title) != 2 {
		t.Fatalf("headline: %+v", h.Properties)
	}
	para := sec.Contents[2].(*legacy.Node)
	link := para.Contents[1].(*legacy.Node)
	if link.Path != "https://orgmode.org" || len(link.Description) != 1 {
		t.Fatalf("link: %+v", link)
	}
	ts := para.Contents[2].(*legacy.Node)
	if ts.Year != 2024 || ts.Month != 3 || ts.Day != 5 || *ts.Hour != 9 || *ts.Minute != 30 {
		t.Fatalf("timestamp: %+v", ts)
	}
	if ts.Repeater == nil || ts.Repeater.Type != "+" || *ts.Repeater.Value != 1 || ts.Repeater.Unit != "w" {
		t.Fatalf("repeater: %+v", ts.Repeater)
	}
	if ts.EndYear != nil {
		t.Fatalf("absent end fields must stay nil")
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
properties:
  title: [Notes]
contents:
  - type: property-drawer
    ref: pd
    contents:
      - ":ID: 42\n:CATEGORY: work"
  - type: clock
    duration: "1:00"
    timestamp: {type: timestamp, timestampType: inactive, year: 2024, month: 1, day: 2}
    custom: kept
`
	doc, err := legacy.DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Contents) != 2 {
		t.Fatalf("contents: %d", len(doc.Contents))
	}
	clock := doc.Contents[1]
	if clock.Duration != "1:00" || clock.Timestamp == nil || clock.Timestamp.Day != 2 {
		t.Fatalf("clock: %+v", clock)
	}
	if clock.Properties.Extra["custom"] != "kept" {
		t.Fatalf("unknown field not kept: %v", clock.Properties.Extra)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code string
		path string
	}{
		{"syntax", `{"contents": [`, orgmodel.CodeParseError, "/"},
		{"unknown kind", `{"contents": [{"type": "keyword"}]}`, orgmodel.CodeUnknownKind, "/contents/0/type"},
		{"missing year", `{"contents": [{"type": "paragraph", "contents": [{"type": "timestamp", "month": 1, "day": 1}]}]}`, orgmodel.CodeRequired, "/contents/0/contents/0/year"},
		{"bad level", `{"contents": [{"type": "headline", "properties": {"level": "1"}}]}`, orgmodel.CodeInvalidType, "/contents/0/properties/level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := legacy.DecodeJSON([]byte(tc.in))
			it, ok := orgmodel.FirstIssue(err)
			if !ok || it.Code != tc.code || it.Path != tc.path {
				t.Fatalf("want %s at %s, got %v", tc.code, tc.path, err)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	if len(legacy.Kinds()) != 48 {
		t.Fatalf("legacy kinds: %d", len(legacy.Kinds()))
	}
	if legacy.IsKind("keyword") {
		t.Fatalf("keyword is not a legacy kind")
	}
}
