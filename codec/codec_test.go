package codec_test

import (
	"context"
	"strings"
	"testing"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/codec"
)

func buildDoc(t *testing.T) *orgmodel.Document {
	t.Helper()
	b := orgmodel.NewBuilder()
	must := func(n *orgmodel.Node, err error) *orgmodel.Node {
		t.Helper()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return n
	}
	ts := must(b.MakeNode(orgmodel.KindTimestamp, orgmodel.Fields{
		"timestampType": "inactive", "start": "2024-01-02 10:00", "end": "2024-01-02 11:00",
		"rawValue": "[2024-01-02 10:00-11:00]",
		"repeater": orgmodel.TimestampMark{Type: "+", Value: 1, Unit: "d"},
	}, nil))
	clock := must(b.MakeNode(orgmodel.KindClock, orgmodel.Fields{"timestamp": ts, "duration": "1:00"}, nil))
	bold := must(b.MakeNode(orgmodel.KindBold, nil, []orgmodel.Child{orgmodel.Text("now")}))
	h := must(b.MakeNode(orgmodel.KindHeadline, orgmodel.Fields{
		"level": 1, "title": []orgmodel.Child{orgmodel.Text("Do "), bold}, "todoKeyword": nil, "x-custom": "kept",
	}, []orgmodel.Child{clock}))
	sec := must(b.MakeNode(orgmodel.KindSection, nil, []orgmodel.Child{h, orgmodel.Text("trailing\n")}))
	doc, err := b.MakeDocument(orgmodel.DocumentProperties{Title: []string{"Codec"}, Language: "en"}, []*orgmodel.Node{sec})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return doc
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := codec.JSON()
	doc := buildDoc(t)

	data, err := c.Encode(ctx, doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, want := range []string{`"dataType":"org-document"`, `"timestamp":{`, `"todoKeyword":null`, `"x-custom":"kept"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("encoded output missing %s:\n%s", want, data)
		}
	}

	back, err := c.Decode(ctx, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := c.Encode(ctx, back)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("round trip changed the document:\n%s\n%s", data, again)
	}

	sec := back.Contents()[0]
	if sec.Ref() != doc.Contents()[0].Ref() {
		t.Fatalf("refs not preserved")
	}
	h := sec.Children()[0].(*orgmodel.Node)
	clock := h.Children()[0].(*orgmodel.Node)
	ts := clock.Slot("timestamp")
	if m, ok := ts.Properties().Mark("repeater"); !ok || m.String() != "+1d" {
		t.Fatalf("repeater lost: %v", m)
	}
	if title := h.Properties().Objects("title"); orgmodel.PlainText(title) != "Do now" {
		t.Fatalf("title lost: %v", title)
	}
}

func TestDecode_ValidatesThroughBuilder(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code string
		path string
	}{
		{"bad json", `{`, orgmodel.CodeParseError, "/"},
		{"unknown kind", `{"contents":[{"type":"sidebar"}]}`, orgmodel.CodeUnknownKind, "/contents/0/type"},
		{"self nesting", `{"contents":[{"type":"paragraph","contents":[{"type":"bold","contents":[{"type":"bold","contents":["x"]}]}]}]}`, orgmodel.CodeSelfNesting, "/contents/0/contents/0/contents/0"},
		{"missing title", `{"contents":[{"type":"headline","properties":{"level":1}}]}`, orgmodel.CodeRequired, "/contents/0/properties/title"},
		{"duplicate ref", `{"contents":[{"type":"section","ref":"a"},{"type":"section","ref":"a"}]}`, orgmodel.CodeDuplicateRef, "/contents/1"},
		{"bad contents", `{"contents":{}}`, orgmodel.CodeInvalidType, "/contents"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.DecodeJSON([]byte(tc.in))
			it, ok := orgmodel.FirstIssue(err)
			if !ok || it.Code != tc.code || it.Path != tc.path {
				t.Fatalf("want %s at %s, got %v", tc.code, tc.path, err)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
dataType: org-document
properties:
  title: [Fixture]
contents:
  - type: section
    contents:
      - type: keyword
        properties: {key: TITLE, value: Hello}
      - type: plain-list
        properties: {listType: unordered}
        contents:
          - type: item
            properties: {bullet: "-", checkbox: "on"}
            contents:
              - type: paragraph
                contents: [done]
`
	doc, err := codec.DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	kids := orgmodel.Nodes(doc.Contents()[0].Children())
	if kids[0].Kind() != orgmodel.KindKeyword || kids[0].Properties().String("value") != "Hello" {
		t.Fatalf("keyword: %+v", kids[0].Properties())
	}
	item := kids[1].Children()[0].(*orgmodel.Node)
	if item.Properties().String("checkbox") != "on" {
		t.Fatalf("item: %+v", item.Properties())
	}
}

func TestNodeJSON(t *testing.T) {
	ctx := context.Background()
	c := codec.NodeJSON(codec.WithBuilder(orgmodel.NewBuilder()))
	n, err := c.Decode(ctx, []byte(`{"type":"link","ref":"l1","properties":{"path":"https://x","rawLink":"https://x","type":"https"},"contents":["x"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Ref() != "l1" || n.Kind() != orgmodel.KindLink {
		t.Fatalf("node: %s %s", n.Kind(), n.Ref())
	}
	out, err := c.Encode(ctx, n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), `"contents":["x"]`) {
		t.Fatalf("encoded: %s", out)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Encode(cancelled, n); err == nil {
		t.Fatalf("expected context error")
	}
}
