package orgmodel_test

import (
	"testing"

	json "github.com/goccy/go-json"

	orgmodel "github.com/reoring/orgmodel"
)

func TestBuildProperties_Defaults(t *testing.T) {
	p, err := orgmodel.BuildProperties(orgmodel.KindParagraph, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.PostAffiliated != 0 || p.PostBlank != 0 || p.TrueLevel != nil {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if !p.Has(orgmodel.PropTrueLevel) || p.Has(orgmodel.PropPreBlank) {
		t.Fatalf("presence of bookkeeping fields wrong")
	}
	if v, ok := p.Get(orgmodel.PropTrueLevel); !ok || v != nil {
		t.Fatalf("trueLevel should be present and null, got %v %v", v, ok)
	}
}

func TestBuildProperties_ExtrasKeptVerbatim(t *testing.T) {
	extra := map[string]any{"nested": []any{"a", 1}}
	p, err := orgmodel.BuildProperties(orgmodel.KindSection, orgmodel.Fields{
		"custom": extra, orgmodel.PropTrueLevel: 3, orgmodel.PropPreBlank: json.Number("1"),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, ok := p.Get("custom")
	if !ok {
		t.Fatalf("extra dropped")
	}
	if m, ok := got.(map[string]any); !ok || len(m) != 1 {
		t.Fatalf("extra altered: %#v", got)
	}
	if p.TrueLevel == nil || *p.TrueLevel != 3 || p.PreBlank == nil || *p.PreBlank != 1 {
		t.Fatalf("bookkeeping not coerced: %+v", p)
	}
	if names := p.Names(); len(names) != 1 || names[0] != "custom" {
		t.Fatalf("names: %v", names)
	}
}

func TestBuildProperties_TypedFields(t *testing.T) {
	p, err := orgmodel.BuildProperties(orgmodel.KindSrcBlock, orgmodel.Fields{
		"language": "go", "parameters": []any{"-n"}, "value": "package main",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.String("language") != "go" || len(p.Strings("parameters")) != 1 {
		t.Fatalf("typed accessors: %+v", p)
	}

	_, err = orgmodel.BuildProperties(orgmodel.KindPlainList, orgmodel.Fields{"listType": "weird"})
	if !orgmodel.HasCode(err, orgmodel.CodeInvalidEnum) {
		t.Fatalf("want invalid_enum, got %v", err)
	}
	_, err = orgmodel.BuildProperties(orgmodel.KindClock, orgmodel.Fields{"timestamp": "2024"})
	if !orgmodel.HasCode(err, orgmodel.CodeInvalidType) {
		t.Fatalf("slot passed as property: want invalid_type, got %v", err)
	}
}

func timestampFields() orgmodel.Fields {
	return orgmodel.Fields{
		"timestampType": "active",
		"start":         "2024-03-05 09:30",
		"end":           "2024-03-05 09:30",
		"rawValue":      "<2024-03-05 Tue 09:30 +1w>",
	}
}

func TestTimestampMarks(t *testing.T) {
	f := timestampFields()
	f["repeater"] = orgmodel.TimestampMark{Type: "+", Value: 1, Unit: "w"}
	n, err := orgmodel.MakeNode(orgmodel.KindTimestamp, f, nil)
	if err != nil {
		t.Fatalf("timestamp: %v", err)
	}
	m, ok := n.Properties().Mark("repeater")
	if !ok || m.String() != "+1w" {
		t.Fatalf("repeater: %v %v", m, ok)
	}
	if raw := n.Properties().RawValue; raw == nil || *raw != "<2024-03-05 Tue 09:30 +1w>" {
		t.Fatalf("rawValue not kept")
	}

	cases := []struct {
		name  string
		field string
		mark  any
	}{
		{"missing unit", "repeater", map[string]any{"type": "+", "value": 1}},
		{"missing value", "warning", map[string]any{"type": "-", "unit": "d"}},
		{"warning type on repeater", "repeater", orgmodel.TimestampMark{Type: "-", Value: 1, Unit: "d"}},
		{"bad unit", "warning", orgmodel.TimestampMark{Type: "--", Value: 2, Unit: "s"}},
		{"nil pointer", "repeater", (*orgmodel.TimestampMark)(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := timestampFields()
			f[tc.field] = tc.mark
			_, err := orgmodel.MakeNode(orgmodel.KindTimestamp, f, nil)
			if !orgmodel.HasCode(err, orgmodel.CodeMalformedTimestamp) {
				t.Fatalf("want malformed_timestamp, got %v", err)
			}
			it, _ := orgmodel.FirstIssue(err)
			if it.Field != tc.field {
				t.Fatalf("issue field %q, want %q", it.Field, tc.field)
			}
		})
	}
}

func TestProperties_FieldsRoundTrip(t *testing.T) {
	n, err := orgmodel.MakeNode(orgmodel.KindKeyword, orgmodel.Fields{"key": "TITLE", "value": "Hello", "x-extra": true}, nil)
	if err != nil {
		t.Fatalf("keyword: %v", err)
	}
	again, err := orgmodel.MakeNode(orgmodel.KindKeyword, n.Properties().Fields(), nil)
	if err != nil {
		t.Fatalf("rebuild from Fields: %v", err)
	}
	p := again.Properties()
	if p.String("key") != "TITLE" || p.String("value") != "Hello" || !p.Bool("x-extra") {
		t.Fatalf("fields lost: %+v", p)
	}
}
