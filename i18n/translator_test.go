package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("content_class", nil); msg == "content_class" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", map[string]string{"kind": "headline", "field": "title"}); msg == "headline: required field title is missing" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_FillsPlaceholders(t *testing.T) {
	msg := T("content_class", map[string]string{"kind": "link", "field": "contents", "child": "link", "class": "link-description"})
	want := "link: link is not allowed in contents (class link-description)"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
	if msg := T("duplicate_ref", nil); msg != "duplicate ref ?" {
		t.Fatalf("missing placeholder should collapse, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("required", nil); msg != "X:required" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("unknown", nil); msg != "unknown" {
		t.Fatalf("unknown codes should echo, got %q", msg)
	}
}
