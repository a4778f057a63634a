package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "kind", "field", "child" or "class").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"unknown_kind":         "unknown node kind {kind}",
		"required":             "{kind}: required field {field} is missing",
		"content_class":        "{kind}: {child} is not allowed in {field} (class {class})",
		"self_nesting":         "{kind} cannot directly contain another {kind}",
		"duplicate_ref":        "duplicate ref {ref}",
		"malformed_timestamp":  "{kind}: timestamp {field} needs a type, a value and a unit",
		"invalid_type":         "{kind}: invalid type for {field}",
		"invalid_enum":         "{kind}: invalid value for {field}",
		"invalid_format":       "invalid format for {field}",
		"parse_error":          "parse error",
		"unmapped_legacy_kind": "legacy kind {kind} has no current counterpart",
	},
	"ja": {
		"unknown_kind":         "未知のノード種別です: {kind}",
		"required":             "{kind}: 必須フィールド {field} が不足しています",
		"content_class":        "{kind}: {field} に {child} は配置できません ({class})",
		"self_nesting":         "{kind} は同じ種別を直接含めません",
		"duplicate_ref":        "ref が重複しています: {ref}",
		"malformed_timestamp":  "{kind}: タイムスタンプの {field} には種別・値・単位が必要です",
		"invalid_type":         "{kind}: {field} の型が不正です",
		"invalid_enum":         "{kind}: {field} の値が不正です",
		"invalid_format":       "{field} の形式が不正です",
		"parse_error":          "解析エラー",
		"unmapped_legacy_kind": "旧形式の種別 {kind} に対応する現行種別がありません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msgs, ok := dict[t.lang]
	if !ok {
		msgs = dict["en"]
	}
	tmpl, ok := msgs[code]
	if !ok {
		return code
	}
	return fill(tmpl, data)
}

// fill replaces {name} placeholders; unknown placeholders collapse to "?".
func fill(tmpl string, data map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			break
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:i])
		if v, ok := data[tmpl[i+1:i+j]]; ok && v != "" {
			b.WriteString(v)
		} else {
			b.WriteString("?")
		}
		tmpl = tmpl[i+j+1:]
	}
	return b.String()
}

var mu sync.RWMutex

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
