package upgrade

import (
	"log/slog"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/codec"
	"github.com/reoring/orgmodel/legacy"
)

// Generation identifies the schema generation of a serialized tree.
type Generation int

const (
	GenerationCurrent Generation = iota
	GenerationLegacy
)

func (g Generation) String() string {
	if g == GenerationLegacy {
		return "legacy"
	}
	return "current"
}

// FromJSON decodes a document in either generation and returns it in the
// current shape. Current documents are assembled as-is, so feeding the
// output of an upgrade back in returns the same tree.
func FromJSON(data []byte) (*orgmodel.Document, error) { return std.FromJSON(data) }

// FromJSON is the package-level FromJSON using u's configuration.
func (u *Upgrader) FromJSON(data []byte) (*orgmodel.Document, error) {
	v, err := codec.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	gen := Detect(v)
	u.log.Debug("detected generation", slog.String("generation", gen.String()))
	if gen == GenerationCurrent {
		return codec.FromValue(v, codec.WithBuilder(u.newPass().b))
	}
	doc, err := legacy.FromValue(v)
	if err != nil {
		return nil, err
	}
	return u.Document(doc)
}

// Current re-assembles an already-current document through a fresh
// assembly pass. The nodes are reused unchanged; only the document-level
// checks (top-level class, metadata formats, ref uniqueness) run again.
func (u *Upgrader) Current(doc *orgmodel.Document) (*orgmodel.Document, error) {
	return u.newPass().b.MakeDocument(doc.Properties(), doc.Contents())
}

// current top-level node keys; slots are added per kind
var nodeKeys = map[string]struct{}{
	"dataType": {}, "type": {}, "ref": {}, "properties": {}, orgmodel.FieldContents: {},
}

// Detect reports the generation of a generic document value. Any node
// carrying a legacy-only top-level field (numeric timestamp parts, block
// names, link paths, ...), lacking a field every current node of its kind
// has (table-row and link "type") or holding loose text the upgrade turns
// into nodes (":KEY:" drawer lines, "#+KEY:" lines in element positions)
// makes the whole document legacy.
func Detect(v any) Generation {
	m, ok := v.(map[string]any)
	if !ok {
		return GenerationCurrent
	}
	items, _ := m[orgmodel.FieldContents].([]any)
	for _, it := range items {
		if legacyNode(it) {
			return GenerationLegacy
		}
	}
	return GenerationCurrent
}

func legacyNode(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	typ, _ := m["type"].(string)
	kind := orgmodel.Kind(typ)
	shape, known := orgmodel.LookupShape(kind)
	for k := range m {
		if _, ok := nodeKeys[k]; ok {
			continue
		}
		if known {
			if _, ok := shape.Slot(k); ok {
				continue
			}
		}
		if k == "drawer" && kind == orgmodel.KindHeadline {
			continue
		}
		return true
	}
	props, _ := m["properties"].(map[string]any)
	switch kind {
	case orgmodel.KindTableRow, orgmodel.KindLink:
		if _, ok := props["type"]; !ok {
			return true
		}
	}
	var nested []any
	if known {
		for _, sl := range shape.Slots {
			if s, ok := m[sl.Name]; ok {
				nested = append(nested, s)
			}
		}
	}
	for _, k := range []string{"title", "tag"} {
		if cs, ok := props[k].([]any); ok {
			nested = append(nested, cs...)
		}
	}
	if cs, ok := m[orgmodel.FieldContents].([]any); ok {
		for _, c := range cs {
			if s, ok := c.(string); ok && legacyText(kind, s) {
				return true
			}
		}
		nested = append(nested, cs...)
	}
	for _, c := range nested {
		if legacyNode(c) {
			return true
		}
	}
	return false
}
