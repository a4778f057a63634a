package codec

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	orgmodel "github.com/reoring/orgmodel"
)

// DecodeJSON parses a current-shape document and assembles it.
func DecodeJSON(data []byte, opts ...DecodeOption) (*orgmodel.Document, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v, opts...)
}

// DecodeNodeJSON parses a current-shape node and assembles it.
func DecodeNodeJSON(data []byte, opts ...DecodeOption) (*orgmodel.Node, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return NodeFromValue(v, opts...)
}

// DecodeYAML parses a current-shape document written as YAML.
func DecodeYAML(data []byte, opts ...DecodeOption) (*orgmodel.Document, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, orgmodel.Issues{{Path: "/", Code: orgmodel.CodeParseError, Message: "invalid YAML", Cause: err}}
	}
	return FromValue(v, opts...)
}

// ParseJSON decodes data into generic maps and slices, keeping numbers as
// json.Number.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, orgmodel.Issues{{Path: "/", Code: orgmodel.CodeParseError, Message: "invalid JSON", Cause: err}}
	}
	return v, nil
}

// FromValue assembles a document from its generic form.
func FromValue(v any, opts ...DecodeOption) (*orgmodel.Document, error) {
	d := &decoder{b: newDecodeConfig(opts).builder}
	return d.document(v)
}

// NodeFromValue assembles a node from its generic form.
func NodeFromValue(v any, opts ...DecodeOption) (*orgmodel.Node, error) {
	d := &decoder{b: newDecodeConfig(opts).builder}
	return d.node(orgmodel.Root(), v)
}

type decoder struct {
	b *orgmodel.Builder
}

func invalid(at orgmodel.PathRef, hint string) error {
	return orgmodel.Issues{at.Issue(orgmodel.CodeInvalidType, orgmodel.Issue{Hint: hint})}
}

func (d *decoder) document(v any) (*orgmodel.Document, error) {
	at := orgmodel.Root()
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(at, "expected object")
	}
	if dt, ok := m["dataType"]; ok && dt != "org-document" {
		return nil, invalid(at.Field("dataType"), "expected org-document")
	}
	props, err := documentProperties(at.Field("properties"), m["properties"])
	if err != nil {
		return nil, err
	}
	ca := at.Field(orgmodel.FieldContents)
	var raw []any
	if rv := m[orgmodel.FieldContents]; rv != nil {
		if raw, ok = rv.([]any); !ok {
			return nil, invalid(ca, "expected array")
		}
	}
	var iss orgmodel.Issues
	nodes := make([]*orgmodel.Node, 0, len(raw))
	for i, it := range raw {
		n, err := d.node(ca.Index(i), it)
		if err != nil {
			more, ok := orgmodel.AsIssues(err)
			if !ok {
				return nil, err
			}
			iss = append(iss, more...)
			continue
		}
		nodes = append(nodes, n)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return d.b.MakeDocument(props, nodes)
}

func documentProperties(at orgmodel.PathRef, v any) (orgmodel.DocumentProperties, error) {
	var p orgmodel.DocumentProperties
	if v == nil {
		return p, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return p, invalid(at, "expected object")
	}
	var iss orgmodel.Issues
	strs := func(name string) []string {
		raw, ok := m[name]
		if !ok || raw == nil {
			return nil
		}
		items, ok := raw.([]any)
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, isStr := it.(string)
			if !isStr {
				ok = false
				break
			}
			out = append(out, s)
		}
		if !ok {
			iss = append(iss, at.Field(name).Issue(orgmodel.CodeInvalidType, orgmodel.Issue{Field: name, Hint: "expected array of strings"}))
		}
		return out
	}
	str := func(name string) string {
		raw, ok := m[name]
		if !ok || raw == nil {
			return ""
		}
		s, ok := raw.(string)
		if !ok {
			iss = append(iss, at.Field(name).Issue(orgmodel.CodeInvalidType, orgmodel.Issue{Field: name, Hint: "expected string"}))
		}
		return s
	}
	p = orgmodel.DocumentProperties{
		Title:       strs("title"),
		Filetags:    strs("filetags"),
		Author:      strs("author"),
		Creator:     str("creator"),
		Date:        strs("date"),
		Description: strs("description"),
		Email:       str("email"),
		Language:    str("language"),
	}
	if len(iss) > 0 {
		return p, iss
	}
	return p, nil
}

func (d *decoder) node(at orgmodel.PathRef, v any) (*orgmodel.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(at, "expected object")
	}
	typ, _ := m["type"].(string)
	kind := orgmodel.Kind(typ)
	shape, ok := orgmodel.LookupShape(kind)
	if !ok {
		return nil, orgmodel.Issues{at.Field("type").Issue(orgmodel.CodeUnknownKind, orgmodel.Issue{Kind: kind})}
	}
	ref, _ := m["ref"].(string)

	f := orgmodel.Fields{}
	if raw, ok := m["properties"]; ok && raw != nil {
		pm, ok := raw.(map[string]any)
		if !ok {
			return nil, invalid(at.Field("properties"), "expected object")
		}
		for k, v := range pm {
			f[k] = v
		}
	}
	// node-valued properties hold nested nodes
	for _, spec := range shape.Props {
		if spec.Type != orgmodel.PropObjects {
			continue
		}
		raw, ok := f[spec.Name]
		if !ok || raw == nil {
			continue
		}
		cs, err := d.children(at.Field("properties").Field(spec.Name), raw)
		if err != nil {
			return nil, err
		}
		f[spec.Name] = cs
	}
	for _, sl := range shape.Slots {
		raw, ok := m[sl.Name]
		if !ok || raw == nil {
			continue
		}
		sn, err := d.node(at.Field(sl.Name), raw)
		if err != nil {
			return nil, err
		}
		f[sl.Name] = sn
	}
	// headlines may carry a free-form drawer map beside their properties
	if dr, ok := m["drawer"]; ok && kind == orgmodel.KindHeadline {
		f["drawer"] = dr
	}

	var children []orgmodel.Child
	if raw, ok := m[orgmodel.FieldContents]; ok && raw != nil {
		cs, err := d.children(at.Field(orgmodel.FieldContents), raw)
		if err != nil {
			return nil, err
		}
		children = cs
	}

	n, err := d.b.MakeNodeWithRef(ref, kind, f, children)
	if err != nil {
		return nil, orgmodel.PrefixIssues(at.Pointer(), err)
	}
	return n, nil
}

func (d *decoder) children(at orgmodel.PathRef, raw any) ([]orgmodel.Child, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, invalid(at, "expected array")
	}
	out := make([]orgmodel.Child, 0, len(items))
	for i, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, orgmodel.Text(s))
			continue
		}
		n, err := d.node(at.Index(i), it)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
