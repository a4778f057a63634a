package legacy

import (
	"bytes"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	orgmodel "github.com/reoring/orgmodel"
)

// DecodeJSON decodes a legacy document from its JSON form
// ({"dataType":"org-document","properties":{...},"contents":[...]}).
func DecodeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, orgmodel.Issues{{Path: "/", Code: orgmodel.CodeParseError, Message: "invalid JSON", Cause: err}}
	}
	return FromValue(v)
}

// DecodeYAML decodes a legacy document written as YAML, which is handy for
// hand-written fixtures.
func DecodeYAML(data []byte) (*Document, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, orgmodel.Issues{{Path: "/", Code: orgmodel.CodeParseError, Message: "invalid YAML", Cause: err}}
	}
	return FromValue(v)
}

// FromValue converts a generic decoded value (maps, slices, strings and
// numbers) into a legacy document.
func FromValue(v any) (*Document, error) {
	d := &decoder{}
	doc := d.document(orgmodel.Root(), v)
	if len(d.iss) > 0 {
		return nil, d.iss
	}
	return doc, nil
}

// NodeFromValue converts a generic decoded value into a legacy node.
func NodeFromValue(v any) (*Node, error) {
	d := &decoder{}
	n := d.node(orgmodel.Root(), v)
	if len(d.iss) > 0 {
		return nil, d.iss
	}
	return n, nil
}

// top-level node keys understood by the decoder; anything else is kept in
// Properties.Extra
var nodeKeys = map[string]struct{}{
	"dataType": {}, "type": {}, "ref": {}, "properties": {}, "contents": {},
	"blockName": {}, "language": {}, "parameters": {}, "value": {},
	"drawerName": {}, "key": {}, "tblfm": {}, "label": {},
	"todoKeyword": {}, "priority": {}, "title": {}, "tags": {},
	"duration": {}, "timestamp": {}, "deadline": {}, "scheduled": {}, "closed": {},
	"listType": {}, "bullet": {}, "counter": {}, "checkbox": {}, "tag": {},
	"name": {}, "html": {}, "latex": {}, "ascii": {}, "unicode": {}, "arguments": {},
	"backend": {}, "definition": {}, "prefix": {}, "suffix": {},
	"path": {}, "format": {}, "rawLink": {}, "description": {},
	"timestampType": {}, "year": {}, "month": {}, "day": {}, "dayName": {},
	"hour": {}, "minute": {}, "repeater": {}, "warning": {},
	"endYear": {}, "endMonth": {}, "endDay": {}, "endHour": {}, "endMinute": {},
}

type decoder struct {
	iss orgmodel.Issues
}

func (d *decoder) fail(at orgmodel.PathRef, code, hint string) {
	d.iss = append(d.iss, at.Issue(code, orgmodel.Issue{Hint: hint}))
}

func (d *decoder) object(at orgmodel.PathRef, v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		d.fail(at, orgmodel.CodeInvalidType, "expected object")
	}
	return m, ok
}

func (d *decoder) document(at orgmodel.PathRef, v any) *Document {
	m, ok := d.object(at, v)
	if !ok {
		return nil
	}
	if dt, ok := m["dataType"]; ok && dt != "org-document" {
		d.fail(at.Field("dataType"), orgmodel.CodeInvalidType, "expected org-document")
	}
	doc := &Document{}
	pa := at.Field("properties")
	if raw, ok := m["properties"]; ok && raw != nil {
		pm, ok := d.object(pa, raw)
		if !ok {
			return doc
		}
		doc.Properties = DocumentProperties{
			Title:       d.strs(pa, pm, "title"),
			Filetags:    d.strs(pa, pm, "filetags"),
			Author:      d.strs(pa, pm, "author"),
			Creator:     d.str(pa, pm, "creator"),
			Date:        d.strs(pa, pm, "date"),
			Description: d.strs(pa, pm, "description"),
			Email:       d.str(pa, pm, "email"),
			Language:    d.str(pa, pm, "language"),
		}
	}
	ca := at.Field("contents")
	if raw, ok := m["contents"]; ok {
		items, ok := raw.([]any)
		if !ok {
			d.fail(ca, orgmodel.CodeInvalidType, "expected array")
		}
		for i, it := range items {
			if n := d.node(ca.Index(i), it); n != nil {
				doc.Contents = append(doc.Contents, n)
			}
		}
	}
	return doc
}

func (d *decoder) node(at orgmodel.PathRef, v any) *Node {
	m, ok := d.object(at, v)
	if !ok {
		return nil
	}
	typ, _ := m["type"].(string)
	if !IsKind(typ) {
		d.iss = append(d.iss, at.Field("type").Issue(orgmodel.CodeUnknownKind, orgmodel.Issue{Kind: orgmodel.Kind(typ)}))
		return nil
	}
	n := &Node{Type: typ, Ref: d.str(at, m, "ref")}
	n.Properties = d.baseProperties(at.Field("properties"), m["properties"])
	n.Contents = d.children(at, m, "contents")

	n.BlockName = d.str(at, m, "blockName")
	n.Language = d.str(at, m, "language")
	n.Parameters = d.strs(at, m, "parameters")
	if _, ok := m["value"]; ok {
		s := d.str(at, m, "value")
		n.Value = &s
	}
	n.DrawerName = d.str(at, m, "drawerName")
	n.Key = d.str(at, m, "key")
	n.Tblfm = d.strs(at, m, "tblfm")
	n.Label = d.str(at, m, "label")
	n.TodoKeyword = d.str(at, m, "todoKeyword")
	n.Priority = d.str(at, m, "priority")
	n.Title = d.children(at, m, "title")
	n.Tags = d.strs(at, m, "tags")
	n.Duration = d.str(at, m, "duration")
	n.Timestamp = d.nodeField(at, m, "timestamp")
	n.Deadline = d.nodeField(at, m, "deadline")
	n.Scheduled = d.nodeField(at, m, "scheduled")
	n.Closed = d.nodeField(at, m, "closed")
	n.ListType = d.str(at, m, "listType")
	n.Bullet = d.str(at, m, "bullet")
	n.Counter = d.str(at, m, "counter")
	n.Checkbox = d.str(at, m, "checkbox")
	n.Tag = d.children(at, m, "tag")
	n.Name = d.str(at, m, "name")
	n.HTML = d.str(at, m, "html")
	n.LaTeX = d.str(at, m, "latex")
	n.ASCII = d.str(at, m, "ascii")
	n.Unicode = d.str(at, m, "unicode")
	n.Arguments = d.strs(at, m, "arguments")
	n.Backend = d.str(at, m, "backend")
	n.Definition = d.children(at, m, "definition")
	n.Prefix = d.str(at, m, "prefix")
	n.Suffix = d.str(at, m, "suffix")
	n.Path = d.str(at, m, "path")
	n.Format = d.str(at, m, "format")
	n.RawLink = d.str(at, m, "rawLink")
	n.Description = d.children(at, m, "description")
	n.TimestampType = d.str(at, m, "timestampType")
	if typ == "timestamp" {
		n.Year = d.required(at, m, "year")
		n.Month = d.required(at, m, "month")
		n.Day = d.required(at, m, "day")
	}
	n.DayName = d.str(at, m, "dayName")
	n.Hour = d.intPtr(at, m, "hour")
	n.Minute = d.intPtr(at, m, "minute")
	n.Repeater = d.mark(at, m, "repeater")
	n.Warning = d.mark(at, m, "warning")
	n.EndYear = d.intPtr(at, m, "endYear")
	n.EndMonth = d.intPtr(at, m, "endMonth")
	n.EndDay = d.intPtr(at, m, "endDay")
	n.EndHour = d.intPtr(at, m, "endHour")
	n.EndMinute = d.intPtr(at, m, "endMinute")

	for k, v := range m {
		if _, known := nodeKeys[k]; known {
			continue
		}
		if n.Properties.Extra == nil {
			n.Properties.Extra = map[string]any{}
		}
		n.Properties.Extra[k] = v
	}
	return n
}

func (d *decoder) baseProperties(at orgmodel.PathRef, v any) BaseProperties {
	var p BaseProperties
	if v == nil {
		return p
	}
	m, ok := d.object(at, v)
	if !ok {
		return p
	}
	if n := d.intPtr(at, m, "postAffiliated"); n != nil {
		p.PostAffiliated = *n
	}
	if n := d.intPtr(at, m, "postBlank"); n != nil {
		p.PostBlank = *n
	}
	p.TrueLevel = d.intPtr(at, m, "trueLevel")
	p.Level = d.intPtr(at, m, "level")
	p.TodoKeyword = d.str(at, m, "todoKeyword")
	p.Priority = d.str(at, m, "priority")
	p.Title = d.children(at, m, "title")
	p.Tags = d.strs(at, m, "tags")
	if b, ok := m["commentedp"]; ok && b != nil {
		bv, ok := b.(bool)
		if !ok {
			d.fail(at.Field("commentedp"), orgmodel.CodeInvalidType, "expected boolean")
		}
		p.Commentedp = &bv
	}
	for k, v := range m {
		switch k {
		case "postAffiliated", "postBlank", "trueLevel", "level", "todoKeyword", "priority", "title", "tags", "commentedp":
			continue
		}
		if p.Extra == nil {
			p.Extra = map[string]any{}
		}
		p.Extra[k] = v
	}
	return p
}

func (d *decoder) children(at orgmodel.PathRef, m map[string]any, name string) []Child {
	raw, ok := m[name]
	if !ok || raw == nil {
		return nil
	}
	fa := at.Field(name)
	items, ok := raw.([]any)
	if !ok {
		d.fail(fa, orgmodel.CodeInvalidType, "expected array")
		return nil
	}
	out := make([]Child, 0, len(items))
	for i, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, Text(s))
			continue
		}
		if n := d.node(fa.Index(i), it); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (d *decoder) nodeField(at orgmodel.PathRef, m map[string]any, name string) *Node {
	raw, ok := m[name]
	if !ok || raw == nil {
		return nil
	}
	return d.node(at.Field(name), raw)
}

func (d *decoder) str(at orgmodel.PathRef, m map[string]any, name string) string {
	raw, ok := m[name]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(at.Field(name), orgmodel.CodeInvalidType, "expected string")
	}
	return s
}

func (d *decoder) strs(at orgmodel.PathRef, m map[string]any, name string) []string {
	raw, ok := m[name]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		d.fail(at.Field(name), orgmodel.CodeInvalidType, "expected array of strings")
		return nil
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			d.fail(at.Field(name).Index(i), orgmodel.CodeInvalidType, "expected string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *decoder) intPtr(at orgmodel.PathRef, m map[string]any, name string) *int {
	raw, ok := m[name]
	if !ok || raw == nil {
		return nil
	}
	n, ok := toInt(raw)
	if !ok {
		d.fail(at.Field(name), orgmodel.CodeInvalidType, "expected integer")
		return nil
	}
	return &n
}

func (d *decoder) required(at orgmodel.PathRef, m map[string]any, name string) int {
	if _, ok := m[name]; !ok {
		d.iss = append(d.iss, at.Field(name).Issue(orgmodel.CodeRequired, orgmodel.Issue{Kind: orgmodel.KindTimestamp, Field: name}))
		return 0
	}
	if n := d.intPtr(at, m, name); n != nil {
		return *n
	}
	return 0
}

func (d *decoder) mark(at orgmodel.PathRef, m map[string]any, name string) *Mark {
	raw, ok := m[name]
	if !ok || raw == nil {
		return nil
	}
	fa := at.Field(name)
	mm, ok := d.object(fa, raw)
	if !ok {
		return nil
	}
	return &Mark{
		Type:  d.str(fa, mm, "type"),
		Value: d.intPtr(fa, mm, "value"),
		Unit:  d.str(fa, mm, "unit"),
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// String renders the node kind and ref, for logs and failure messages.
func (n *Node) String() string { return fmt.Sprintf("%s(%s)", n.Type, n.Ref) }
