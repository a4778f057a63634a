package orgmodel

import (
	"fmt"
	"math"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Positional bookkeeping property names, present on every node.
const (
	PropPostAffiliated = "postAffiliated"
	PropPostBlank      = "postBlank"
	PropTrueLevel      = "trueLevel"
	PropPreBlank       = "preBlank"
	PropRawValue       = "rawValue"
)

func isStandardProp(name string) bool {
	switch name {
	case PropPostAffiliated, PropPostBlank, PropTrueLevel, PropPreBlank, PropRawValue:
		return true
	}
	return false
}

// Fields is the caller-supplied attribute map for one node: bookkeeping
// fields, kind-specific fields, single-node slots and free-form extensions.
type Fields map[string]any

// TimestampMark is a timestamp repeater (+, ++, .+) or warning (-, --)
// cookie. All three components are required.
type TimestampMark struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

var (
	repeaterTypes = []any{"+", "++", ".+"}
	warningTypes  = []any{"-", "--"}
	markUnits     = []any{"h", "d", "w", "m", "y"}
)

// Validate checks the mark as the named timestamp field ("repeater" or
// "warning").
func (m TimestampMark) Validate(name string) error {
	types := repeaterTypes
	if name == "warning" {
		types = warningTypes
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Type, validation.Required, validation.In(types...)),
		validation.Field(&m.Value, validation.Min(0)),
		validation.Field(&m.Unit, validation.Required, validation.In(markUnits...)),
	)
}

// String renders the mark as an Org cookie, e.g. "+1w" or "--2d".
func (m TimestampMark) String() string { return fmt.Sprintf("%s%d%s", m.Type, m.Value, m.Unit) }

// Properties is the attribute bag attached to every node: a fixed
// bookkeeping core plus an open map of kind-specific and extension fields.
// Values returned by Node.Properties are copies.
type Properties struct {
	PostAffiliated int
	PostBlank      int
	TrueLevel      *int
	PreBlank       *int
	RawValue       *string

	fields map[string]any
}

// BuildProperties applies bookkeeping defaults, coerces catalogued
// kind-specific fields to their declared types and fails when a required
// field of kind is absent. Unrecognized fields are kept verbatim.
// Node-valued properties (title, tag) are type-checked here; their content
// class is checked by MakeNode.
func BuildProperties(kind Kind, supplied Fields) (Properties, error) {
	shape, ok := LookupShape(kind)
	if !ok {
		return Properties{}, singleIssue(CodeUnknownKind, Issue{Kind: kind})
	}
	p, iss := buildProperties(Root().Field("properties"), shape, supplied)
	if len(iss) > 0 {
		return Properties{}, iss
	}
	return p, nil
}

func buildProperties(at PathRef, shape Shape, supplied Fields) (Properties, Issues) {
	var iss Issues
	p := Properties{fields: map[string]any{}}
	for _, name := range sortedKeys(supplied) {
		v := supplied[name]
		fp := at.Field(name)
		ctx := Issue{Kind: shape.Kind, Field: name}
		if isStandardProp(name) {
			if it, bad := p.setStandard(fp, ctx, name, v); bad {
				iss = append(iss, it)
			}
			continue
		}
		if _, slot := shape.Slot(name); slot || name == FieldContents {
			ctx.Hint = "node fields are passed to MakeNode, not properties"
			iss = append(iss, fp.Issue(CodeInvalidType, ctx))
			continue
		}
		spec, known := shape.Prop(name)
		if !known {
			p.fields[name] = v
			continue
		}
		cv, more := coerceProp(fp, ctx, spec, v)
		if len(more) > 0 {
			iss = append(iss, more...)
			continue
		}
		p.fields[name] = cv
	}
	for _, spec := range shape.Props {
		if spec.Required && !p.Has(spec.Name) {
			iss = append(iss, at.Field(spec.Name).Issue(CodeRequired, Issue{Kind: shape.Kind, Field: spec.Name}))
		}
	}
	return p, iss
}

func (p *Properties) setStandard(fp PathRef, ctx Issue, name string, v any) (Issue, bool) {
	switch name {
	case PropPostAffiliated, PropPostBlank:
		n, ok := toInt(v)
		if !ok {
			return fp.Issue(CodeInvalidType, ctx), true
		}
		if name == PropPostAffiliated {
			p.PostAffiliated = n
		} else {
			p.PostBlank = n
		}
	case PropTrueLevel, PropPreBlank:
		var ptr *int
		switch x := v.(type) {
		case nil:
		case *int:
			if x != nil {
				n := *x
				ptr = &n
			}
		default:
			n, ok := toInt(v)
			if !ok {
				return fp.Issue(CodeInvalidType, ctx), true
			}
			ptr = &n
		}
		if name == PropTrueLevel {
			p.TrueLevel = ptr
		} else {
			p.PreBlank = ptr
		}
	case PropRawValue:
		switch x := v.(type) {
		case string:
			p.RawValue = &x
		case *string:
			if x != nil {
				s := *x
				p.RawValue = &s
			}
		default:
			return fp.Issue(CodeInvalidType, ctx), true
		}
	}
	return Issue{}, false
}

func coerceProp(fp PathRef, ctx Issue, spec PropSpec, v any) (any, Issues) {
	bad := func(code string) (any, Issues) { return nil, Issues{fp.Issue(code, ctx)} }
	switch spec.Type {
	case PropString:
		s, ok := v.(string)
		if !ok {
			return bad(CodeInvalidType)
		}
		if len(spec.Enum) > 0 && !contains(spec.Enum, s) {
			ctx.Hint = fmt.Sprintf("one of %v", spec.Enum)
			return bad(CodeInvalidEnum)
		}
		return s, nil
	case PropNullableString:
		switch x := v.(type) {
		case nil:
			return nil, nil
		case string:
			return x, nil
		case *string:
			if x == nil {
				return nil, nil
			}
			return *x, nil
		}
		return bad(CodeInvalidType)
	case PropInt:
		n, ok := toInt(v)
		if !ok {
			return bad(CodeInvalidType)
		}
		return n, nil
	case PropBool:
		b, ok := v.(bool)
		if !ok {
			return bad(CodeInvalidType)
		}
		return b, nil
	case PropStrings:
		ss, ok := toStrings(v)
		if !ok {
			return bad(CodeInvalidType)
		}
		return ss, nil
	case PropObjects:
		cs, ok := toChildren(v)
		if !ok {
			return bad(CodeInvalidType)
		}
		return cs, nil
	case PropMark:
		return coerceMark(fp, ctx, v)
	}
	return bad(CodeInvalidType)
}

func coerceMark(fp PathRef, ctx Issue, v any) (any, Issues) {
	var m TimestampMark
	switch x := v.(type) {
	case TimestampMark:
		m = x
	case *TimestampMark:
		if x == nil {
			return nil, Issues{fp.Issue(CodeMalformedTimestamp, ctx)}
		}
		m = *x
	case map[string]any:
		var iss Issues
		for _, k := range []string{"type", "value", "unit"} {
			if _, ok := x[k]; !ok {
				c := ctx
				c.Hint = "missing " + k
				iss = append(iss, fp.Field(k).Issue(CodeMalformedTimestamp, c))
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		t, okT := x["type"].(string)
		n, okV := toInt(x["value"])
		u, okU := x["unit"].(string)
		if !okT || !okV || !okU {
			return nil, Issues{fp.Issue(CodeMalformedTimestamp, ctx)}
		}
		m = TimestampMark{Type: t, Value: n, Unit: u}
	default:
		return nil, Issues{fp.Issue(CodeInvalidType, ctx)}
	}
	if err := m.Validate(ctx.Field); err != nil {
		return nil, markIssues(fp, ctx, err)
	}
	return m, nil
}

func markIssues(fp PathRef, ctx Issue, err error) Issues {
	errs, ok := err.(validation.Errors)
	if !ok {
		c := ctx
		c.Cause = err
		return Issues{fp.Issue(CodeMalformedTimestamp, c)}
	}
	var iss Issues
	for _, k := range sortedKeys(errs) {
		c := ctx
		c.Hint = k + ": " + errs[k].Error()
		c.Cause = errs[k]
		iss = append(iss, fp.Field(k).Issue(CodeMalformedTimestamp, c))
	}
	return iss
}

// Has reports whether the named field is present. Bookkeeping fields
// postAffiliated, postBlank and trueLevel are always present.
func (p Properties) Has(name string) bool {
	switch name {
	case PropPostAffiliated, PropPostBlank, PropTrueLevel:
		return true
	case PropPreBlank:
		return p.PreBlank != nil
	case PropRawValue:
		return p.RawValue != nil
	}
	_, ok := p.fields[name]
	return ok
}

// Get returns the named field. Slices are copied.
func (p Properties) Get(name string) (any, bool) {
	switch name {
	case PropPostAffiliated:
		return p.PostAffiliated, true
	case PropPostBlank:
		return p.PostBlank, true
	case PropTrueLevel:
		if p.TrueLevel == nil {
			return nil, true
		}
		return *p.TrueLevel, true
	case PropPreBlank:
		if p.PreBlank == nil {
			return nil, false
		}
		return *p.PreBlank, true
	case PropRawValue:
		if p.RawValue == nil {
			return nil, false
		}
		return *p.RawValue, true
	}
	v, ok := p.fields[name]
	if !ok {
		return nil, false
	}
	return copyValue(v), true
}

// String returns a string field, or "" when absent, null or not a string.
func (p Properties) String(name string) string {
	v, _ := p.Get(name)
	s, _ := v.(string)
	return s
}

// Int returns an int field.
func (p Properties) Int(name string) (int, bool) {
	v, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	return toInt(v)
}

// Bool returns a bool field, false when absent.
func (p Properties) Bool(name string) bool {
	v, _ := p.Get(name)
	b, _ := v.(bool)
	return b
}

// Strings returns a []string field.
func (p Properties) Strings(name string) []string {
	v, _ := p.Get(name)
	ss, _ := v.([]string)
	return ss
}

// Objects returns a node-valued property such as a headline title.
func (p Properties) Objects(name string) []Child {
	v, _ := p.Get(name)
	cs, _ := v.([]Child)
	return cs
}

// Mark returns a timestamp repeater or warning.
func (p Properties) Mark(name string) (TimestampMark, bool) {
	v, ok := p.fields[name]
	if !ok {
		return TimestampMark{}, false
	}
	m, ok := v.(TimestampMark)
	return m, ok
}

// Names lists the non-bookkeeping field names in sorted order.
func (p Properties) Names() []string { return sortedKeys(p.fields) }

// Fields returns the bag as a Fields map suitable for MakeNode, so a node
// can be rebuilt with edited properties.
func (p Properties) Fields() Fields {
	f := make(Fields, len(p.fields)+5)
	for k, v := range p.fields {
		f[k] = copyValue(v)
	}
	f[PropPostAffiliated] = p.PostAffiliated
	f[PropPostBlank] = p.PostBlank
	if p.TrueLevel != nil {
		f[PropTrueLevel] = *p.TrueLevel
	} else {
		f[PropTrueLevel] = nil
	}
	if p.PreBlank != nil {
		f[PropPreBlank] = *p.PreBlank
	}
	if p.RawValue != nil {
		f[PropRawValue] = *p.RawValue
	}
	return f
}

// MergeFields overlays overlay onto base and returns a new map; keys present
// in overlay win, including explicit nils.
func MergeFields(base, overlay Fields) Fields {
	out := make(Fields, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func (p Properties) clone() Properties {
	c := p
	if p.TrueLevel != nil {
		n := *p.TrueLevel
		c.TrueLevel = &n
	}
	if p.PreBlank != nil {
		n := *p.PreBlank
		c.PreBlank = &n
	}
	if p.RawValue != nil {
		s := *p.RawValue
		c.RawValue = &s
	}
	c.fields = make(map[string]any, len(p.fields))
	for k, v := range p.fields {
		c.fields[k] = copyValue(v)
	}
	return c
}

func copyValue(v any) any {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []Child:
		return append([]Child(nil), x...)
	case []any:
		return append([]any(nil), x...)
	}
	return v
}

// ---- coercion helpers ----

type int64er interface{ Int64() (int64, error) }

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case int64er: // json.Number
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...), true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case nil:
		return []string{}, true
	}
	return nil, false
}

func toChildren(v any) ([]Child, bool) {
	switch x := v.(type) {
	case []Child:
		return append([]Child(nil), x...), true
	case []*Node:
		out := make([]Child, len(x))
		for i, n := range x {
			out[i] = n
		}
		return out, true
	case Text:
		return []Child{x}, true
	case string:
		return []Child{Text(x)}, true
	case []any:
		out := make([]Child, 0, len(x))
		for _, e := range x {
			switch c := e.(type) {
			case Child:
				out = append(out, c)
			case string:
				out = append(out, Text(c))
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func contains(vals []string, s string) bool {
	for _, v := range vals {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
