package orgmodel

import (
	js "github.com/reoring/orgmodel/jsonschema"
)

const jsonSchemaDraft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema projects the catalog and its content classes onto a JSON Schema
// describing the current wire shape (see package codec): one definition per
// kind ("node.<kind>"), one per content class ("class.<class>"), and the
// document as the root. Self-nesting and ref uniqueness cannot be expressed
// and are left to MakeNode and MakeDocument.
func JSONSchema() *js.Schema {
	defs := map[string]*js.Schema{}
	for _, k := range Kinds() {
		defs["node."+string(k)] = nodeSchema(MustShape(k))
	}
	for _, c := range Classes() {
		defs["class."+string(c)] = classSchema(c)
	}
	defs["mark"] = &js.Schema{
		Type:                 "object",
		Properties:           map[string]*js.Schema{"type": js.Of("string"), "value": js.Of("integer"), "unit": {Enum: enumOf([]string{"h", "d", "w", "m", "y"})}},
		Required:             []string{"type", "value", "unit"},
		AdditionalProperties: false,
	}
	strArray := js.ArrayOf(js.Of("string"))
	return &js.Schema{
		Schema: jsonSchemaDraft,
		Title:  "org-document",
		Type:   "object",
		Properties: map[string]*js.Schema{
			"dataType": {Const: "org-document"},
			"properties": {
				Type: "object",
				Properties: map[string]*js.Schema{
					"title": strArray, "filetags": strArray, "author": strArray,
					"creator": js.Of("string"), "date": strArray, "description": strArray,
					"email": js.Of("string"), "language": js.Of("string"),
				},
				Required: []string{"title", "filetags", "author", "creator", "date", "description"},
			},
			FieldContents: js.ArrayOf(js.RefTo("class." + string(ClassSection))),
		},
		Required: []string{"dataType", "properties", FieldContents},
		Defs:     defs,
	}
}

func nodeSchema(s Shape) *js.Schema {
	props := map[string]*js.Schema{
		PropPostAffiliated: js.Of("integer"),
		PropPostBlank:      js.Of("integer"),
		PropTrueLevel:      {Type: []string{"integer", "null"}},
		PropPreBlank:       js.Of("integer"),
		PropRawValue:       js.Of("string"),
	}
	var required []string
	for _, p := range s.Props {
		props[p.Name] = propSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	fields := map[string]*js.Schema{
		"dataType":   {Const: "org-node"},
		"type":       {Const: string(s.Kind)},
		"ref":        js.Of("string"),
		"properties": {Type: "object", Properties: props, Required: required},
	}
	top := []string{"dataType", "type", "ref", "properties"}
	if s.HasContents() {
		fields[FieldContents] = js.ArrayOf(js.RefTo("class." + string(s.Contents)))
	} else {
		zero := 0
		fields[FieldContents] = &js.Schema{Type: "array", MaxItems: &zero}
	}
	for _, sl := range s.Slots {
		fields[sl.Name] = js.RefTo("class." + string(sl.Class))
		if sl.Required {
			top = append(top, sl.Name)
		}
	}
	desc := "object"
	if s.Element {
		desc = "element"
	}
	return &js.Schema{Type: "object", Description: desc, Properties: fields, Required: top}
}

func propSchema(p PropSpec) *js.Schema {
	switch p.Type {
	case PropNullableString:
		return &js.Schema{Type: []string{"string", "null"}}
	case PropInt:
		return js.Of("integer")
	case PropBool:
		return js.Of("boolean")
	case PropStrings:
		return js.ArrayOf(js.Of("string"))
	case PropObjects:
		return js.ArrayOf(js.RefTo("class." + string(p.Class)))
	case PropMark:
		return js.RefTo("mark")
	}
	if len(p.Enum) > 0 {
		return &js.Schema{Type: "string", Enum: enumOf(p.Enum)}
	}
	return js.Of("string")
}

func classSchema(c Class) *js.Schema {
	var alts []*js.Schema
	if c.AdmitsText() {
		alts = append(alts, js.Of("string"))
	}
	for _, k := range c.Members() {
		alts = append(alts, js.RefTo("node."+string(k)))
	}
	return &js.Schema{Description: "content class " + string(c), OneOf: alts}
}

func enumOf(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
