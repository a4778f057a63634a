package codec

import (
	json "github.com/goccy/go-json"

	orgmodel "github.com/reoring/orgmodel"
)

// EncodeJSON renders doc in the current wire shape. Object keys are sorted.
func EncodeJSON(doc *orgmodel.Document) ([]byte, error) {
	return json.Marshal(DocumentValue(doc))
}

// EncodeNodeJSON renders one subtree in the current wire shape.
func EncodeNodeJSON(n *orgmodel.Node) ([]byte, error) {
	return json.Marshal(NodeValue(n))
}

// DocumentValue returns the generic (map/slice) form of doc.
func DocumentValue(doc *orgmodel.Document) map[string]any {
	p := doc.Properties()
	contents := make([]any, 0)
	for _, n := range doc.Contents() {
		contents = append(contents, NodeValue(n))
	}
	return map[string]any{
		"dataType": "org-document",
		"properties": map[string]any{
			"title":       p.Title,
			"filetags":    p.Filetags,
			"author":      p.Author,
			"creator":     p.Creator,
			"date":        p.Date,
			"description": p.Description,
			"email":       p.Email,
			"language":    p.Language,
		},
		orgmodel.FieldContents: contents,
	}
}

// NodeValue returns the generic (map/slice) form of n.
func NodeValue(n *orgmodel.Node) map[string]any {
	props := map[string]any{}
	for k, v := range n.Properties().Fields() {
		props[k] = propValue(v)
	}
	out := map[string]any{
		"dataType":             "org-node",
		"type":                 string(n.Kind()),
		"ref":                  n.Ref(),
		"properties":           props,
		orgmodel.FieldContents: childrenValue(n.Children()),
	}
	for _, sl := range n.Shape().Slots {
		if s := n.Slot(sl.Name); s != nil {
			out[sl.Name] = NodeValue(s)
		}
	}
	return out
}

func childrenValue(cs []orgmodel.Child) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		switch x := c.(type) {
		case orgmodel.Text:
			out = append(out, string(x))
		case *orgmodel.Node:
			out = append(out, NodeValue(x))
		}
	}
	return out
}

func propValue(v any) any {
	switch x := v.(type) {
	case []orgmodel.Child:
		return childrenValue(x)
	case orgmodel.TimestampMark:
		return map[string]any{"type": x.Type, "value": x.Value, "unit": x.Unit}
	case *orgmodel.Node:
		return NodeValue(x)
	}
	return v
}
