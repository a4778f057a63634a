package orgmodel_test

import (
	"testing"

	orgmodel "github.com/reoring/orgmodel"
)

// minimalFields returns the smallest field set that satisfies the shape of
// kind: every required property with a placeholder value and every required
// slot with a timestamp.
func minimalFields(t *testing.T, b *orgmodel.Builder, kind orgmodel.Kind) orgmodel.Fields {
	t.Helper()
	shape := orgmodel.MustShape(kind)
	f := orgmodel.Fields{}
	for _, p := range shape.Props {
		if !p.Required {
			continue
		}
		switch p.Type {
		case orgmodel.PropString:
			if len(p.Enum) > 0 {
				f[p.Name] = p.Enum[0]
			} else {
				f[p.Name] = "x"
			}
		case orgmodel.PropInt:
			f[p.Name] = 1
		case orgmodel.PropObjects:
			f[p.Name] = []orgmodel.Child{}
		default:
			t.Fatalf("no placeholder for required %s.%s (%s)", kind, p.Name, p.Type)
		}
	}
	for _, sl := range shape.Slots {
		if sl.Required {
			f[sl.Name] = mustNode(t, b, orgmodel.KindTimestamp, nil)
		}
	}
	return f
}

// mustNode builds a valid leaf of kind, optionally with children.
func mustNode(t *testing.T, b *orgmodel.Builder, kind orgmodel.Kind, children []orgmodel.Child) *orgmodel.Node {
	t.Helper()
	n, err := b.MakeNode(kind, minimalFields(t, b, kind), children)
	if err != nil {
		t.Fatalf("make %s: %v", kind, err)
	}
	return n
}

func text(s string) []orgmodel.Child { return []orgmodel.Child{orgmodel.Text(s)} }

func issueCodes(err error) []string {
	iss, _ := orgmodel.AsIssues(err)
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code)
	}
	return out
}
