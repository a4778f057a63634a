package orgmodel

import (
	"strconv"
	"strings"

	"github.com/reoring/orgmodel/i18n"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code string, ctx Issue) Issue
}

// Root returns the PathRef for the value being built.
func Root() PathRef { return &pathRef{parts: nil} }

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue stamps code, path and a translated message onto ctx, which carries
// the structural context (kind, field, child, class).
func (p *pathRef) Issue(code string, ctx Issue) Issue {
	ctx.Path = p.Pointer()
	ctx.Code = code
	if ctx.Message == "" {
		ctx.Message = i18n.T(code, issueData(ctx))
	}
	return ctx
}

func issueData(it Issue) map[string]string {
	m := map[string]string{}
	if it.Kind != "" {
		m["kind"] = string(it.Kind)
	}
	if it.Field != "" {
		m["field"] = it.Field
	}
	if it.Child != "" {
		m["child"] = string(it.Child)
	}
	if it.Class != "" {
		m["class"] = string(it.Class)
	}
	if it.Ref != "" {
		m["ref"] = it.Ref
	}
	return m
}
