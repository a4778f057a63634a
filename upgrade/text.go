package upgrade

import (
	"log/slog"
	"regexp"
	"strings"

	orgmodel "github.com/reoring/orgmodel"
)

var (
	keywordLine  = regexp.MustCompile(`^#\+([^:\s]+):\s*(.*?)\s*$`)
	propertyLine = regexp.MustCompile(`^:([^:\s]+):(?:\s+(.*?))?\s*$`)

	keywordAnywhere = regexp.MustCompile(`(?m)^\s*#\+[^:\s]+:`)
)

// drawer delimiters carried as loose text by legacy drawers
func isDelimiter(line string) bool {
	switch strings.ToUpper(line) {
	case ":END:", ":PROPERTIES:":
		return true
	}
	return false
}

// legacyText reports whether s, loose in the contents of kind, still holds
// lines the upgrade rewrites into nodes: drawer property lines and
// delimiters, or keyword lines in element positions. Upgraded trees never
// carry such text.
func legacyText(kind orgmodel.Kind, s string) bool {
	if kind == orgmodel.KindDrawer || kind == orgmodel.KindPropertyDrawer {
		for _, line := range strings.Split(s, "\n") {
			trimmed := strings.TrimSpace(line)
			if isDelimiter(trimmed) || propertyLine.MatchString(trimmed) {
				return true
			}
		}
		return kind == orgmodel.KindDrawer && keywordAnywhere.MatchString(s)
	}
	switch orgmodel.ClassFor(kind, orgmodel.FieldContents) {
	case orgmodel.ClassSection, orgmodel.ClassFootnoteDefinition:
		return keywordAnywhere.MatchString(s)
	}
	return false
}

// sectionText rewrites loose text found in an element position: keyword
// lines become keyword nodes, the lines between them stay text.
func (p *pass) sectionText(at orgmodel.PathRef, s string) ([]orgmodel.Child, error) {
	if !keywordAnywhere.MatchString(s) {
		return []orgmodel.Child{orgmodel.Text(s)}, nil
	}
	var out []orgmodel.Child
	var run []string
	flush := func() {
		if text := strings.Join(run, "\n"); strings.TrimSpace(text) != "" {
			out = append(out, orgmodel.Text(text))
		}
		run = nil
	}
	for _, line := range strings.Split(s, "\n") {
		m := keywordLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			run = append(run, line)
			continue
		}
		flush()
		kw, err := p.b.MakeNode(orgmodel.KindKeyword, orgmodel.Fields{"key": m[1], "value": m[2]}, nil)
		if err != nil {
			return nil, orgmodel.PrefixIssues(at.Pointer(), err)
		}
		p.u.log.Debug("synthesized keyword", slog.String("path", at.Pointer()), slog.String("key", m[1]), slog.String("ref", kw.Ref()))
		out = append(out, kw)
	}
	flush()
	return out, nil
}

// drawerText splits ":KEY: value" lines of a drawer's loose text into
// node-property children. The remaining lines are kept as text; in a
// plain drawer they also go through sectionText.
func (p *pass) drawerText(at orgmodel.PathRef, class orgmodel.Class, s string) ([]orgmodel.Child, error) {
	var out []orgmodel.Child
	var rest []string
	flush := func() error {
		if len(rest) == 0 {
			return nil
		}
		text := strings.Join(rest, "\n")
		rest = nil
		if class != orgmodel.ClassSection {
			if strings.TrimSpace(text) != "" {
				out = append(out, orgmodel.Text(text))
			}
			return nil
		}
		cs, err := p.sectionText(at, text)
		if err != nil {
			return err
		}
		out = append(out, cs...)
		return nil
	}
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if isDelimiter(trimmed) {
			continue
		}
		m := propertyLine.FindStringSubmatch(trimmed)
		if m == nil {
			rest = append(rest, line)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		prop, err := p.b.MakeNode(orgmodel.KindNodeProperty, orgmodel.Fields{"key": m[1], "value": m[2]}, nil)
		if err != nil {
			return nil, orgmodel.PrefixIssues(at.Pointer(), err)
		}
		p.u.log.Debug("split drawer line", slog.String("path", at.Pointer()), slog.String("key", m[1]), slog.String("ref", prop.Ref()))
		out = append(out, prop)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
