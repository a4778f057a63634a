// Package upgrade converts legacy Org trees (package legacy) into current
// orgmodel documents.
//
// The transform is a single depth-first pass: each legacy node's flat
// fields are moved into the properties bag, its children are upgraded, and
// the node is rebuilt through orgmodel's construction API so the result is
// validated against the current content model. Along the way:
//
// - timestamps get start/end strings and a rawValue from their numeric parts
// - ":KEY: value" lines inside drawers become node-property nodes
// - "#+KEY: value" lines in element positions become keyword nodes
// - legacy refs are kept; nodes without one get a fresh ref
//
// A legacy kind with no current counterpart is an adapter defect and panics
// with *UnmappedKindError.
package upgrade

import (
	"log/slog"
	"regexp"
	"strings"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/legacy"
)

// Upgrader holds the adapter configuration. It carries no per-document state
// and is safe for concurrent use unless WithBuilder shares a Builder.
type Upgrader struct {
	format  func(TimePoint) string
	builder *orgmodel.Builder
	refs    orgmodel.RefAllocator
	log     *slog.Logger
}

// Option configures an Upgrader.
type Option func(*Upgrader)

// WithTimestampFormat sets how timestamp start/end strings are rendered
// (default DefaultFormat). rawValue always uses Org syntax.
func WithTimestampFormat(fn func(TimePoint) string) Option {
	return func(u *Upgrader) {
		if fn != nil {
			u.format = fn
		}
	}
}

// WithBuilder makes every upgrade assemble through b instead of a fresh
// Builder per document. Refs must then be unique across all upgraded
// documents.
func WithBuilder(b *orgmodel.Builder) Option {
	return func(u *Upgrader) { u.builder = b }
}

// WithRefs sets the allocator used for legacy nodes without a ref.
func WithRefs(a orgmodel.RefAllocator) Option {
	return func(u *Upgrader) { u.refs = a }
}

// WithLogger sets the logger for debug records about synthesized nodes.
func WithLogger(l *slog.Logger) Option {
	return func(u *Upgrader) {
		if l != nil {
			u.log = l
		}
	}
}

// New returns an Upgrader.
func New(opts ...Option) *Upgrader {
	u := &Upgrader{
		format: DefaultFormat,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

var std = New()

// Document upgrades a legacy document with the default Upgrader.
func Document(doc *legacy.Document) (*orgmodel.Document, error) { return std.Document(doc) }

// Node upgrades a single legacy subtree with the default Upgrader.
func Node(n *legacy.Node) (*orgmodel.Node, error) { return std.Node(n) }

// MustUpgrade is Document that panics when the legacy tree violates the
// current content model.
func MustUpgrade(doc *legacy.Document) *orgmodel.Document {
	out, err := std.Document(doc)
	if err != nil {
		panic(err)
	}
	return out
}

// pass is one assembly pass: a builder shared by every node of one document.
type pass struct {
	u *Upgrader
	b *orgmodel.Builder
}

func (u *Upgrader) newPass() *pass {
	b := u.builder
	if b == nil {
		b = orgmodel.NewBuilder(orgmodel.WithRefs(u.refs))
	}
	return &pass{u: u, b: b}
}

// Document upgrades doc. Issue paths point into the legacy tree, e.g.
// /contents/0/contents/2/properties/title.
func (u *Upgrader) Document(doc *legacy.Document) (*orgmodel.Document, error) {
	if doc == nil {
		return nil, orgmodel.Issues{orgmodel.Root().Issue(orgmodel.CodeInvalidType, orgmodel.Issue{Hint: "nil document"})}
	}
	p := u.newPass()
	at := orgmodel.Root().Field(orgmodel.FieldContents)
	var iss orgmodel.Issues
	nodes := make([]*orgmodel.Node, 0, len(doc.Contents))
	for i, n := range doc.Contents {
		cn, err := p.node(at.Index(i), n)
		if err != nil {
			if more, ok := orgmodel.AsIssues(err); ok {
				iss = append(iss, more...)
				continue
			}
			return nil, err
		}
		nodes = append(nodes, cn)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	lp := doc.Properties
	props := orgmodel.DocumentProperties{
		Title:       lp.Title,
		Filetags:    lp.Filetags,
		Author:      lp.Author,
		Creator:     lp.Creator,
		Date:        lp.Date,
		Description: lp.Description,
		Email:       lp.Email,
		Language:    lp.Language,
	}
	u.log.Debug("upgraded document", slog.Int("nodes", len(nodes)))
	return p.b.MakeDocument(props, nodes)
}

// Node upgrades one legacy subtree in its own assembly pass.
func (u *Upgrader) Node(n *legacy.Node) (*orgmodel.Node, error) {
	return u.newPass().node(orgmodel.Root(), n)
}

func (p *pass) node(at orgmodel.PathRef, n *legacy.Node) (*orgmodel.Node, error) {
	if n == nil {
		return nil, orgmodel.Issues{at.Issue(orgmodel.CodeInvalidType, orgmodel.Issue{Hint: "nil node"})}
	}
	kind := mapKind(n.Type)
	shape := orgmodel.MustShape(kind)

	f := orgmodel.Fields{}
	for k, v := range n.Properties.Extra {
		f[k] = v
	}
	f[orgmodel.PropPostAffiliated] = n.Properties.PostAffiliated
	f[orgmodel.PropPostBlank] = n.Properties.PostBlank
	if n.Properties.TrueLevel != nil {
		f[orgmodel.PropTrueLevel] = *n.Properties.TrueLevel
	}

	if err := p.flatten(at, n, kind, f); err != nil {
		return nil, err
	}
	children, err := p.contents(at, n, kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case orgmodel.KindLink:
		f["type"] = linkType(n.Path, n.RawLink)
	case orgmodel.KindTableRow:
		f["type"] = rowType(children)
	case orgmodel.KindTimestamp:
		p.u.timestampFields(n, f)
	}

	// legacy fields the current shape requires always existed on the
	// legacy kind; an empty legacy value is carried as empty
	for _, spec := range shape.Props {
		if !spec.Required {
			continue
		}
		if _, ok := f[spec.Name]; ok {
			continue
		}
		switch {
		case spec.Type == orgmodel.PropString && len(spec.Enum) == 0:
			f[spec.Name] = ""
		case spec.Type == orgmodel.PropObjects:
			f[spec.Name] = []orgmodel.Child{}
		}
	}

	out, err := p.b.MakeNodeWithRef(n.Ref, kind, f, children)
	if err != nil {
		return nil, orgmodel.PrefixIssues(at.Pointer(), err)
	}
	if n.Ref == "" {
		p.u.log.Debug("allocated ref", slog.String("path", at.Pointer()), slog.String("kind", string(kind)), slog.String("ref", out.Ref()))
	}
	return out, nil
}

// flatten moves the legacy per-kind fields into f under their current
// names. Empty legacy strings and nil slices mean absent.
func (p *pass) flatten(at orgmodel.PathRef, n *legacy.Node, kind orgmodel.Kind, f orgmodel.Fields) error {
	bp := n.Properties
	for _, s := range []struct{ name, v string }{
		{"blockName", n.BlockName},
		{"language", n.Language},
		{"drawerName", n.DrawerName},
		{"key", n.Key},
		{"label", n.Label},
		{"todoKeyword", first(n.TodoKeyword, bp.TodoKeyword)},
		{"priority", first(n.Priority, bp.Priority)},
		{"duration", n.Duration},
		{"listType", n.ListType},
		{"bullet", n.Bullet},
		{"counter", n.Counter},
		{"checkbox", n.Checkbox},
		{"name", n.Name},
		{"html", n.HTML},
		{"latex", n.LaTeX},
		{"ascii", n.ASCII},
		{"unicode", n.Unicode},
		{"backend", n.Backend},
		{"prefix", n.Prefix},
		{"suffix", n.Suffix},
		{"path", n.Path},
		{"format", n.Format},
		{"rawLink", n.RawLink},
	} {
		if s.v != "" {
			f[s.name] = s.v
		}
	}
	for _, s := range []struct {
		name string
		v    []string
	}{
		{"parameters", n.Parameters},
		{"tblfm", n.Tblfm},
		{"tags", firstStrings(n.Tags, bp.Tags)},
		{"arguments", n.Arguments},
	} {
		if s.v != nil {
			f[s.name] = append([]string{}, s.v...)
		}
	}
	if n.Value != nil {
		f["value"] = *n.Value
	}
	if bp.Level != nil {
		f["level"] = *bp.Level
	}
	if bp.Commentedp != nil {
		f["commentedp"] = *bp.Commentedp
	}

	props := at.Field("properties")
	title := n.Title
	if title == nil {
		title = bp.Title
	}
	if title != nil {
		cs, err := p.objects(props.Field("title"), title)
		if err != nil {
			return err
		}
		f["title"] = cs
	}
	if n.Tag != nil {
		cs, err := p.objects(props.Field("tag"), n.Tag)
		if err != nil {
			return err
		}
		f["tag"] = cs
	}

	for _, s := range []struct {
		name string
		v    *legacy.Node
	}{
		{"timestamp", n.Timestamp},
		{"deadline", n.Deadline},
		{"scheduled", n.Scheduled},
		{"closed", n.Closed},
	} {
		if s.v == nil {
			continue
		}
		sn, err := p.node(at.Field(s.name), s.v)
		if err != nil {
			return err
		}
		f[s.name] = sn
	}
	return nil
}

// objects upgrades a node-valued property; text stays text.
func (p *pass) objects(at orgmodel.PathRef, cs []legacy.Child) ([]orgmodel.Child, error) {
	out := make([]orgmodel.Child, 0, len(cs))
	for i, c := range cs {
		switch x := c.(type) {
		case legacy.Text:
			out = append(out, orgmodel.Text(x))
		case *legacy.Node:
			n, err := p.node(at.Index(i), x)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// contents upgrades the children of n. Link descriptions and inline
// footnote definitions lead the current contents sequence.
func (p *pass) contents(at orgmodel.PathRef, n *legacy.Node, kind orgmodel.Kind) ([]orgmodel.Child, error) {
	src := n.Contents
	switch kind {
	case orgmodel.KindLink:
		src = append(append([]legacy.Child{}, n.Description...), n.Contents...)
	case orgmodel.KindFootnoteReference:
		src = append(append([]legacy.Child{}, n.Definition...), n.Contents...)
	}
	class := orgmodel.ClassFor(kind, orgmodel.FieldContents)
	ca := at.Field(orgmodel.FieldContents)
	var out []orgmodel.Child
	for i, c := range src {
		switch x := c.(type) {
		case legacy.Text:
			switch {
			case kind == orgmodel.KindDrawer || kind == orgmodel.KindPropertyDrawer:
				cs, err := p.drawerText(ca.Index(i), class, string(x))
				if err != nil {
					return nil, err
				}
				out = append(out, cs...)
			case class == orgmodel.ClassSection || class == orgmodel.ClassFootnoteDefinition:
				cs, err := p.sectionText(ca.Index(i), string(x))
				if err != nil {
					return nil, err
				}
				out = append(out, cs...)
			default:
				out = append(out, orgmodel.Text(x))
			}
		case *legacy.Node:
			cn, err := p.node(ca.Index(i), x)
			if err != nil {
				return nil, err
			}
			out = append(out, cn)
		}
	}
	return out, nil
}

var scheme = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]*):`)

// linkType derives the current link type from a legacy path and raw link.
func linkType(path, raw string) string {
	for _, s := range []string{path, strings.TrimPrefix(raw, "[[")} {
		if m := scheme.FindStringSubmatch(s); m != nil {
			return strings.ToLower(m[1])
		}
	}
	switch {
	case strings.HasPrefix(path, "#"):
		return "custom-id"
	case strings.HasPrefix(path, "(") && strings.HasSuffix(path, ")"):
		return "coderef"
	case strings.HasPrefix(path, "/"), strings.HasPrefix(path, "./"),
		strings.HasPrefix(path, "../"), strings.HasPrefix(path, "~"):
		return "file"
	}
	return "fuzzy"
}

// rowType is "rule" for a row without cells.
func rowType(children []orgmodel.Child) string {
	if len(orgmodel.Nodes(children)) == 0 {
		return "rule"
	}
	return "standard"
}

func first(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstStrings(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}
