package orgmodel

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentProperties is the document-level metadata collected from keyword
// lines. Every sequence may be empty.
type DocumentProperties struct {
	Title       []string `json:"title"`
	Filetags    []string `json:"filetags"`
	Author      []string `json:"author"`
	Creator     string   `json:"creator"`
	Date        []string `json:"date"`
	Description []string `json:"description"`
	Email       string   `json:"email"`
	Language    string   `json:"language"`
}

var (
	filetagRe  = regexp.MustCompile(`^[^\s:]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
	languageRe = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)
)

// ValidateFormats checks the scalar and tag fields against the usual Org
// conventions: filetags are non-empty words, email is an address and
// language is a tag such as "en" or "pt-BR". Metadata is free-form text, so
// MakeDocument only runs these checks for a Builder created with
// WithStrictProperties.
func (p DocumentProperties) ValidateFormats() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filetags, validation.Each(validation.Required, validation.Match(filetagRe))),
		validation.Field(&p.Email, validation.Match(emailRe)),
		validation.Field(&p.Language, validation.Match(languageRe)),
	)
}

func (p DocumentProperties) clone() DocumentProperties {
	c := p
	c.Title = cloneStrings(p.Title)
	c.Filetags = cloneStrings(p.Filetags)
	c.Author = cloneStrings(p.Author)
	c.Date = cloneStrings(p.Date)
	c.Description = cloneStrings(p.Description)
	return c
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return append([]string{}, ss...)
}

// Document is the root container: metadata plus the top-level element
// sequence. It is not a node and has no ref. A Document is immutable.
type Document struct {
	props    DocumentProperties
	contents []*Node
}

// Properties returns a copy of the document metadata; nil sequences are
// reported as empty.
func (d *Document) Properties() DocumentProperties { return d.props.clone() }

// Contents returns the top-level nodes.
func (d *Document) Contents() []*Node { return append([]*Node{}, d.contents...) }

// Walk visits every node of the document in document order; paths are
// rooted at /contents.
func (d *Document) Walk(fn Visitor) {
	at := Root().Field(FieldContents)
	for i, n := range d.contents {
		walk(at.Index(i), n, fn)
	}
}

// MakeDocument assembles a document from metadata and top-level contents
// built with the package-level MakeNode. See Builder.MakeDocument.
func MakeDocument(props DocumentProperties, contents []*Node) (*Document, error) {
	return std.MakeDocument(props, contents)
}

// MakeDocument validates contents against the section class (a document
// admits the same elements as a section) and checks that every ref in the
// tree is unique. Metadata formats are checked only in strict mode. The
// document owns its contents afterwards.
func (b *Builder) MakeDocument(props DocumentProperties, contents []*Node) (*Document, error) {
	var iss Issues
	at := Root().Field(FieldContents)
	for i, n := range contents {
		if it, ok := checkChild(at.Index(i), "", FieldContents, ClassSection, n); !ok {
			iss = append(iss, it)
		}
	}
	if b.strict {
		if err := props.ValidateFormats(); err != nil {
			iss = append(iss, documentPropIssues(err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if dups := duplicateRefs(contents); len(dups) > 0 {
		return nil, dups
	}
	if err := b.claimRoots(contents); err != nil {
		return nil, err
	}
	return &Document{props: props.clone(), contents: append([]*Node{}, contents...)}, nil
}

// duplicateRefs walks the whole tree and reports every ref seen twice, which
// also catches a node object linked into two places.
func duplicateRefs(contents []*Node) Issues {
	var iss Issues
	seen := map[string]string{}
	at := Root().Field(FieldContents)
	for i, n := range contents {
		walk(at.Index(i), n, func(path string, n *Node) bool {
			if first, dup := seen[n.ref]; dup {
				iss = append(iss, Issue{Path: path, Code: CodeDuplicateRef, Ref: n.ref, Child: n.kind,
					Message: Root().Issue(CodeDuplicateRef, Issue{Ref: n.ref}).Message, Hint: "first seen at " + first})
				return false
			}
			seen[n.ref] = path
			return true
		})
	}
	return iss
}

func documentPropIssues(err error) Issues {
	at := Root().Field("properties")
	errs, ok := err.(validation.Errors)
	if !ok {
		return Issues{at.Issue(CodeInvalidFormat, Issue{Cause: err})}
	}
	var iss Issues
	for _, k := range sortedKeys(errs) {
		iss = append(iss, at.Field(k).Issue(CodeInvalidFormat, Issue{Field: k, Hint: errs[k].Error(), Cause: errs[k]}))
	}
	return iss
}
