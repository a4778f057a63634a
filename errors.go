package orgmodel

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnknownKind        = "unknown_kind"
	CodeRequired           = "required"
	CodeContentClass       = "content_class"
	CodeSelfNesting        = "self_nesting"
	CodeDuplicateRef       = "duplicate_ref"
	CodeMalformedTimestamp = "malformed_timestamp"
	CodeInvalidType        = "invalid_type"
	CodeInvalidEnum        = "invalid_enum"
	CodeInvalidFormat      = "invalid_format"
	CodeParseError         = "parse_error"
	// Raised by the legacy adapter only, always as a panic.
	CodeUnmappedLegacyKind = "unmapped_legacy_kind"
)

// Issue represents a single construction failure.
type Issue struct {
	Path    string // JSON Pointer relative to the value being built (for example: /contents/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected values, etc.
	Cause   error  // Optional: underlying error.

	Kind  Kind   // Kind of the node (or parent) being constructed.
	Field string // Field name: "contents", a property name or a slot name.
	Child Kind   // Kind of the rejected child, empty for raw text or when not applicable.
	Class Class  // Content class the child was tested against.
	Ref   string // Offending ref for duplicate_ref.
}

func (it Issue) describe(b *strings.Builder) {
	// e.g. content_class at /contents/0 (kind=bold field=contents child=paragraph class=text-markup)
	fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	var ctx []string
	if it.Kind != "" {
		ctx = append(ctx, "kind="+string(it.Kind))
	}
	if it.Field != "" {
		ctx = append(ctx, "field="+it.Field)
	}
	if it.Child != "" {
		ctx = append(ctx, "child="+string(it.Child))
	}
	if it.Class != "" {
		ctx = append(ctx, "class="+string(it.Class))
	}
	if it.Ref != "" {
		ctx = append(ctx, "ref="+it.Ref)
	}
	if len(ctx) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ctx, " "))
		b.WriteString(")")
	}
}

// Issues is a collection of construction errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		iss[i].describe(b)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// FirstIssue returns the first issue carried by err.
func FirstIssue(err error) (Issue, bool) {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return Issue{}, false
	}
	return iss[0], true
}

// prefixIssues rebases issue paths under prefix, used when a nested value
// (a document's contents, a decoded subtree) reports relative to itself.
func prefixIssues(prefix string, iss Issues) Issues {
	out := make(Issues, len(iss))
	if prefix == "/" {
		prefix = ""
	}
	for i, it := range iss {
		if prefix == "" {
			out[i] = it
			continue
		}
		if it.Path == "/" || it.Path == "" {
			it.Path = prefix
		} else {
			it.Path = prefix + it.Path
		}
		out[i] = it
	}
	return out
}

// PrefixIssues rebases every issue carried by err under the JSON Pointer
// prefix. Errors that carry no Issues are returned unchanged.
func PrefixIssues(prefix string, err error) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	return prefixIssues(prefix, iss)
}
