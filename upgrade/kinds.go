package upgrade

import (
	"fmt"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/legacy"
)

// kindMap maps every legacy kind tag to its current kind. The two
// generations share tag names; keyword is new and has no legacy source.
var kindMap = func() map[string]orgmodel.Kind {
	m := make(map[string]orgmodel.Kind)
	for _, k := range legacy.Kinds() {
		m[k] = orgmodel.Kind(k)
	}
	return m
}()

// KindMap returns a copy of the legacy-to-current kind mapping.
func KindMap() map[string]orgmodel.Kind {
	out := make(map[string]orgmodel.Kind, len(kindMap))
	for k, v := range kindMap {
		out[k] = v
	}
	return out
}

// UnmappedKindError reports a legacy kind the adapter has no mapping for.
// It signals an incomplete adapter, not bad input, and is raised with panic.
type UnmappedKindError struct {
	Kind string
}

func (e *UnmappedKindError) Error() string {
	return fmt.Sprintf("upgrade: legacy kind %q has no current counterpart (%s)", e.Kind, orgmodel.CodeUnmappedLegacyKind)
}

// mapKind resolves the current kind for a legacy tag. It panics with
// *UnmappedKindError when the mapping table or the catalog has no entry.
func mapKind(t string) orgmodel.Kind {
	k, ok := kindMap[t]
	if !ok || !k.Known() {
		panic(&UnmappedKindError{Kind: t})
	}
	return k
}
