package orgmodel

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// RefAllocator hands out reference identifiers. Implementations must be safe
// for concurrent use.
type RefAllocator interface {
	NextRef() string
}

// CounterRefs returns an allocator producing prefix1, prefix2, ... from an
// atomic counter.
func CounterRefs(prefix string) RefAllocator { return &counterRefs{prefix: prefix} }

type counterRefs struct {
	prefix string
	n      atomic.Uint64
}

func (c *counterRefs) NextRef() string {
	return c.prefix + strconv.FormatUint(c.n.Add(1), 10)
}

// UUIDRefs returns an allocator producing random (v4) UUIDs, for refs that
// must stay unique across documents.
func UUIDRefs() RefAllocator { return uuidRefs{} }

type uuidRefs struct{}

func (uuidRefs) NextRef() string { return uuid.NewString() }

// process-wide allocator used by the package-level MakeNode.
var defaultRefs = CounterRefs("n")
