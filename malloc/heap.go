package malloc

import (
	"github.com/joshuapare/memkit/internal/format"
)

// Heap owns all allocator state: the arena list, the block registry spanning
// those arenas, and the running byte totals. There is deliberately no
// package-level heap; independent Heap instances can coexist in one process,
// which also keeps the single-threaded assumption explicit and testable.
type Heap struct {
	provider PageProvider

	// arenas is the arena list, most recently created first.
	arenas *format.Arena

	// head/tail delimit the global block registry. Within an arena the
	// registry follows memory layout order; arenas append registry entries
	// in creation order.
	head *format.Block
	tail *format.Block

	// heapBytes is the sum of all arena sizes ever reserved. It only grows.
	heapBytes int

	// freeEstimate tracks free payload bytes incrementally on every
	// split/merge/alloc/free. FreeBytes() does not trust it: the public
	// value is always recomputed by scanning the registry. The estimate is
	// kept for Stats() and cross-checked by Check().
	freeEstimate int

	// stats carries the operation counters; the aggregate fields are filled
	// in by Stats() at snapshot time.
	stats Stats
}

// Option configures a Heap at construction time.
type Option func(*Heap)

// WithProvider replaces the default operating-system page provider. Tests
// use this to simulate reservation failure.
func WithProvider(p PageProvider) Option {
	return func(h *Heap) {
		h.provider = p
	}
}

// New creates an empty heap. No memory is reserved until the first Alloc.
func New(opts ...Option) *Heap {
	h := &Heap{
		provider: defaultProvider(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
