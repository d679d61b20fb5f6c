package malloc

import (
	"github.com/joshuapare/memkit/internal/format"
)

// Free marks the block owning p free and merges it with free physical
// neighbors. A nil payload, a payload not obtained from this heap, and an
// already-free block are all no-ops.
func (h *Heap) Free(p []byte) {
	h.stats.FreeCalls++
	if len(p) == 0 {
		return
	}
	b := format.HeaderOf(p)
	if !h.owns(b) || b.IsFree() {
		return
	}
	b.State = format.BlockFree
	h.freeEstimate += int(b.Size)
	h.coalesce(b)
}

// owns reports whether b's header lies inside one of the heap's arenas.
// Rejecting foreign pointers here turns the classic invalid-free corruption
// into a no-op.
func (h *Heap) owns(b *format.Block) bool {
	for a := h.arenas; a != nil; a = a.Next {
		if a.Contains(b) {
			return true
		}
	}
	return false
}

// coalesce merges b with its next and prev registry neighbors when they are
// free AND physically contiguous, returning the block of record (ownership
// shifts leftward on a prev merge). Registry adjacency alone is not enough:
// the last block of one arena and the first block of the next are registry
// neighbors with unrelated addresses, and merging across that boundary would
// fabricate a span over unreserved memory.
//
// One merge per direction suffices; a longer free run would already have
// been merged when its interior blocks were freed.
func (h *Heap) coalesce(b *format.Block) *format.Block {
	if n := b.Next; n != nil && n.IsFree() && format.Adjacent(b, n) {
		h.stats.MergeNext++
		b.Size += uintptr(format.BlockHeaderSize) + n.Size
		b.Next = n.Next
		if b.Next != nil {
			b.Next.Prev = b
		} else {
			h.tail = b
		}
		// The absorbed payload was already counted free; only the
		// eliminated header is newly reclaimed.
		h.freeEstimate += format.BlockHeaderSize
	}
	if p := b.Prev; p != nil && p.IsFree() && format.Adjacent(p, b) {
		h.stats.MergePrev++
		p.Size += uintptr(format.BlockHeaderSize) + b.Size
		p.Next = b.Next
		if p.Next != nil {
			p.Next.Prev = p
		} else {
			h.tail = p
		}
		h.freeEstimate += format.BlockHeaderSize
		b = p
	}
	return b
}
