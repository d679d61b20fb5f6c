package malloc

import (
	"github.com/joshuapare/memkit/internal/format"
)

// Realloc resizes the block owning p to at least size usable bytes.
//
// A nil payload behaves as Alloc(size); size <= 0 behaves as Free(p) and
// returns nil. Otherwise the block is shrunk in place, grown in place by
// absorbing a free physically adjacent right neighbor, or reallocated with a
// copy as a last resort. On every successful path the first
// min(old payload, size) bytes are preserved; on the copy path Realloc
// returns nil only if the fallback allocation fails, leaving the old block
// intact. Payloads not obtained from this heap yield nil.
func (h *Heap) Realloc(p []byte, size int) []byte {
	h.stats.ReallocCalls++
	if len(p) == 0 {
		return h.Alloc(size)
	}
	if size <= 0 {
		h.Free(p)
		return nil
	}
	size = format.Align8(size)

	b := format.HeaderOf(p)
	if !h.owns(b) || b.IsFree() {
		return nil
	}
	old := int(b.Size)

	// Shrink in place. The shed remainder may border an existing free
	// block, so it is coalesced forward immediately.
	if old >= size {
		if old >= size+format.BlockHeaderSize+format.Alignment {
			h.stats.InPlaceShrinks++
			h.split(b, size)
			h.coalesce(b.Next)
		}
		return b.Payload()
	}

	// Grow in place by absorbing the right neighbor when it is free,
	// physically contiguous, and large enough. This is the path that avoids
	// a copy entirely.
	if n := b.Next; n != nil && n.IsFree() && format.Adjacent(b, n) &&
		old+format.BlockHeaderSize+int(n.Size) >= size {
		h.stats.InPlaceGrows++
		b.Size += uintptr(format.BlockHeaderSize) + n.Size
		b.Next = n.Next
		if b.Next != nil {
			b.Next.Prev = b
		} else {
			h.tail = b
		}
		h.freeEstimate -= int(n.Size)
		if int(b.Size) >= size+format.BlockHeaderSize+format.Alignment {
			h.split(b, size)
		}
		return b.Payload()
	}

	// Allocate-copy-free fallback.
	np := h.Alloc(size)
	if np == nil {
		return nil
	}
	h.stats.Copies++
	keep := old
	if size < keep {
		keep = size
	}
	copy(np[:keep], b.Payload()[:keep])
	h.Free(b.Payload())
	return np
}
