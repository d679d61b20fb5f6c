package malloc

import (
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/overflow"
)

// Alloc allocates a block with at least size usable bytes and returns its
// payload. The slice covers the full aligned payload, so its length may
// exceed the request. The payload address is always 8-byte aligned.
//
// Alloc returns nil for size <= 0 and when the page provider cannot reserve
// a new arena; in the latter case no existing state has changed and the
// caller should treat the nil as out-of-memory.
func (h *Heap) Alloc(size int) []byte {
	h.stats.AllocCalls++
	if size <= 0 {
		return nil
	}
	// Alignment padding plus the headers added further down must not wrap.
	if _, ok := overflow.Add(size, format.ArenaHeaderSize+2*format.BlockHeaderSize+format.Alignment); !ok {
		return nil
	}
	size = format.Align8(size)

	blk := h.firstFit(size)
	if blk == nil {
		var err error
		blk, err = h.acquire(size)
		if err != nil {
			debugLogf("Alloc(%d): %v", size, err)
			return nil
		}
	} else {
		was := int(blk.Size)
		if was >= size+format.BlockHeaderSize+format.Alignment {
			h.split(blk, size)
		}
		blk.State = format.BlockUsed
		// split already re-added the leftover, so subtracting the original
		// payload leaves exactly the allocated bytes plus one header gone
		// from the free total.
		h.freeEstimate -= was
	}
	return blk.Payload()
}

// firstFit returns the first free registry entry whose payload can hold
// size bytes, scanning head to tail. First-fit keeps the scan and the split
// bookkeeping trivial; fragmentation optimality is explicitly not a goal.
func (h *Heap) firstFit(size int) *format.Block {
	for cur := h.head; cur != nil; cur = cur.Next {
		if cur.IsFree() && int(cur.Size) >= size {
			return cur
		}
	}
	return nil
}

// split partitions b into a left block of exactly want payload bytes and a
// free right block covering the remainder minus one header. The caller has
// verified the remainder holds at least a header plus one alignment quantum.
func (h *Heap) split(b *format.Block, want int) {
	h.stats.Splits++
	rem := int(b.Size) - want
	b.Size = uintptr(want)

	n := format.SplitSlot(b, want)
	n.Size = uintptr(rem - format.BlockHeaderSize)
	n.State = format.BlockFree
	n.Prev = b
	n.Next = b.Next
	if n.Next != nil {
		n.Next.Prev = n
	} else {
		h.tail = n
	}
	b.Next = n

	h.freeEstimate += int(n.Size)
}
