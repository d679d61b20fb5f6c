package malloc

import (
	"github.com/joshuapare/memkit/internal/format"
)

// ArenaMinSize is the smallest payload capacity reserved per arena. Arenas
// this coarse amortize provider calls; requests larger than this are honored
// exactly, plus headers and page rounding.
const ArenaMinSize = 1 << 20 // 1 MiB

// acquire reserves a new arena sized for a payload of the given (already
// aligned) size and lays it out: the arena header, one in-use block sized
// exactly to the request, and a trailing free block when at least one header
// plus one alignment quantum remains. The arena joins the arena list at the
// head and its blocks join the registry at the tail. No state is mutated
// until the provider reservation has succeeded.
func (h *Heap) acquire(payload int) (*format.Block, error) {
	need := payload + format.BlockHeaderSize
	if need < ArenaMinSize {
		need = ArenaMinSize
	}
	region, err := h.provider.Reserve(need + format.ArenaHeaderSize)
	if err != nil {
		return nil, err
	}
	h.stats.GrowCalls++

	a := format.ArenaFromRegion(region)
	a.Size = uintptr(len(region)) // page-rounded by the provider
	a.Prev = nil
	a.Next = h.arenas
	if h.arenas != nil {
		h.arenas.Prev = a
	}
	h.arenas = a

	blk := a.FirstBlockSlot()
	blk.Size = uintptr(payload)
	blk.State = format.BlockUsed
	blk.Prev = h.tail
	blk.Next = nil
	if h.head == nil {
		h.head = blk
	}
	if h.tail != nil {
		h.tail.Next = blk
	}
	h.tail = blk
	a.First = blk

	h.heapBytes += int(a.Size)

	// The reservation usually exceeds the request (arena floor, page
	// rounding). Whatever remains past the first block becomes a trailing
	// free block, provided a header plus one alignment quantum still fits.
	// A smaller remainder is folded into the first block's payload instead:
	// both totals are multiples of the alignment unit, and every arena byte
	// must be covered by some block.
	used := format.ArenaHeaderSize + format.BlockHeaderSize + payload
	if int(a.Size) >= used+format.BlockHeaderSize+format.Alignment {
		f := format.SplitSlot(blk, payload)
		f.Size = uintptr(int(a.Size) - used - format.BlockHeaderSize)
		f.State = format.BlockFree
		f.Prev = blk
		f.Next = blk.Next
		if f.Next != nil {
			f.Next.Prev = f
		} else {
			h.tail = f
		}
		blk.Next = f
		h.freeEstimate += int(f.Size)
	} else if rem := int(a.Size) - used; rem > 0 {
		blk.Size += uintptr(rem)
	}

	debugLogf("acquire: arena=%d bytes, first block=%d bytes", int(a.Size), payload)
	return blk, nil
}
