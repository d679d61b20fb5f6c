package malloc

import "github.com/joshuapare/memkit/internal/format"

// BlockInfo describes one block for inspection tooling. Offset is relative
// to the start of the owning arena's region.
type BlockInfo struct {
	Offset int
	Size   int
	Free   bool
}

// ArenaInfo describes one arena and the blocks that tile it.
type ArenaInfo struct {
	Size   int
	Blocks []BlockInfo
}

// Layout returns a copy of the current arena and block structure, newest
// arena first. The snapshot holds no pointers into the heap; callers may
// retain it across further allocator calls.
func (h *Heap) Layout() []ArenaInfo {
	var out []ArenaInfo
	for a := h.arenas; a != nil; a = a.Next {
		info := ArenaInfo{Size: int(a.Size)}
		base := a.Addr()
		for b := a.First; b != nil && a.Contains(b); b = b.Next {
			info.Blocks = append(info.Blocks, BlockInfo{
				Offset: int(b.Addr() - base),
				Size:   int(b.Size),
				Free:   b.IsFree(),
			})
		}
		out = append(out, info)
	}
	return out
}

// ArenaOverhead is the bookkeeping cost of one empty arena: its own header
// plus the header of the single block spanning it.
const ArenaOverhead = format.ArenaHeaderSize + format.BlockHeaderSize
