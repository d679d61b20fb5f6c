package malloc

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/format"
)

// Check walks the arena list and the block registry and verifies every
// structural invariant the allocator maintains:
//
//   - registry and arena links are symmetric, head/tail are consistent
//   - every payload size and address is a multiple of the alignment unit
//   - each arena is exactly covered by a chain of physically contiguous
//     blocks (which also rules out overlapping live payloads)
//   - no two physically adjacent blocks are both free
//   - the incremental free estimate and the O(1) heap total agree with the
//     authoritative scans
//
// Check is O(n) and intended for tests and the stress harness; it never
// mutates state. The first violation found is returned.
func (h *Heap) Check() error {
	if h.head == nil {
		if h.tail != nil || h.arenas != nil {
			return fmt.Errorf("%w: empty registry with tail or arenas set", ErrBadLink)
		}
		if h.freeEstimate != 0 || h.heapBytes != 0 {
			return fmt.Errorf("%w: empty heap reports %d free / %d total",
				ErrAccounting, h.freeEstimate, h.heapBytes)
		}
		return nil
	}

	if err := h.checkRegistry(); err != nil {
		return err
	}
	if err := h.checkArenas(); err != nil {
		return err
	}
	return h.checkAccounting()
}

func (h *Heap) checkRegistry() error {
	if h.head.Prev != nil {
		return fmt.Errorf("%w: head has a prev entry", ErrBadLink)
	}
	var last *format.Block
	for b := h.head; b != nil; b = b.Next {
		if b.Next != nil && b.Next.Prev != b {
			return fmt.Errorf("%w: next/prev mismatch at %#x", ErrBadLink, b.Addr())
		}
		if !format.Aligned8(int(b.Size)) {
			return fmt.Errorf("%w: payload size %d at %#x", ErrMisaligned, b.Size, b.Addr())
		}
		if !format.Aligned8(int(b.Addr()) + format.BlockHeaderSize) {
			return fmt.Errorf("%w: payload address of %#x", ErrMisaligned, b.Addr())
		}
		if b.IsFree() && b.Next != nil && b.Next.IsFree() && format.Adjacent(b, b.Next) {
			return fmt.Errorf("%w: at %#x", ErrUncoalesced, b.Addr())
		}
		last = b
	}
	if last != h.tail {
		return fmt.Errorf("%w: tail does not terminate the registry", ErrBadLink)
	}
	return nil
}

func (h *Heap) checkArenas() error {
	for a := h.arenas; a != nil; a = a.Next {
		if a.Next != nil && a.Next.Prev != a {
			return fmt.Errorf("%w: arena list mismatch at %#x", ErrBadLink, a.Addr())
		}
		if a.First == nil || a.First != a.FirstBlockSlot() {
			return fmt.Errorf("%w: arena %#x first block misplaced", ErrBadChain, a.Addr())
		}

		// The chain of physically contiguous blocks must cover the arena
		// byte for byte. A block from another arena, or a gap, breaks the
		// sum and is reported.
		covered := format.ArenaHeaderSize
		for b := a.First; ; b = b.Next {
			if b == nil || !a.Contains(b) {
				return fmt.Errorf("%w: arena %#x chain escapes the region", ErrBadChain, a.Addr())
			}
			covered += format.BlockHeaderSize + int(b.Size)
			if covered == int(a.Size) {
				break
			}
			if covered > int(a.Size) {
				return fmt.Errorf("%w: arena %#x chain overruns by %d bytes",
					ErrBadChain, a.Addr(), covered-int(a.Size))
			}
			if b.Next == nil || !format.Adjacent(b, b.Next) {
				return fmt.Errorf("%w: arena %#x gap after block %#x",
					ErrBadChain, a.Addr(), b.Addr())
			}
		}
	}
	return nil
}

func (h *Heap) checkAccounting() error {
	scan := h.FreeBytes()
	if scan != h.freeEstimate {
		return fmt.Errorf("%w: estimate %d, scan %d", ErrAccounting, h.freeEstimate, scan)
	}
	total := 0
	for a := h.arenas; a != nil; a = a.Next {
		total += int(a.Size)
	}
	if total != h.heapBytes {
		return fmt.Errorf("%w: heap total %d, arena sum %d", ErrAccounting, h.heapBytes, total)
	}
	if scan > h.heapBytes {
		return fmt.Errorf("%w: free %d exceeds heap %d", ErrAccounting, scan, h.heapBytes)
	}
	return nil
}
