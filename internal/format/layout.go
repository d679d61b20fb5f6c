// Package format defines the in-memory layout shared by every block and
// arena the allocator manages: the header structs themselves, their aligned
// sizes, and the address arithmetic that converts between a header and the
// payload that begins immediately after it.
//
// This is the one place in the repository that performs raw pointer
// arithmetic. Higher-level packages (notably malloc) operate purely on
// *Block / *Arena values and byte slices obtained here, so every layout
// invariant can be audited in a single file.
package format

import "unsafe"

// Block states. A block is either in use by the caller or free for reuse.
const (
	BlockUsed uintptr = 0
	BlockFree uintptr = 1
)

// Block is the header preceding every allocation, free or in use. It lives
// inside the reserved region itself, immediately before its payload.
//
// Next and Prev form a single doubly-linked registry spanning all arenas in
// creation order. Within one arena the registry order matches the physical
// memory order; across an arena boundary two registry neighbors are not
// physically contiguous, which is why merge decisions must go through
// Adjacent rather than trusting the links alone.
type Block struct {
	// Size is the usable payload size in bytes. It is always a multiple of
	// Alignment and never includes header bytes.
	Size uintptr

	// State is BlockUsed or BlockFree.
	State uintptr

	Next *Block
	Prev *Block
}

// Arena is the header at the base of every region reserved from the page
// provider. The region is subdivided into one or more blocks starting right
// after this header.
type Arena struct {
	// Size is the total number of bytes reserved for this arena, headers
	// included.
	Size uintptr

	Next *Arena
	Prev *Arena

	// First is the block physically first in this arena.
	First *Block
}

// Header sizes, rounded up to the alignment unit so payloads stay aligned.
const (
	// BlockHeaderSize is the aligned size of a Block header.
	BlockHeaderSize = (int(unsafe.Sizeof(Block{})) + AlignmentMask) &^ AlignmentMask

	// ArenaHeaderSize is the aligned size of an Arena header.
	ArenaHeaderSize = (int(unsafe.Sizeof(Arena{})) + AlignmentMask) &^ AlignmentMask
)

// IsFree reports whether the block is free.
func (b *Block) IsFree() bool {
	return b.State == BlockFree
}

// Addr returns the address of the block header. It is used for range and
// identity checks only and is never converted back into a pointer.
func (b *Block) Addr() uintptr {
	return uintptr(unsafe.Pointer(b))
}

// End returns the address one past the block's payload. For two blocks that
// are physically contiguous within one arena, End of the left one equals
// Addr of the right one.
func (b *Block) End() uintptr {
	return b.Addr() + uintptr(BlockHeaderSize) + b.Size
}

// Payload returns the block's payload as a byte slice of length Size. The
// payload begins immediately after the header.
func (b *Block) Payload() []byte {
	p := unsafe.Add(unsafe.Pointer(b), BlockHeaderSize)
	return unsafe.Slice((*byte)(p), b.Size)
}

// HeaderOf recovers the block header from a payload previously returned by
// Payload. The caller guarantees p is non-empty.
func HeaderOf(p []byte) *Block {
	return (*Block)(unsafe.Add(unsafe.Pointer(&p[0]), -BlockHeaderSize))
}

// Adjacent reports whether n physically follows b in memory, i.e. n's header
// begins exactly where b's payload ends. Registry neighbors from different
// arenas fail this check.
func Adjacent(b, n *Block) bool {
	return b.End() == n.Addr()
}

// SplitSlot returns the header location for the right half of a split: the
// address want bytes into b's payload. The caller has verified that at least
// BlockHeaderSize+Alignment bytes remain past it.
func SplitSlot(b *Block, want int) *Block {
	p := unsafe.Add(unsafe.Pointer(b), BlockHeaderSize+want)
	return (*Block)(p)
}

// ArenaFromRegion reinterprets the base of a reserved region as an arena
// header. The region must be at least ArenaHeaderSize+BlockHeaderSize bytes.
func ArenaFromRegion(region []byte) *Arena {
	return (*Arena)(unsafe.Pointer(&region[0]))
}

// FirstBlockSlot returns the header location of the block physically first
// in the arena, immediately after the arena header.
func (a *Arena) FirstBlockSlot() *Block {
	p := unsafe.Add(unsafe.Pointer(a), ArenaHeaderSize)
	return (*Block)(p)
}

// Addr returns the base address of the arena.
func (a *Arena) Addr() uintptr {
	return uintptr(unsafe.Pointer(a))
}

// End returns the address one past the arena's reserved region.
func (a *Arena) End() uintptr {
	return a.Addr() + a.Size
}

// Contains reports whether the block header lies inside the arena's region.
func (a *Arena) Contains(b *Block) bool {
	addr := b.Addr()
	return addr >= a.Addr()+uintptr(ArenaHeaderSize) && addr < a.End()
}
