package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

func TestCoalesceTrio(t *testing.T) {
	// Freeing the middle block then the two outer ones (either order) must
	// leave one free block covering all three plus their reclaimed headers,
	// and a subsequent allocation must reuse that space without growing.
	orders := []struct {
		name  string
		order [3]int // indices into {a, b, c}, freed in this order
	}{
		{"middle, left, right", [3]int{1, 0, 2}},
		{"middle, right, left", [3]int{1, 2, 0}},
	}

	for _, tt := range orders {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			blocks := [3][]byte{h.Alloc(128), h.Alloc(128), h.Alloc(128)}
			require.NotNil(t, h.Alloc(8)) // guard against the trailing free block

			grows := h.Stats().GrowCalls
			heapBytes := h.HeapBytes()
			freeBefore := h.FreeBytes()

			for _, i := range tt.order {
				h.Free(blocks[i])
			}

			// One block, three payloads, two headers reclaimed.
			merged := 3*128 + 2*format.BlockHeaderSize
			require.Equal(t, freeBefore+merged, h.FreeBytes())
			require.Equal(t, 2, h.Stats().FreeBlocks) // merged run + trailing
			requireHeapOK(t, h)

			// Reuse, not growth: the next allocation lands on a former
			// address and reserves nothing new.
			r := h.Alloc(128)
			require.True(t, sameAddr(r, blocks[0]),
				"expected the merged run to be handed out from its base")
			require.Equal(t, grows, h.Stats().GrowCalls)
			require.Equal(t, heapBytes, h.HeapBytes())
			requireHeapOK(t, h)
		})
	}
}

func TestCoalesceForwardOnly(t *testing.T) {
	h := New()
	a := h.Alloc(64)
	b := h.Alloc(64)
	require.NotNil(t, h.Alloc(8)) // guard

	h.Free(b)
	mergesBefore := h.Stats().MergeNext
	h.Free(a)

	require.Equal(t, mergesBefore+1, h.Stats().MergeNext)
	require.Equal(t, 64+64+format.BlockHeaderSize, h.FreeBytes()-trailingFree(h))
	requireHeapOK(t, h)
}

func TestCoalesceBackwardShiftsOwnership(t *testing.T) {
	h := New()
	a := h.Alloc(64)
	b := h.Alloc(64)
	require.NotNil(t, h.Alloc(8)) // guard

	h.Free(a)
	h.Free(b)

	// b merged leftward into a; the run begins at a's header.
	require.Equal(t, 1, h.Stats().MergePrev)
	r := h.Alloc(64 + 64 + format.BlockHeaderSize)
	require.True(t, sameAddr(r, a))
	requireHeapOK(t, h)
}

func TestFreeNilIsNoOp(t *testing.T) {
	h := New()
	h.Free(nil)
	require.Equal(t, 0, h.HeapBytes())
	requireHeapOK(t, h)
}

func TestFreeIdempotent(t *testing.T) {
	h := New()
	p := h.Alloc(128)
	require.NotNil(t, h.Alloc(8)) // guard

	h.Free(p)
	after := h.Stats()
	freeBytes := h.FreeBytes()

	// The second free must be observationally equivalent to the first.
	h.Free(p)
	again := h.Stats()
	require.Equal(t, freeBytes, h.FreeBytes())
	require.Equal(t, after.FreeBlocks, again.FreeBlocks)
	require.Equal(t, after.MergeNext, again.MergeNext)
	require.Equal(t, after.MergePrev, again.MergePrev)
	requireHeapOK(t, h)
}

func TestFreeForeignPointerIsNoOp(t *testing.T) {
	h := New()
	require.NotNil(t, h.Alloc(64))
	freeBytes := h.FreeBytes()

	// A slice the heap never handed out must be ignored, not corrupt state.
	foreign := make([]byte, 128)
	h.Free(foreign)
	require.Equal(t, freeBytes, h.FreeBytes())

	// Same for a payload owned by a different heap.
	other := New()
	p := other.Alloc(64)
	h.Free(p)
	require.Equal(t, freeBytes, h.FreeBytes())
	require.Equal(t, 0, other.FreeBytes()-trailingFree(other))
	requireHeapOK(t, h)
	requireHeapOK(t, other)
}

func TestNoCoalesceAcrossArenaBoundary(t *testing.T) {
	h := New()

	// Fill the first arena so the next request forces a second one. The
	// first arena keeps a small trailing free block.
	first := h.Alloc(ArenaMinSize - format.BlockHeaderSize)
	require.NotNil(t, first)
	second := h.Alloc(8 * 1024)
	require.NotNil(t, second)
	require.Equal(t, 2, h.Stats().Arenas)

	// second's registry prev is the first arena's trailing free block:
	// adjacent in the registry, unrelated in memory. Freeing second must
	// not merge leftward across the boundary.
	h.Free(second)
	require.Equal(t, 0, h.Stats().MergePrev)
	requireHeapOK(t, h)
}
