package malloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

func TestAllocZeroSize(t *testing.T) {
	h := New()

	require.Nil(t, h.Alloc(0))
	require.Nil(t, h.Alloc(-8))

	// A rejected request reserves nothing.
	require.Equal(t, 0, h.HeapBytes())
	require.Equal(t, 0, h.FreeBytes())
	requireHeapOK(t, h)
}

func TestAllocAlignment(t *testing.T) {
	h := New()

	for _, size := range []int{1, 2, 3, 7, 8, 9, 15, 16, 31, 63, 100, 1000, 4097} {
		p := h.Alloc(size)
		require.NotNil(t, p, "Alloc(%d)", size)
		require.Zero(t, payloadAddr(p)%format.Alignment, "Alloc(%d) misaligned", size)
		require.GreaterOrEqual(t, len(p), size)
		require.True(t, format.Aligned8(len(p)))
	}
	requireHeapOK(t, h)
}

func TestAllocReservesSingleArena(t *testing.T) {
	h := New()

	p := h.Alloc(64)
	require.NotNil(t, p)
	require.GreaterOrEqual(t, h.HeapBytes(), ArenaMinSize)
	require.Equal(t, 1, h.Stats().Arenas)

	// Small follow-up requests are carved from the same arena.
	for i := 0; i < 100; i++ {
		require.NotNil(t, h.Alloc(512))
	}
	require.Equal(t, 1, h.Stats().Arenas)
	requireHeapOK(t, h)
}

func TestAllocLargeRequestHonoredExactly(t *testing.T) {
	h := New()
	size := 3 * ArenaMinSize

	p := h.Alloc(size)
	require.NotNil(t, p)
	require.GreaterOrEqual(t, len(p), size)

	// No multiple-of-arena rounding: the reservation is the request plus
	// headers plus at most one page of provider rounding.
	overhead := format.ArenaHeaderSize + format.BlockHeaderSize
	require.GreaterOrEqual(t, h.HeapBytes(), size+overhead)
	require.Less(t, h.HeapBytes(), size+overhead+h.provider.PageSize())
	requireHeapOK(t, h)
}

func TestAllocFirstFitReusesFreedBlock(t *testing.T) {
	h := New()

	p := h.Alloc(128)
	q := h.Alloc(128)
	require.NotNil(t, p)
	require.NotNil(t, q)

	h.Free(p)

	// First-fit lands on the freed head block and splits it.
	r := h.Alloc(64)
	require.True(t, sameAddr(p, r), "expected the freed block to be reused")
	require.Equal(t, 1, h.Stats().Arenas)
	requireHeapOK(t, h)
}

func TestAllocProviderFailure(t *testing.T) {
	h := newFlakyHeap(0)

	require.Nil(t, h.Alloc(64))
	require.Equal(t, 0, h.HeapBytes())
	requireHeapOK(t, h)
}

func TestAllocFailureLeavesStateUntouched(t *testing.T) {
	h := newFlakyHeap(1)

	p := h.Alloc(64)
	require.NotNil(t, p)
	fillPattern(p, 0x5A)

	before := h.Stats()
	heapBytes, freeBytes := h.HeapBytes(), h.FreeBytes()

	// The existing arena cannot satisfy this and the provider refuses to
	// reserve another; the failure must change nothing.
	require.Nil(t, h.Alloc(2*ArenaMinSize))

	require.Equal(t, heapBytes, h.HeapBytes())
	require.Equal(t, freeBytes, h.FreeBytes())
	require.Equal(t, before.Blocks, h.Stats().Blocks)
	requirePattern(t, p, len(p), len(p), 0x5A)
	requireHeapOK(t, h)
}

func TestAllocDistinctPayloadsDoNotOverlap(t *testing.T) {
	h := New()

	var payloads [][]byte
	for _, size := range []int{8, 24, 64, 128, 200, 1024} {
		p := h.Alloc(size)
		require.NotNil(t, p)
		payloads = append(payloads, p)
	}

	for i, a := range payloads {
		for j, b := range payloads {
			if i == j {
				continue
			}
			aStart, aEnd := payloadAddr(a), payloadAddr(a)+uintptr(len(a))
			bStart := payloadAddr(b)
			disjoint := bStart >= aEnd || bStart+uintptr(len(b)) <= aStart
			require.True(t, disjoint, "payloads %d and %d overlap", i, j)
		}
	}
	requireHeapOK(t, h)
}

func TestAllocRejectsOversizedRequest(t *testing.T) {
	h := New()

	require.Nil(t, h.Alloc(math.MaxInt))
	require.Nil(t, h.Alloc(math.MaxInt-format.BlockHeaderSize))
	require.Zero(t, h.HeapBytes())
	requireHeapOK(t, h)
}

func TestAllocArenaSlackBelowThresholdFolded(t *testing.T) {
	h := New()
	ps := h.provider.PageSize()
	pages := ArenaMinSize/ps + 2

	// Size the request so the page-rounded reservation leaves exactly one
	// alignment quantum of slack, too small for a trailing free block.
	payload := pages*ps - format.ArenaHeaderSize - format.BlockHeaderSize - format.Alignment

	p := h.Alloc(payload)
	require.NotNil(t, p)
	require.Equal(t, payload+format.Alignment, len(p), "slack not folded into the payload")
	require.Equal(t, pages*ps, h.HeapBytes())
	require.Equal(t, 1, h.Stats().Blocks)
	requireHeapOK(t, h)

	h.Free(p)
	require.Equal(t, h.HeapBytes()-ArenaOverhead, h.FreeBytes())
	requireHeapOK(t, h)
}

func TestAllocArenaExactPageFit(t *testing.T) {
	h := New()
	ps := h.provider.PageSize()
	pages := ArenaMinSize/ps + 2

	// No slack at all: the first block ends exactly at the arena boundary.
	payload := pages*ps - format.ArenaHeaderSize - format.BlockHeaderSize

	p := h.Alloc(payload)
	require.NotNil(t, p)
	require.Equal(t, payload, len(p))
	require.Equal(t, pages*ps, h.HeapBytes())
	require.Equal(t, 1, h.Stats().Blocks)
	requireHeapOK(t, h)
}
