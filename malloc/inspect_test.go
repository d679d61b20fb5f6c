package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

func TestLayoutTilesEachArena(t *testing.T) {
	h := New()
	p := h.Alloc(128)
	q := h.Alloc(256)
	h.Free(p)

	layout := h.Layout()
	require.Len(t, layout, 1)

	a := layout[0]
	require.Equal(t, h.HeapBytes(), a.Size)
	require.Len(t, a.Blocks, 3)

	// Blocks tile the arena from the first slot to the end.
	at := format.ArenaHeaderSize
	for _, b := range a.Blocks {
		require.Equal(t, at, b.Offset)
		at += format.BlockHeaderSize + b.Size
	}
	require.Equal(t, a.Size, at)

	require.True(t, a.Blocks[0].Free)
	require.Equal(t, 128, a.Blocks[0].Size)
	require.False(t, a.Blocks[1].Free)
	require.Equal(t, 256, a.Blocks[1].Size)
	require.True(t, a.Blocks[2].Free)
	_ = q
}

func TestLayoutListsAllArenas(t *testing.T) {
	h := New()
	h.Alloc(ArenaMinSize)
	h.Alloc(ArenaMinSize)

	layout := h.Layout()
	require.Len(t, layout, 2)

	total := 0
	for _, a := range layout {
		total += a.Size
		require.NotEmpty(t, a.Blocks)
	}
	require.Equal(t, h.HeapBytes(), total)
}
