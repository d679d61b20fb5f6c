package malloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

func TestReserveSizeRounding(t *testing.T) {
	cases := []struct {
		name string
		n    int
		ps   int
		want int
	}{
		{"zero", 0, 4096, 0},
		{"one byte", 1, 4096, 4096},
		{"exact page", 4096, 4096, 4096},
		{"page plus one", 4097, 4096, 8192},
		{"large page", 5000, 16384, 16384},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, reserveSize(tc.n, tc.ps))
		})
	}
}

func TestDefaultProviderReserve(t *testing.T) {
	p := defaultProvider()
	ps := p.PageSize()
	require.Positive(t, ps)

	region, err := p.Reserve(ps + 1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(region), ps+1)
	require.Zero(t, len(region)%ps, "region length is not page-rounded")
	require.True(t, format.Aligned8(int(uintptr(unsafe.Pointer(&region[0])))),
		"region base is not aligned")

	// Regions are writable end to end.
	region[0] = 0xFF
	region[len(region)-1] = 0xFF
}
