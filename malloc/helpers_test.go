package malloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

// errReserveDenied is returned by flakyProvider once its allowance runs out.
var errReserveDenied = errors.New("reserve denied")

// flakyProvider delegates to a real provider for a fixed number of
// reservations and fails afterwards. Used to exercise the out-of-memory
// paths deterministically.
type flakyProvider struct {
	real  PageProvider
	allow int
	calls int
}

func (f *flakyProvider) PageSize() int {
	return f.real.PageSize()
}

func (f *flakyProvider) Reserve(n int) ([]byte, error) {
	f.calls++
	if f.calls > f.allow {
		return nil, errReserveDenied
	}
	return f.real.Reserve(n)
}

// newFlakyHeap returns a heap whose provider fails after allow reservations.
func newFlakyHeap(allow int) *Heap {
	return New(WithProvider(&flakyProvider{real: defaultProvider(), allow: allow}))
}

// payloadAddr returns the numeric address of a payload for alignment and
// layout assertions.
func payloadAddr(p []byte) uintptr {
	return format.HeaderOf(p).Addr() + uintptr(format.BlockHeaderSize)
}

// sameAddr reports whether two payloads begin at the same address.
func sameAddr(a, b []byte) bool {
	return &a[0] == &b[0]
}

// fillPattern fills p with the stamp byte and plants edge markers at the
// first and last byte, mirroring the stress harness invariants.
func fillPattern(p []byte, stamp byte) {
	for i := range p {
		p[i] = stamp
	}
	if len(p) >= 1 {
		p[0] = 0xAB
	}
	if len(p) >= 2 {
		p[len(p)-1] = 0xCD
	}
}

// requirePattern asserts the first n bytes of p still carry the pattern
// planted by fillPattern over a payload of original length orig.
func requirePattern(t *testing.T, p []byte, n int, orig int, stamp byte) {
	t.Helper()
	require.Equal(t, byte(0xAB), p[0], "first marker lost")
	for i := 1; i < n; i++ {
		want := stamp
		if i == orig-1 {
			want = 0xCD
		}
		require.Equalf(t, want, p[i], "payload byte %d changed", i)
	}
}

// requireHeapOK asserts the heap passes a full integrity check.
func requireHeapOK(t *testing.T, h *Heap) {
	t.Helper()
	require.NoError(t, h.Check())
}
