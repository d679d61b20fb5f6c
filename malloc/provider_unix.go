//go:build linux || darwin

package malloc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapProvider reserves regions with anonymous private mappings. The kernel
// hands back zeroed, page-aligned memory outside the Go heap, so block and
// arena headers written into it are invisible to the garbage collector.
type mmapProvider struct {
	pageSize int
}

func defaultProvider() PageProvider {
	return &mmapProvider{pageSize: os.Getpagesize()}
}

func (m *mmapProvider) PageSize() int {
	return m.pageSize
}

func (m *mmapProvider) Reserve(n int) ([]byte, error) {
	need := reserveSize(n, m.pageSize)
	region, err := unix.Mmap(
		-1,
		0,
		need,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("malloc: mmap %d bytes: %w", need, err)
	}
	return region, nil
}
