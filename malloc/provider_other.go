//go:build !linux && !darwin

package malloc

import (
	"os"
	"unsafe"
)

// heapProvider backs regions with ordinary Go heap slices on platforms
// without the mmap path. It over-allocates by one page and slices forward to
// a page boundary so the page-alignment guarantee of the interface holds.
// Arena and block links live inside the byte arrays where the collector
// cannot see them, so the provider pins every reservation for its own
// lifetime. Regions are never released, matching the interface contract.
type heapProvider struct {
	pageSize int
	held     [][]byte
}

func defaultProvider() PageProvider {
	return &heapProvider{pageSize: os.Getpagesize()}
}

func (p *heapProvider) PageSize() int {
	return p.pageSize
}

func (p *heapProvider) Reserve(n int) ([]byte, error) {
	need := reserveSize(n, p.pageSize)
	buf := make([]byte, need+p.pageSize)
	p.held = append(p.held, buf)
	base := uintptr(unsafe.Pointer(&buf[0]))
	skew := int((uintptr(p.pageSize) - base%uintptr(p.pageSize)) % uintptr(p.pageSize))
	return buf[skew : skew+need : skew+need], nil
}
