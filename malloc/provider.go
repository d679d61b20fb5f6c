package malloc

// PageProvider reserves page-aligned memory regions from the operating
// system. It is the allocator's only external collaborator and its only
// failure source.
//
// Reserve returns a region of at least n bytes, rounded up to the platform
// page size and page-aligned. The content of a fresh region is unspecified
// beyond what the platform guarantees. Regions are never released back
// through this interface; arenas live for the heap's lifetime.
type PageProvider interface {
	Reserve(n int) ([]byte, error)
	PageSize() int
}

// reserveSize rounds n up to a multiple of the page size ps.
func reserveSize(n, ps int) int {
	return (n + ps - 1) &^ (ps - 1)
}
