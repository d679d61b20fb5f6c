package malloc

// Stats is a point-in-time snapshot of heap state and operation counters.
type Stats struct {
	// HeapBytes is the running total of all arena sizes ever reserved.
	HeapBytes int

	// FreeEstimate is the incrementally maintained free-payload total. It
	// is a fast estimate only; FreeBytes() recomputes the authoritative
	// value by scanning the registry.
	FreeEstimate int

	Arenas     int
	Blocks     int
	FreeBlocks int

	// Operation counters.
	AllocCalls     int
	FreeCalls      int
	ReallocCalls   int
	GrowCalls      int // arena acquisitions
	Splits         int
	MergeNext      int
	MergePrev      int
	InPlaceShrinks int
	InPlaceGrows   int
	Copies         int
}

// HeapBytes returns the total bytes ever reserved from the page provider.
// O(1); the total only grows, arenas are never released.
func (h *Heap) HeapBytes() int {
	return h.heapBytes
}

// FreeBytes sums the payload of every free block in the registry. The O(n)
// scan is the authoritative value, immune to incremental drift; the
// estimate carried in Stats is never trusted here.
func (h *Heap) FreeBytes() int {
	sum := 0
	for b := h.head; b != nil; b = b.Next {
		if b.IsFree() {
			sum += int(b.Size)
		}
	}
	return sum
}

// Stats returns a snapshot of the heap. The arena and block counts are
// gathered by a fresh walk.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.HeapBytes = h.heapBytes
	s.FreeEstimate = h.freeEstimate
	for a := h.arenas; a != nil; a = a.Next {
		s.Arenas++
	}
	for b := h.head; b != nil; b = b.Next {
		s.Blocks++
		if b.IsFree() {
			s.FreeBlocks++
		}
	}
	return s
}
