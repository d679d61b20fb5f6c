// Package malloc implements a general-purpose dynamic memory allocator over
// coarse page-provider regions: a drop-in Alloc/Free/Realloc triad with
// first-fit search, block splitting, and bidirectional coalescing.
//
// # Overview
//
// A Heap owns one or more arenas, each a single region reserved from the
// operating system (or an injected PageProvider). Arenas are subdivided into
// blocks, every block carrying an in-memory header directly before its
// payload. All blocks across all arenas are chained into one doubly-linked
// registry in creation order; the registry is the ground truth for every
// block's size and state.
//
// # Operations
//
//   - Alloc(size): first-fit over the registry, splitting oversized matches;
//     acquires a new arena when nothing fits. Returns nil for size <= 0 or
//     when the provider cannot reserve more memory.
//   - Free(p): marks the block free and merges it with physically adjacent
//     free neighbors. Nil, foreign, and already-free pointers are no-ops.
//   - Realloc(p, size): shrinks in place, grows in place by absorbing a free
//     right neighbor, or falls back to allocate-copy-free. The first
//     min(old, new) payload bytes are always preserved.
//   - HeapBytes / FreeBytes: aggregate statistics. HeapBytes is an O(1)
//     running total; FreeBytes is an authoritative O(n) registry scan.
//
// # Usage Example
//
//	h := malloc.New()
//
//	p := h.Alloc(64)
//	copy(p, "hello")
//
//	p = h.Realloc(p, 256)
//	h.Free(p)
//
// # Arena Growth
//
// Arenas are at least 1 MiB (ArenaMinSize) to amortize provider calls;
// larger requests are honored exactly, plus headers and page rounding. Once
// reserved, an arena lives for the lifetime of the heap. Memory is recycled
// through the block registry and never returned to the operating system.
//
// # Alignment
//
// Every payload address and every payload size is 8-byte aligned. The
// returned slice always covers the full (aligned) payload, which may exceed
// the requested size when a free block was reused below the split threshold.
//
// # Thread Safety
//
// Heap is not thread-safe. Callers must serialize access externally, for
// example with one mutex guarding every entry point. Independent heaps may
// be used concurrently.
package malloc
