package format

// Alignment utilities for the allocator's in-memory layout. Every payload
// handed out by the allocator, and every header preceding one, sits on an
// 8-byte boundary.

const (
	// Alignment is the allocation alignment unit in bytes. Payload sizes are
	// rounded up to a multiple of it, and payload addresses are always a
	// multiple of it.
	Alignment = 8

	// AlignmentMask is the bit mask used for rounding to Alignment.
	AlignmentMask = Alignment - 1
)

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// Aligned8 reports whether n is a multiple of the alignment unit.
func Aligned8(n int) bool {
	return n&AlignmentMask == 0
}
