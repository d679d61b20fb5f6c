// Package overflow contains overflow-safe integer arithmetic for size
// computations.
package overflow

import "math"

// Add adds a and b, returning ok = false when the result would overflow int.
func Add(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}
