// Package conv provides checked integer narrowing for the execution engine.
//
// Overflow here means a programming error (a program larger than the
// internal limits allow), so the helpers panic rather than return errors.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms, where int cannot represent
	// math.MaxUint32, stay correct.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
