package storage

import "slices"

// allocate returns a zeroed buffer of at least n bytes. The length of the
// result is its realised capacity, rounded up to the allocator's size class.
func allocate(n int) []byte {
	buf := slices.Grow([]byte(nil), n)
	return buf[:cap(buf)]
}

// GrowCapacity returns the capacity to allocate when a buffer of capacity
// old must hold needed bytes. Growth is geometric so repeated appends cost
// amortised O(1) per byte.
func GrowCapacity(old, needed int) int {
	return max(needed, 2*old)
}
