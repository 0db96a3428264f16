package ustr

import "github.com/dshills/ustr/internal/engine/compare"

// Compare orders s and other by the scalars of their NFC forms. It returns
// -1, 0 or +1.
func (s String) Compare(other String) int {
	return compare.Compare(&s.g, &other.g)
}

// Equal reports whether s and other are canonically equivalent.
func (s String) Equal(other String) bool {
	return compare.Equal(&s.g, &other.g)
}

// Less reports whether s orders before other.
func (s String) Less(other String) bool {
	return compare.Compare(&s.g, &other.g) < 0
}

// Hash returns a hash of the NFC form of s. Canonically equivalent strings
// hash equally within a process; the value changes between processes.
func (s String) Hash() uint64 {
	return compare.Hash(&s.g)
}
