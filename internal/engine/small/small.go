// Package small implements the inline small-string payload.
//
// A String holds up to Capacity bytes of UTF-8 inside the value itself, so
// copying it copies the content and no heap memory is ever shared.
package small

import "github.com/dshills/ustr/internal/engine/scalar"

// Capacity is the number of content bytes a String can hold.
const Capacity = 15

const (
	countMask = 0x0F
	asciiBit  = 0x10
)

// String is a 16-byte inline string. Bytes past the count are always zero
// and the empty string is the zero value, so two Strings with equal content
// compare equal with ==.
type String struct {
	data [Capacity]byte
	meta byte
}

// New copies b into a String. It reports false when b does not fit.
func New(b []byte) (String, bool) {
	var s String
	if len(b) > Capacity {
		return s, false
	}
	copy(s.data[:], b)
	s.meta = byte(len(b))
	if len(b) > 0 && scalar.IsAllASCII(b) {
		s.meta |= asciiBit
	}
	return s, true
}

// FromString is New for a Go string.
func FromString(str string) (String, bool) {
	var s String
	if len(str) > Capacity {
		return s, false
	}
	copy(s.data[:], str)
	s.meta = byte(len(str))
	if len(str) > 0 && scalar.IsAllASCII(s.data[:len(str)]) {
		s.meta |= asciiBit
	}
	return s, true
}

// Count returns the number of content bytes.
func (s String) Count() int {
	return int(s.meta & countMask)
}

// IsEmpty reports whether s has no content.
func (s String) IsEmpty() bool {
	return s.meta&countMask == 0
}

// IsASCII reports whether every byte of s is ASCII.
func (s String) IsASCII() bool {
	// The empty string is ASCII whether or not the bit was set.
	return s.meta&asciiBit != 0 || s.IsEmpty()
}

// Unused returns the number of bytes that can still be appended.
func (s String) Unused() int {
	return Capacity - s.Count()
}

// At returns the content byte at i.
func (s String) At(i int) byte {
	return s.data[i]
}

// Bytes returns a copy of the content.
func (s String) Bytes() []byte {
	b := make([]byte, s.Count())
	copy(b, s.data[:])
	return b
}

// WithUTF8 calls body with the content. The slice addresses a private copy
// of the payload and must not be retained.
func (s String) WithUTF8(body func([]byte)) {
	buf := s.data
	body(buf[:s.Count()])
}

// AppendTo appends the content to dst.
func (s String) AppendTo(dst []byte) []byte {
	return append(dst, s.data[:s.Count()]...)
}

// String returns the content as a Go string.
func (s String) String() string {
	return string(s.data[:s.Count()])
}

// Append returns s followed by b. It reports false when the result does not
// fit.
func (s String) Append(b []byte) (String, bool) {
	n := s.Count()
	if len(b) > Capacity-n {
		return s, false
	}
	copy(s.data[n:], b)
	ascii := s.IsASCII() && scalar.IsAllASCII(b)
	s.meta = byte(n + len(b))
	if ascii && s.meta != 0 {
		s.meta |= asciiBit
	}
	return s, true
}

// Slice returns the content in [lo, hi) as a new String.
func (s String) Slice(lo, hi int) String {
	var out String
	copy(out.data[:], s.data[lo:hi])
	out.meta = byte(hi - lo)
	if hi > lo && (s.IsASCII() || scalar.IsAllASCII(out.data[:hi-lo])) {
		out.meta |= asciiBit
	}
	return out
}

// Word returns the payload as two little-endian machine words, for layout
// checks.
func (s String) Word() (lo, hi uint64) {
	for i := 0; i < 8; i++ {
		lo |= uint64(s.data[i]) << (8 * i)
	}
	for i := 8; i < Capacity; i++ {
		hi |= uint64(s.data[i]) << (8 * (i - 8))
	}
	hi |= uint64(s.meta) << 56
	return lo, hi
}

// View returns the content without copying. The slice aliases s and is
// only valid until s is next assigned.
func (s *String) View() []byte {
	return s.data[:s.Count():s.Count()]
}
