package scalar

import "unicode/utf8"

// Scalar value limits.
const (
	// ReplacementCharacter substitutes malformed input in repairing decoders.
	ReplacementCharacter = '\uFFFD'

	// MaxScalar is the largest Unicode scalar value.
	MaxScalar = 0x10FFFF

	// MaxUTF8Len is the longest UTF-8 encoding of a scalar.
	MaxUTF8Len = 4
)

// IsASCII reports whether b is a 7-bit ASCII byte.
func IsASCII(b byte) bool {
	return b < utf8.RuneSelf
}

// IsContinuation reports whether b is a UTF-8 continuation byte (10xxxxxx).
func IsContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// LeadLength returns the sequence length announced by a lead byte, or 0 if b
// cannot start a well-formed sequence.
func LeadLength(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC2:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	case b < 0xF5:
		return 4
	default:
		return 0
	}
}

// DecodeUTF8 decodes the scalar starting at b[i]. The input must be valid.
func DecodeUTF8(b []byte, i int) (rune, int) {
	if c := b[i]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(b[i:])
}

// DecodeLastUTF8 decodes the scalar ending at b[end-1]. The input must be valid.
func DecodeLastUTF8(b []byte, end int) (rune, int) {
	if c := b[end-1]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeLastRune(b[:end])
}

// RoundDownToScalar returns the start of the scalar containing b[i].
// i == len(b) is returned unchanged.
func RoundDownToScalar(b []byte, i int) int {
	if i >= len(b) {
		return len(b)
	}
	for i > 0 && IsContinuation(b[i]) {
		i--
	}
	return i
}

// AppendUTF8 appends the UTF-8 encoding of r.
func AppendUTF8(dst []byte, r rune) []byte {
	if r < utf8.RuneSelf && r >= 0 {
		return append(dst, byte(r))
	}
	return utf8.AppendRune(dst, r)
}

// UTF8Len returns the number of bytes needed to encode r.
func UTF8Len(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// IsAllASCII reports whether every byte of b is ASCII.
func IsAllASCII(b []byte) bool {
	// Eight bytes at a time.
	i := 0
	for ; i+8 <= len(b); i += 8 {
		w := uint64(b[i]) | uint64(b[i+1])<<8 | uint64(b[i+2])<<16 | uint64(b[i+3])<<24 |
			uint64(b[i+4])<<32 | uint64(b[i+5])<<40 | uint64(b[i+6])<<48 | uint64(b[i+7])<<56
		if w&0x8080808080808080 != 0 {
			return false
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
