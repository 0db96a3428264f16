package scalar

import "unicode/utf8"

// Flags indicate content properties used for fast paths.
type Flags uint8

const (
	// FlagASCII indicates all scalars are ASCII (< 128).
	FlagASCII Flags = 1 << iota
)

// Summary holds aggregated metrics for a span of text.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// UTF16Units is the UTF-16 code unit count.
	UTF16Units int

	// Scalars is the number of Unicode scalars.
	Scalars int

	// Flags indicate content properties.
	Flags Flags
}

// IsASCII reports whether the summarized text is all ASCII.
func (s Summary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// Add combines two summaries (monoid operation).
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes:      s.Bytes + other.Bytes,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Scalars:    s.Scalars + other.Scalars,
		Flags:      s.Flags & other.Flags, // AND for flags (all must have property)
	}
}

// Zero returns the identity element for the summary monoid.
func (Summary) Zero() Summary {
	return Summary{Flags: FlagASCII}
}

func (s *Summary) add(r rune) {
	if r >= utf8.RuneSelf {
		s.Flags &^= FlagASCII
	}
	s.Bytes += UTF8Len(r)
	s.UTF16Units += UTF16Len(r)
	s.Scalars++
}

// Summarize computes metrics for well-formed UTF-8.
func Summarize(b []byte) Summary {
	sum := Summary{Flags: FlagASCII}
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			sum.Bytes++
			sum.UTF16Units++
			sum.Scalars++
			i++
			continue
		}
		r, n := utf8.DecodeRune(b[i:])
		sum.add(r)
		i += n
	}
	return sum
}

// UTF16Count returns the number of UTF-16 code units needed for well-formed
// UTF-8 input.
func UTF16Count(b []byte) int {
	n := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		// Every non-continuation byte starts a scalar; four-byte leads start
		// a surrogate pair.
		if !IsContinuation(c) {
			n++
			if c >= 0xF0 {
				n++
			}
		}
	}
	return n
}
