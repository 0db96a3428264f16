package ustr

import (
	"unicode/utf8"

	"github.com/dshills/ustr/internal/engine/compare"
	"github.com/dshills/ustr/internal/engine/guts"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// Append appends other to s. Appending to a value whose storage tail is
// unclaimed writes in place; otherwise storage grows geometrically.
func (s *String) Append(other String) {
	s.g.Append(&other.g)
}

// AppendString appends str, repairing malformed UTF-8.
func (s *String) AppendString(str string) {
	s.appendBytes(stringBytes(str))
}

// AppendRune appends r. Invalid scalars append U+FFFD.
func (s *String) AppendRune(r rune) {
	var buf [utf8.UTFMax]byte
	b := utf8.AppendRune(buf[:0], r)
	s.g.AppendValidUTF8(b, scalar.Summarize(b))
}

func (s *String) appendBytes(b []byte) {
	sum, err := scalar.Validate(b)
	if err != nil {
		b, sum, _ = scalar.AppendRepaired(make([]byte, 0, len(b)+2), b)
	}
	s.g.AppendValidUTF8(b, sum)
}

// ReserveCapacity ensures s can grow to n UTF-8 bytes without reallocating.
// The reserved storage is owned by s alone.
func (s *String) ReserveCapacity(n int) {
	s.g.ReserveCapacity(n)
}

// ReplaceSubrange replaces the content between lo and hi with with.
func (s *String) ReplaceSubrange(lo, hi Index, with String) error {
	lo, hi, err := s.bounds(lo, hi)
	if err != nil {
		return err
	}
	var lo8, hi8 int
	if s.g.IsForeign() {
		lo8, hi8 = s.g.UTF8Offset(lo), s.g.UTF8Offset(hi)
	} else {
		lo8, hi8 = lo.Offset(), hi.Offset()
	}
	s.g.ReplaceSubrange(lo8, hi8, &with.g)
	return nil
}

// Insert inserts other at i.
func (s *String) Insert(i Index, other String) error {
	return s.ReplaceSubrange(i, i, other)
}

// RemoveSubrange removes the content between lo and hi.
func (s *String) RemoveSubrange(lo, hi Index) error {
	return s.ReplaceSubrange(lo, hi, String{})
}

// Concat returns a followed by b.
func Concat(a, b String) String {
	a.Append(b)
	return a
}

// Lowercased returns s with full Unicode lowercase mapping applied.
func (s String) Lowercased() String {
	return s.mapped(ucd.ToLower)
}

// Uppercased returns s with full Unicode uppercase mapping applied.
func (s String) Uppercased() String {
	return s.mapped(ucd.ToUpper)
}

func (s *String) mapped(f func([]byte) []byte) String {
	var out guts.Guts
	s.g.WithUTF8(func(b []byte) {
		out = guts.FromBuiltUTF8(f(b))
	})
	return String{g: out}
}

// NFC returns s in Normalization Form C. A string already known to be NFC
// is returned as is.
func (s String) NFC() String {
	if s.g.IsNFC() {
		return s
	}
	return String{g: guts.FromBuiltUTF8(compare.AppendNFC(nil, &s.g))}
}
