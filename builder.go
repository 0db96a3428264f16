package ustr

import (
	"errors"
	"fmt"

	"github.com/dshills/ustr/internal/engine/scalar"
)

// Builder accumulates a String with amortized appends. The zero value is
// ready to use.
//
// Write accepts arbitrary byte chunks: a multi-byte sequence split across
// writes is held back until it completes, and malformed input is repaired
// with U+FFFD. A Builder must not be copied after first use.
type Builder struct {
	s       String
	pending [scalar.MaxUTF8Len]byte
	npend   int
}

// Grow ensures n more bytes can be written without reallocating.
func (b *Builder) Grow(n int) {
	if n < 0 {
		panic("ustr.Builder.Grow: negative count")
	}
	b.s.ReserveCapacity(b.s.g.Count() + b.npend + n)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return b.s.g.Count() + b.npend
}

// Write appends p. It always returns len(p), nil.
func (b *Builder) Write(p []byte) (int, error) {
	n := len(p)
	if b.npend > 0 {
		p = append(b.pending[:b.npend:b.npend], p...)
		b.npend = 0
	}
	cut := incompleteTail(p)
	b.s.appendBytes(p[:cut])
	b.npend = copy(b.pending[:], p[cut:])
	return n, nil
}

// WriteString appends str. It always returns len(str), nil.
func (b *Builder) WriteString(str string) (int, error) {
	if b.npend > 0 {
		return b.Write(stringBytes(str))
	}
	b.s.appendBytes(stringBytes(str))
	return len(str), nil
}

// WriteRune appends the UTF-8 encoding of r.
func (b *Builder) WriteRune(r rune) (int, error) {
	b.flush()
	before := b.s.g.Count()
	b.s.AppendRune(r)
	return b.s.g.Count() - before, nil
}

// WriteByte appends an ASCII byte. Other bytes are rejected since they
// cannot stand alone in UTF-8.
func (b *Builder) WriteByte(c byte) error {
	if !scalar.IsASCII(c) {
		return fmt.Errorf("%w: byte %#x", ErrInvalidUTF8, c)
	}
	b.flush()
	b.s.appendBytes([]byte{c})
	return nil
}

// String returns the accumulated content as a Go string.
func (b *Builder) String() string {
	v := b.Value()
	return v.String()
}

// Value returns the accumulated String. The Builder remains usable; later
// writes do not affect the returned value.
func (b *Builder) Value() String {
	b.flush()
	return b.s
}

// Reset discards the accumulated content.
func (b *Builder) Reset() {
	*b = Builder{}
}

// flush appends a held-back partial sequence, which repairs to U+FFFD.
func (b *Builder) flush() {
	if b.npend == 0 {
		return
	}
	b.s.appendBytes(b.pending[:b.npend])
	b.npend = 0
}

// incompleteTail returns the length of p without a trailing sequence that
// is a valid prefix of a longer scalar.
func incompleteTail(p []byte) int {
	start := len(p) - 1
	for start >= 0 && start > len(p)-scalar.MaxUTF8Len && scalar.IsContinuation(p[start]) {
		start--
	}
	if start < 0 || scalar.IsASCII(p[start]) {
		return len(p)
	}
	_, _, err := scalar.DecodeUTF8Checked(p, start)
	var de *scalar.DecodeError
	if errors.As(err, &de) && de.Kind == scalar.KindUnexpectedEndOfInput && de.Offset+de.Length == len(p) {
		return start
	}
	return len(p)
}
