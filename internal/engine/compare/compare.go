// Package compare implements canonical-equivalence ordering and hashing.
//
// Two strings are equal when their NFC forms are identical. Content already
// known to be NFC is compared byte for byte; anything else is streamed
// through the segment-wise normalizer, so no full normalized copy is made.
package compare

import (
	"bytes"

	"github.com/dshills/ustr/internal/engine/foreign"
	"github.com/dshills/ustr/internal/engine/guts"
	"github.com/dshills/ustr/internal/engine/normalize"
)

// isFastNFC reports whether g's raw bytes are its canonical form.
func isFastNFC(g *guts.Guts) bool {
	return g.IsNFC() && g.IsFastUTF8()
}

// Compare orders a and b by their NFC UTF-8 encodings, which is the order
// of their canonical scalar sequences. The shorter of two strings sharing a
// prefix sorts first.
func Compare(a, b *guts.Guts) int {
	if isFastNFC(a) && isFastNFC(b) {
		return bytes.Compare(a.FastUTF8(), b.FastUTF8())
	}
	if a.IsFastUTF8() && b.IsFastUTF8() && bytes.Equal(a.FastUTF8(), b.FastUTF8()) {
		return 0
	}

	sa := newStream(a)
	defer sa.close()
	sb := newStream(b)
	defer sb.close()

	for {
		ca, okA := sa.chunk()
		cb, okB := sb.chunk()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return 1
		}
		n := min(len(ca), len(cb))
		if c := bytes.Compare(ca[:n], cb[:n]); c != 0 {
			return c
		}
		sa.advance(n)
		sb.advance(n)
	}
}

// Equal reports whether a and b are canonically equivalent.
func Equal(a, b *guts.Guts) bool {
	if a.IsFastUTF8() && b.IsFastUTF8() {
		ab, bb := a.FastUTF8(), b.FastUTF8()
		if bytes.Equal(ab, bb) {
			return true
		}
		if a.IsNFC() && b.IsNFC() {
			return false
		}
	}
	return Compare(a, b) == 0
}

// stream walks the NFC form of a string as a sequence of byte chunks.
// Foreign content is read through a window as the stream advances, so a
// comparison that stops early never reads the rest of the source.
type stream struct {
	it   *normalize.Iterator
	src  *foreign.Reader
	cur  []byte
	done bool
}

func newStream(g *guts.Guts) *stream {
	if g.IsFastUTF8() {
		return &stream{it: normalize.NewUTF8(g.FastUTF8())}
	}
	r := g.ForeignReader()
	return &stream{it: normalize.NewUnits(r), src: r}
}

// chunk returns the unconsumed part of the current segment, fetching the
// next segment when it is exhausted.
func (s *stream) chunk() ([]byte, bool) {
	for len(s.cur) == 0 {
		if s.done {
			return nil, false
		}
		seg, ok := s.it.Next()
		if !ok {
			s.done = true
			return nil, false
		}
		s.cur = seg
	}
	return s.cur, true
}

func (s *stream) advance(n int) {
	s.cur = s.cur[n:]
}

func (s *stream) close() {
	s.it.Close()
	if s.src != nil {
		s.src.Release()
	}
}

// AppendNFC appends the NFC UTF-8 form of g to dst.
func AppendNFC(dst []byte, g *guts.Guts) []byte {
	if isFastNFC(g) {
		return append(dst, g.FastUTF8()...)
	}
	s := newStream(g)
	defer s.close()
	for c, ok := s.chunk(); ok; c, ok = s.chunk() {
		dst = append(dst, c...)
		s.advance(len(c))
	}
	return dst
}
