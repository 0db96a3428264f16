package guts

import (
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/scalar"
)

// On foreign storage a UTF-8 index addresses a byte of the scalar starting
// at its unit offset through the transcoded offset.

// UTF8ByteAt returns the UTF-8 code unit at i.
func (g *Guts) UTF8ByteAt(i index.Index) byte {
	g.checkIndex(i)
	if g.IsFastUTF8() {
		return g.FastUTF8()[i.Offset()]
	}
	r, _, _ := g.obj.Foreign().DecodeScalar(i.Offset())
	var buf [scalar.MaxUTF8Len]byte
	scalar.AppendUTF8(buf[:0], r)
	return buf[i.Transcoded()]
}

// UTF8IndexAfter returns the index of the byte following i.
func (g *Guts) UTF8IndexAfter(i index.Index) index.Index {
	g.checkIndex(i)
	p := i.Offset()
	if g.IsFastUTF8() {
		b := g.FastUTF8()
		if p+1 == len(b) || !scalar.IsContinuation(b[p+1]) {
			return index.NewAligned(p + 1)
		}
		return index.New(p + 1)
	}
	r, n, _ := g.obj.Foreign().DecodeScalar(p)
	if t := i.Transcoded() + 1; t < scalar.UTF8Len(r) {
		return index.NewTranscoded(p, t)
	}
	return index.NewAligned(p + n)
}

// UTF8IndexBefore returns the index of the byte preceding i.
func (g *Guts) UTF8IndexBefore(i index.Index) index.Index {
	g.checkIndex(i)
	p := i.Offset()
	if g.IsFastUTF8() {
		if scalar.IsContinuation(g.FastUTF8()[p-1]) {
			return index.New(p - 1)
		}
		return index.NewAligned(p - 1)
	}
	if t := i.Transcoded(); t > 0 {
		return index.NewTranscoded(p, t-1)
	}
	r, n, _ := g.obj.Foreign().DecodeLastScalar(p)
	return index.NewTranscoded(p-n, scalar.UTF8Len(r)-1)
}

// UTF8Offset returns the UTF-8 byte offset of i.
func (g *Guts) UTF8Offset(i index.Index) int {
	g.checkIndex(i)
	if g.IsFastUTF8() || g.IsASCII() {
		return i.Offset()
	}
	f := g.obj.Foreign()
	n := 0
	for p := 0; p < i.Offset(); {
		r, w, _ := f.DecodeScalar(p)
		n += scalar.UTF8Len(r)
		p += w
	}
	return n + i.Transcoded()
}

// UTF8Index returns the index of a UTF-8 byte offset.
func (g *Guts) UTF8Index(offset int) index.Index {
	if g.IsFastUTF8() {
		b := g.FastUTF8()
		if offset == len(b) || !scalar.IsContinuation(b[offset]) {
			return index.NewAligned(offset)
		}
		return index.New(offset)
	}
	if g.IsASCII() {
		return index.NewAligned(offset)
	}
	f := g.obj.Foreign()
	n := 0
	p := 0
	for p < f.Len() {
		r, w, _ := f.DecodeScalar(p)
		l := scalar.UTF8Len(r)
		if n+l > offset {
			return index.NewTranscoded(p, offset-n)
		}
		n += l
		p += w
	}
	return index.NewAligned(p)
}
