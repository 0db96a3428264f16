package guts

import (
	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/storage"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// foreignWindow is the initial number of UTF-16 units transcoded when
// segmenting foreign storage. It doubles until the cluster fits.
const foreignWindow = 32

// CharacterStride returns the length in code units of the grapheme cluster
// starting at i.
func (g *Guts) CharacterStride(i index.Index) int {
	if i.IsAligned() {
		if s, ok := i.CharacterStride(); ok {
			return s
		}
	}
	return g.strideAt(i.Offset())
}

func (g *Guts) strideAt(p int) int {
	if p >= g.obj.Count() {
		return 0
	}
	if g.IsFastUTF8() {
		return ucd.GraphemeStride(g.FastUTF8(), p)
	}
	return g.foreignStrideAt(p)
}

// CharacterIndexAfter returns the start of the grapheme cluster following
// i. The stride of that next cluster is cached in the result; i itself is
// never modified.
func (g *Guts) CharacterIndexAfter(i index.Index) index.Index {
	g.checkIndex(i)
	assert.That(i.Offset() < g.obj.Count(), "character index after end")
	next := i.Offset() + g.CharacterStride(i)
	return index.NewAligned(next).WithCharacterStride(g.strideAt(next))
}

// CharacterIndexBefore returns the start of the grapheme cluster ending at
// i, with that cluster's stride cached.
func (g *Guts) CharacterIndexBefore(i index.Index) index.Index {
	g.checkIndex(i)
	p := i.Offset()
	assert.That(p > 0, "character index before start")
	var s int
	if g.IsFastUTF8() {
		s = ucd.GraphemeStrideBefore(g.FastUTF8(), p)
	} else {
		s = g.foreignStrideBefore(p)
	}
	return index.NewAligned(p - s).WithCharacterStride(s)
}

// CharacterCount returns the number of grapheme clusters.
func (g *Guts) CharacterCount() int {
	n := 0
	g.WithUTF8(func(b []byte) {
		n = ucd.GraphemeCount(b)
	})
	return n
}

// CharacterStart returns the start index of the first cluster, with its
// stride cached.
func (g *Guts) CharacterStart() index.Index {
	return index.Start.WithCharacterStride(g.strideAt(0))
}

// transcodeWindow transcodes foreign units [lo, hi) into buf.
func (g *Guts) transcodeWindow(buf *[]byte, lo, hi int) []byte {
	*buf, _ = g.obj.Foreign().AppendUTF8((*buf)[:0], lo, hi)
	return *buf
}

func (g *Guts) foreignStrideAt(p int) int {
	f := g.obj.Foreign()
	n := f.Len()
	buf := storage.GetScratch(foreignWindow * 3)
	defer storage.PutScratch(buf)

	for w := foreignWindow; ; w *= 2 {
		hi := min(n, p+w)
		if hi < n && scalar.IsLeadSurrogate(f.At(hi-1)) {
			hi++
		}
		win := g.transcodeWindow(buf, p, hi)
		s := ucd.GraphemeStride(win, 0)
		// A boundary before the window end cannot move when the window
		// grows.
		if s < len(win) || hi == n {
			return scalar.UTF16Count(win[:s])
		}
	}
}

func (g *Guts) foreignStrideBefore(p int) int {
	f := g.obj.Foreign()
	buf := storage.GetScratch(foreignWindow * 3)
	defer storage.PutScratch(buf)

	for w := foreignWindow; ; w *= 2 {
		lo := max(0, p-w)
		if lo > 0 && scalar.IsTrailSurrogate(f.At(lo)) && scalar.IsLeadSurrogate(f.At(lo-1)) {
			lo--
		}
		win := g.transcodeWindow(buf, lo, p)
		s := ucd.GraphemeStrideBefore(win, len(win))
		if lo == 0 || hasGuaranteedBoundary(win) {
			return scalar.UTF16Count(win[len(win)-s:])
		}
	}
}

// hasGuaranteedBoundary reports whether b contains a position that is a
// grapheme boundary regardless of what precedes b.
func hasGuaranteedBoundary(b []byte) bool {
	for k := len(b) - 1; k > 0; k-- {
		if ucd.IsGuaranteedBoundary(b[k-1], b[k]) {
			return true
		}
	}
	return false
}
