package guts

import (
	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/scalar"
)

// EndIndex returns the index past the last code unit.
func (g *Guts) EndIndex() index.Index {
	return index.NewAligned(g.obj.Count())
}

func (g *Guts) checkIndex(i index.Index) {
	assert.That(i.Offset() <= g.obj.Count(), "index out of bounds")
}

// ScalarAlign rounds i down to the start of the scalar containing it.
func (g *Guts) ScalarAlign(i index.Index) index.Index {
	if i.IsAligned() {
		return i
	}
	g.checkIndex(i)
	p := i.Offset()
	if g.IsFastUTF8() {
		return index.NewAligned(scalar.RoundDownToScalar(g.FastUTF8(), p))
	}
	f := g.obj.Foreign()
	if p > 0 && p < f.Len() && scalar.IsTrailSurrogate(f.At(p)) && scalar.IsLeadSurrogate(f.At(p-1)) {
		return index.NewAligned(p - 1)
	}
	return index.NewAligned(p)
}

// ScalarAt decodes the scalar starting at i.
func (g *Guts) ScalarAt(i index.Index) rune {
	i = g.ScalarAlign(i)
	r, _ := g.scalarAt(i.Offset())
	return r
}

// scalarAt decodes the scalar at encoded offset p and returns its length
// in code units.
func (g *Guts) scalarAt(p int) (rune, int) {
	if g.IsFastUTF8() {
		return scalar.DecodeUTF8(g.FastUTF8(), p)
	}
	r, n, _ := g.obj.Foreign().DecodeScalar(p)
	return r, n
}

// scalarBefore decodes the scalar ending at encoded offset p.
func (g *Guts) scalarBefore(p int) (rune, int) {
	if g.IsFastUTF8() {
		return scalar.DecodeLastUTF8(g.FastUTF8(), p)
	}
	r, n, _ := g.obj.Foreign().DecodeLastScalar(p)
	return r, n
}

// ScalarIndexAfter returns the start of the scalar following i.
func (g *Guts) ScalarIndexAfter(i index.Index) index.Index {
	i = g.ScalarAlign(i)
	assert.That(i.Offset() < g.obj.Count(), "scalar index after end")
	_, n := g.scalarAt(i.Offset())
	return index.NewAligned(i.Offset() + n)
}

// ScalarIndexBefore returns the start of the scalar preceding i.
func (g *Guts) ScalarIndexBefore(i index.Index) index.Index {
	aligned := g.ScalarAlign(i)
	if !aligned.Equal(i) {
		return aligned
	}
	assert.That(i.Offset() > 0, "scalar index before start")
	_, n := g.scalarBefore(i.Offset())
	return index.NewAligned(i.Offset() - n)
}

// ScalarCount returns the number of scalars.
func (g *Guts) ScalarCount() int {
	if g.IsASCII() {
		return g.obj.Count()
	}
	n := 0
	for p := 0; p < g.obj.Count(); n++ {
		_, w := g.scalarAt(p)
		p += w
	}
	return n
}

// Scalars calls yield with each scalar and its index until yield returns
// false.
func (g *Guts) Scalars(yield func(index.Index, rune) bool) {
	for p := 0; p < g.obj.Count(); {
		r, n := g.scalarAt(p)
		if !yield(index.NewAligned(p), r) {
			return
		}
		p += n
	}
}
