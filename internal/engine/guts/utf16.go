package guts

import (
	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/storage"
)

// usesBreadcrumbs reports whether UTF-16 translation goes through the
// storage's breadcrumbs.
func (g *Guts) usesBreadcrumbs() bool {
	return g.obj.IsNative() && !g.IsASCII() && g.obj.Count() >= storage.BreadcrumbStride
}

func (g *Guts) breadcrumbs() *storage.Breadcrumbs {
	return g.obj.Native().Breadcrumbs(g.obj.Count())
}

// UTF16Count returns the length in UTF-16 code units.
func (g *Guts) UTF16Count() int {
	switch {
	case g.IsForeign(), g.IsASCII():
		return g.obj.Count()
	case g.usesBreadcrumbs():
		return g.breadcrumbs().UTF16Offset(g.FastUTF8(), g.EndIndex())
	default:
		return scalar.UTF16Count(g.FastUTF8())
	}
}

// UTF16Offset returns the UTF-16 offset of i.
func (g *Guts) UTF16Offset(i index.Index) int {
	g.checkIndex(i)
	switch {
	case g.IsForeign(), g.IsASCII():
		return i.Offset()
	case g.usesBreadcrumbs():
		return g.breadcrumbs().UTF16Offset(g.FastUTF8(), i)
	default:
		b := g.FastUTF8()
		return scalar.UTF16Count(b[:i.Offset()]) + i.Transcoded()
	}
}

// UTF16Index returns the index of a UTF-16 offset. An offset between the
// halves of a surrogate pair yields a transcoded index on UTF-8 storage.
func (g *Guts) UTF16Index(offset int) index.Index {
	switch {
	case g.IsForeign():
		return g.foreignIndex(offset)
	case g.IsASCII():
		assert.That(offset <= g.obj.Count(), "UTF-16 offset out of bounds")
		return index.NewAligned(offset)
	case g.usesBreadcrumbs():
		return g.breadcrumbs().IndexOf(g.FastUTF8(), offset)
	}

	b := g.FastUTF8()
	u := 0
	p := 0
	for u < offset {
		assert.That(p < len(b), "UTF-16 offset out of bounds")
		r, n := scalar.DecodeUTF8(b, p)
		w := scalar.UTF16Len(r)
		if u+w > offset {
			return index.NewTranscoded(p, 1)
		}
		u += w
		p += n
	}
	return index.NewAligned(p)
}

// foreignIndex returns the index of a unit offset in foreign storage,
// marked aligned unless it splits a surrogate pair.
func (g *Guts) foreignIndex(p int) index.Index {
	f := g.obj.Foreign()
	assert.That(p <= f.Len(), "UTF-16 offset out of bounds")
	if p > 0 && p < f.Len() && scalar.IsTrailSurrogate(f.At(p)) && scalar.IsLeadSurrogate(f.At(p-1)) {
		return index.New(p)
	}
	return index.NewAligned(p)
}

// UTF16UnitAt returns the UTF-16 code unit at i.
func (g *Guts) UTF16UnitAt(i index.Index) uint16 {
	g.checkIndex(i)
	if g.IsForeign() {
		return g.obj.Foreign().At(i.Offset())
	}
	r, _ := scalar.DecodeUTF8(g.FastUTF8(), i.Offset())
	return scalar.UTF16Unit(r, i.Transcoded())
}

// UTF16IndexAfter returns the index of the UTF-16 unit following i.
func (g *Guts) UTF16IndexAfter(i index.Index) index.Index {
	g.checkIndex(i)
	if g.IsForeign() {
		return g.foreignIndex(i.Offset() + 1)
	}
	p := i.Offset()
	r, n := scalar.DecodeUTF8(g.FastUTF8(), p)
	if scalar.UTF16Len(r) == 2 && i.Transcoded() == 0 {
		return index.NewTranscoded(p, 1)
	}
	return index.NewAligned(p + n)
}

// UTF16IndexBefore returns the index of the UTF-16 unit preceding i.
func (g *Guts) UTF16IndexBefore(i index.Index) index.Index {
	g.checkIndex(i)
	p := i.Offset()
	if g.IsForeign() {
		return g.foreignIndex(p - 1)
	}
	if i.Transcoded() != 0 {
		return index.NewAligned(p)
	}
	r, n := scalar.DecodeLastUTF8(g.FastUTF8(), p)
	if scalar.UTF16Len(r) == 2 {
		return index.NewTranscoded(p-n, 1)
	}
	return index.NewAligned(p - n)
}

// UTF16Distance returns the number of UTF-16 units from i to j.
func (g *Guts) UTF16Distance(i, j index.Index) int {
	return g.UTF16Offset(j) - g.UTF16Offset(i)
}

// UTF16IndexOffsetBy returns the index n UTF-16 units from i.
func (g *Guts) UTF16IndexOffsetBy(i index.Index, n int) index.Index {
	return g.UTF16Index(g.UTF16Offset(i) + n)
}
