package guts

import (
	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/object"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/small"
	"github.com/dshills/ustr/internal/engine/storage"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// Append extends g with the content of other. Storage shared with other
// values is never written.
func (g *Guts) Append(other *Guts) {
	if other.IsEmpty() {
		return
	}
	if g.IsEmpty() {
		// Sharing is safe: whichever value appends first claims the tail.
		*g = *other
		return
	}
	if other.IsFastUTF8() {
		g.appendUTF8(other.FastUTF8(), other.IsASCII(), other.IsNFC())
		return
	}

	// Opaque content is transcoded, never copied raw.
	f := other.obj.Foreign()
	buf := storage.GetScratch(f.UTF8Len())
	*buf, _ = f.AppendUTF8(*buf, 0, f.Len())
	g.appendUTF8(*buf, other.IsASCII(), other.IsNFC())
	storage.PutScratch(buf)
}

// AppendValidUTF8 extends g with well-formed UTF-8 described by sum.
func (g *Guts) AppendValidUTF8(b []byte, sum scalar.Summary) {
	if len(b) == 0 {
		return
	}
	ascii := sum.IsASCII()
	g.appendUTF8(b, ascii, ascii || ucd.IsNFC(b))
}

// appendUTF8 appends b, whose flags are given, following the small, in
// place and reallocate paths in that order.
func (g *Guts) appendUTF8(b []byte, ascii, nfc bool) {
	if len(b) == 0 {
		return
	}
	resultASCII := g.IsASCII() && ascii
	resultNFC := g.IsNFC() && nfc && ucd.HasBoundaryBefore(b)
	count := g.obj.Count()

	switch g.obj.Kind() {
	case object.KindSmall:
		if sm, ok := g.obj.Small().Append(b); ok {
			g.obj = object.FromSmall(sm, resultNFC)
			return
		}
	case object.KindNative:
		n := g.obj.Native()
		if n.AppendInPlace(count, b, storageFlags(resultASCII, resultNFC)) {
			g.obj = object.FromNative(n, count+len(b), resultASCII, resultNFC)
			return
		}
	case object.KindUnmanaged:
		if count+len(b) <= small.Capacity {
			sm, _ := small.New(g.FastUTF8())
			sm, _ = sm.Append(b)
			g.obj = object.FromSmall(sm, resultNFC)
			return
		}
	case object.KindForeign:
	}

	g.grow(storage.GrowCapacity(g.ownedCapacity(), g.UTF8Count()+len(b)), b, resultASCII, resultNFC)
}

// ownedCapacity is the capacity growth is measured against.
func (g *Guts) ownedCapacity() int {
	switch g.obj.Kind() {
	case object.KindSmall:
		return small.Capacity
	case object.KindNative:
		return g.obj.Native().Capacity()
	default:
		return 0
	}
}

// grow moves the content followed by tail into fresh native storage of at
// least capacity bytes.
func (g *Guts) grow(capacity int, tail []byte, ascii, nfc bool) {
	flags := storageFlags(ascii, nfc)
	var n *storage.Native
	if g.IsFastUTF8() {
		n = storage.CreateFrom(capacity, flags, g.FastUTF8(), tail)
	} else {
		f := g.obj.Foreign()
		buf := storage.GetScratch(f.UTF8Len())
		*buf, _ = f.AppendUTF8(*buf, 0, f.Len())
		n = storage.CreateFrom(capacity, flags, *buf, tail)
		storage.PutScratch(buf)
	}
	g.obj = object.FromNative(n, n.Count(), ascii, nfc)
	g.Check()
}

// ReserveCapacity ensures at least n bytes can be held and appended in
// place without reallocating.
func (g *Guts) ReserveCapacity(n int) {
	switch g.obj.Kind() {
	case object.KindSmall:
		if n <= small.Capacity {
			return
		}
	case object.KindNative:
		if g.IsUniqueTail() && g.obj.Native().Capacity() >= n {
			return
		}
	case object.KindForeign, object.KindUnmanaged:
	}
	need := max(n, g.UTF8Count())
	g.grow(storage.GrowCapacity(g.ownedCapacity(), need), nil, g.IsASCII(), g.IsNFC())
}

// ReplaceSubrange replaces the UTF-8 bytes in [lo, hi) with the content of
// with. The result always lives in fresh storage.
func (g *Guts) ReplaceSubrange(lo, hi int, with *Guts) {
	g.WithUTF8(func(b []byte) {
		assert.That(0 <= lo && lo <= hi && hi <= len(b), "replaced range out of bounds")
		total := len(b) - (hi - lo) + with.UTF8Count()
		out := make([]byte, 0, total)
		out = append(out, b[:lo]...)
		out = with.AppendUTF8(out)
		out = append(out, b[hi:]...)
		*g = fromBuilt(out, max(total, g.ownedCapacity()))
	})
}

// SliceUTF8 returns the content in the UTF-8 byte range [lo, hi). Prefixes
// of native storage share it.
func (g *Guts) SliceUTF8(lo, hi int) Guts {
	if lo == hi {
		return Guts{}
	}
	if lo == 0 && hi == g.Count() && !g.IsForeign() {
		return *g
	}
	var out Guts
	g.WithUTF8(func(b []byte) {
		assert.That(0 <= lo && lo <= hi && hi <= len(b), "slice out of bounds")
		sub := b[lo:hi]
		ascii := g.IsASCII() || scalar.IsAllASCII(sub)
		nfc := ascii || ucd.IsNFC(sub)
		if lo == 0 && g.obj.IsNative() && hi > small.Capacity {
			out = Guts{obj: object.FromNative(g.obj.Native(), hi, ascii, nfc)}
			return
		}
		out = fromOwned(sub, ascii, nfc, 0)
	})
	return out
}

// Slice returns the content between two scalar-aligned indices. Foreign
// content is transcoded into owned storage.
func (g *Guts) Slice(lo, hi index.Index) Guts {
	if !g.IsForeign() {
		return g.SliceUTF8(lo.Offset(), hi.Offset())
	}
	if lo.Offset() == hi.Offset() {
		return Guts{}
	}
	f := g.obj.Foreign()
	assert.That(lo.Offset() <= hi.Offset() && hi.Offset() <= f.Len(), "slice out of bounds")
	b, sum := f.AppendUTF8(nil, lo.Offset(), hi.Offset())
	return fromOwned(b, sum.IsASCII(), sum.IsASCII() || ucd.IsNFC(b), 0)
}

// fromBuilt takes ownership of freshly built well-formed UTF-8.
func fromBuilt(b []byte, capacity int) Guts {
	ascii := scalar.IsAllASCII(b)
	return fromOwned(b, ascii, ascii || ucd.IsNFC(b), capacity)
}

// FromBuiltUTF8 takes a copy of well-formed UTF-8 produced by a
// transformation and computes its flags.
func FromBuiltUTF8(b []byte) Guts {
	return fromBuilt(b, 0)
}
