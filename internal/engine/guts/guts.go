// Package guts implements the copy-on-write engine behind the public string
// type.
//
// A Guts wraps an object.Object and dispatches every operation between the
// fast path (contiguous UTF-8 in small, native or unmanaged storage) and the
// opaque path (foreign UTF-16 storage read through its Source). Mutating
// methods never write memory another value can observe: native storage is
// extended in place only after the tail has been claimed, and every other
// change allocates fresh storage.
package guts

import (
	"slices"

	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/foreign"
	"github.com/dshills/ustr/internal/engine/object"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/small"
	"github.com/dshills/ustr/internal/engine/storage"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// Guts is the storage of a string value. The zero value is empty.
type Guts struct {
	obj object.Object
}

// FromObject wraps an existing object.
func FromObject(o object.Object) Guts {
	return Guts{obj: o}
}

// FromValidUTF8 copies well-formed UTF-8 described by sum.
func FromValidUTF8(b []byte, sum scalar.Summary) Guts {
	return fromOwned(b, sum.IsASCII(), sum.IsASCII() || ucd.IsNFC(b), 0)
}

// FromStatic references well-formed UTF-8 that lives for the rest of the
// process. Content that fits inline is copied instead.
func FromStatic(s string, sum scalar.Summary) Guts {
	if len(s) <= small.Capacity {
		sm, _ := small.FromString(s)
		return Guts{obj: object.FromSmall(sm, sm.IsASCII() || ucd.IsNFC(sm.View()))}
	}
	ascii := sum.IsASCII()
	nfc := ascii || ucd.IsNFC(unsafeBytes(s))
	return Guts{obj: object.FromUnmanaged(s, ascii, nfc)}
}

// FromForeign wraps a foreign source.
func FromForeign(src foreign.Source) Guts {
	f := foreign.Wrap(src)
	if f.Len() == 0 {
		return Guts{}
	}
	return Guts{obj: object.FromForeign(f, f.IsASCII())}
}

// fromOwned builds small or native storage holding a copy of b.
func fromOwned(b []byte, ascii, nfc bool, capacity int) Guts {
	if len(b) <= small.Capacity && capacity <= small.Capacity {
		sm, _ := small.New(b)
		return Guts{obj: object.FromSmall(sm, nfc)}
	}
	n := storage.CreateFrom(max(capacity, len(b)), storageFlags(ascii, nfc), b)
	return Guts{obj: object.FromNative(n, len(b), ascii, nfc)}
}

func storageFlags(ascii, nfc bool) storage.Flags {
	var f storage.Flags
	if ascii {
		f |= storage.FlagASCII
	}
	if nfc || ascii {
		f |= storage.FlagNFC
	}
	return f
}

// Object returns the underlying storage object.
func (g *Guts) Object() object.Object {
	return g.obj
}

// Kind returns the storage kind.
func (g *Guts) Kind() object.Kind {
	return g.obj.Kind()
}

// IsEmpty reports whether the string has no content.
func (g *Guts) IsEmpty() bool {
	return g.obj.IsEmpty()
}

// IsASCII reports whether every scalar is ASCII.
func (g *Guts) IsASCII() bool {
	return g.obj.IsASCII()
}

// IsNFC reports whether the content is known to be NFC. A false result
// does not mean the content is not NFC.
func (g *Guts) IsNFC() bool {
	return g.obj.IsNFC()
}

// IsFastUTF8 reports whether contiguous UTF-8 is available.
func (g *Guts) IsFastUTF8() bool {
	return g.obj.IsFastUTF8()
}

// IsForeign reports whether the content lives in foreign storage.
func (g *Guts) IsForeign() bool {
	return g.obj.IsForeign()
}

// Count returns the length in code units of the storage encoding.
func (g *Guts) Count() int {
	return g.obj.Count()
}

// FastUTF8 returns the contiguous UTF-8 content. The slice is borrowed: it
// must not be written and is valid only until g is next assigned.
func (g *Guts) FastUTF8() []byte {
	switch g.obj.Kind() {
	case object.KindSmall:
		return g.obj.SmallView()
	case object.KindNative:
		return g.obj.Native().Bytes(g.obj.Count())
	case object.KindUnmanaged:
		return g.obj.UnmanagedBytes()
	case object.KindForeign:
		assert.That(false, "FastUTF8 on foreign storage")
	}
	return nil
}

// WithFastUTF8 calls body with the contiguous UTF-8 content. It must only
// be called when IsFastUTF8 reports true.
func (g *Guts) WithFastUTF8(body func([]byte)) {
	assert.That(g.IsFastUTF8(), "WithFastUTF8 on opaque storage")
	body(g.FastUTF8())
}

// Capacity returns the number of bytes the string can hold without
// reallocating. Storage the string does not own reports its count.
func (g *Guts) Capacity() int {
	switch g.obj.Kind() {
	case object.KindSmall:
		return small.Capacity
	case object.KindNative:
		return g.obj.Native().Capacity()
	case object.KindForeign, object.KindUnmanaged:
		return g.obj.Count()
	}
	return 0
}

// StorageID identifies native storage for diagnostics. It is zero for
// every other kind.
func (g *Guts) StorageID() uintptr {
	if g.obj.IsNative() {
		return g.obj.Native().ID()
	}
	return 0
}

// IsUniqueTail reports whether an append that fits would be performed in
// place.
func (g *Guts) IsUniqueTail() bool {
	return g.obj.IsNative() && g.obj.Native().OwnsTail(g.obj.Count())
}

// UTF8Count returns the length in UTF-8 bytes. Foreign storage counts each
// unpaired surrogate as the three bytes of U+FFFD.
func (g *Guts) UTF8Count() int {
	if g.IsFastUTF8() {
		return g.obj.Count()
	}
	return g.obj.Foreign().UTF8Len()
}

// AppendUTF8 appends the UTF-8 content to dst.
func (g *Guts) AppendUTF8(dst []byte) []byte {
	if g.IsFastUTF8() {
		return append(dst, g.FastUTF8()...)
	}
	f := g.obj.Foreign()
	dst, _ = f.AppendUTF8(slices.Grow(dst, f.UTF8Len()), 0, f.Len())
	return dst
}

// ForeignReader returns a windowed reader over foreign storage. The caller
// must Release it.
func (g *Guts) ForeignReader() *foreign.Reader {
	return g.obj.Foreign().Reader()
}

// String returns the content as a Go string.
func (g *Guts) String() string {
	if g.obj.IsUnmanaged() {
		b := g.obj.UnmanagedBytes()
		return unsafeString(b)
	}
	if g.IsFastUTF8() {
		return string(g.FastUTF8())
	}
	return string(g.AppendUTF8(make([]byte, 0, g.UTF8Count())))
}

// AppendUTF16 appends the UTF-16 content to dst.
func (g *Guts) AppendUTF16(dst []uint16) []uint16 {
	if g.IsForeign() {
		f := g.obj.Foreign()
		start := len(dst)
		dst = append(dst, make([]uint16, f.Len())...)
		f.CopyUnits(dst[start:], 0)
		return dst
	}
	b := g.FastUTF8()
	for p := 0; p < len(b); {
		r, n := scalar.DecodeUTF8(b, p)
		dst = scalar.AppendUTF16(dst, r)
		p += n
	}
	return dst
}

// WithUTF8 calls body with UTF-8 content, transcoding foreign storage into
// a pooled buffer.
func (g *Guts) WithUTF8(body func([]byte)) {
	if g.IsFastUTF8() {
		body(g.FastUTF8())
		return
	}
	f := g.obj.Foreign()
	buf := storage.GetScratch(f.UTF8Len())
	*buf, _ = f.AppendUTF8(*buf, 0, f.Len())
	body(*buf)
	storage.PutScratch(buf)
}

// Check verifies the storage invariants under the debug build tag.
func (g *Guts) Check() {
	if !assert.Enabled {
		return
	}
	g.obj.Check()
	if g.obj.IsNative() {
		g.obj.Native().Check()
	}
	if g.IsFastUTF8() && g.IsASCII() {
		assert.That(scalar.IsAllASCII(g.FastUTF8()), "ASCII flag set on non-ASCII content")
	}
	if g.IsForeign() {
		f := g.obj.Foreign()
		_, sum := f.AppendUTF8(nil, 0, f.Len())
		assert.That(sum.Bytes == f.UTF8Len(), "cached UTF-8 length is stale")
	}
}
