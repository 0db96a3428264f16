// Package object defines the tagged storage object behind every string
// value.
//
// An Object is a closed sum over four storage kinds. Exactly one kind is
// active, selected by a two-bit discriminant that shares a byte with the
// content flags. The zero Object is the empty small string.
package object

import (
	"fmt"
	"unsafe"

	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/foreign"
	"github.com/dshills/ustr/internal/engine/small"
	"github.com/dshills/ustr/internal/engine/storage"
)

// Kind selects the active storage variant.
type Kind uint8

const (
	// KindSmall stores the content inline.
	KindSmall Kind = iota

	// KindNative references owned heap storage.
	KindNative

	// KindForeign references externally owned UTF-16 storage.
	KindForeign

	// KindUnmanaged references immortal bytes that are never freed or
	// written.
	KindUnmanaged
)

var kindNames = [...]string{
	KindSmall:     "small",
	KindNative:    "native",
	KindForeign:   "foreign",
	KindUnmanaged: "unmanaged",
}

// String returns the kind's name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Flags describe the content independently of the kind.
type Flags uint8

const (
	// FlagASCII indicates every scalar is ASCII.
	FlagASCII Flags = 1 << iota

	// FlagSingleByte indicates UTF-8 storage. Foreign storage is UTF-16.
	FlagSingleByte

	// FlagOpaque indicates the storage has no contiguous UTF-8 view.
	FlagOpaque

	// FlagNFC indicates the content is known to be in NFC.
	FlagNFC
)

// zeroFlags are stored inverted so the zero discriminant describes the
// empty small string.
const zeroFlags = FlagASCII | FlagSingleByte | FlagNFC

const (
	kindMask  = 0x3
	flagShift = 2
)

// Object is the storage of a string value.
type Object struct {
	inline small.String
	ref    unsafe.Pointer
	count  int
	disc   uint8
}

func pack(k Kind, f Flags) uint8 {
	return uint8(k) | uint8(f^zeroFlags)<<flagShift
}

func contentFlags(ascii, nfc bool) Flags {
	var f Flags
	if ascii {
		f |= FlagASCII | FlagNFC
	}
	if nfc {
		f |= FlagNFC
	}
	return f
}

// FromSmall returns an object holding s inline.
func FromSmall(s small.String, nfc bool) Object {
	o := Object{
		inline: s,
		count:  s.Count(),
		disc:   pack(KindSmall, FlagSingleByte|contentFlags(s.IsASCII(), nfc)),
	}
	o.Check()
	return o
}

// FromNative returns an object viewing the first count bytes of n.
func FromNative(n *storage.Native, count int, ascii, nfc bool) Object {
	o := Object{
		ref:   unsafe.Pointer(n),
		count: count,
		disc:  pack(KindNative, FlagSingleByte|contentFlags(ascii, nfc)),
	}
	o.Check()
	return o
}

// FromForeign returns an object wrapping foreign storage.
func FromForeign(f *foreign.Storage, nfc bool) Object {
	o := Object{
		ref:   unsafe.Pointer(f),
		count: f.Len(),
		disc:  pack(KindForeign, FlagOpaque|contentFlags(f.IsASCII(), nfc)),
	}
	o.Check()
	return o
}

// FromUnmanaged returns an object referencing the immortal bytes of s,
// which must not be empty.
func FromUnmanaged(s string, ascii, nfc bool) Object {
	o := Object{
		ref:   unsafe.Pointer(unsafe.StringData(s)),
		count: len(s),
		disc:  pack(KindUnmanaged, FlagSingleByte|contentFlags(ascii, nfc)),
	}
	o.Check()
	return o
}

// Kind returns the active variant.
func (o Object) Kind() Kind {
	return Kind(o.disc & kindMask)
}

// Flags returns the content flags.
func (o Object) Flags() Flags {
	return Flags(o.disc>>flagShift) ^ zeroFlags
}

// IsSmall reports whether the content is stored inline.
func (o Object) IsSmall() bool { return o.Kind() == KindSmall }

// IsNative reports whether the content is in owned heap storage.
func (o Object) IsNative() bool { return o.Kind() == KindNative }

// IsForeign reports whether the content is in foreign storage.
func (o Object) IsForeign() bool { return o.Kind() == KindForeign }

// IsUnmanaged reports whether the content is immortal.
func (o Object) IsUnmanaged() bool { return o.Kind() == KindUnmanaged }

// IsASCII reports whether every scalar is ASCII.
func (o Object) IsASCII() bool { return o.Flags()&FlagASCII != 0 }

// IsNFC reports whether the content is known to be NFC.
func (o Object) IsNFC() bool { return o.Flags()&FlagNFC != 0 }

// IsSingleByte reports whether code units are bytes.
func (o Object) IsSingleByte() bool { return o.Flags()&FlagSingleByte != 0 }

// IsOpaque reports whether the storage lacks a contiguous UTF-8 view.
func (o Object) IsOpaque() bool { return o.Flags()&FlagOpaque != 0 }

// IsContiguous is the negation of IsOpaque.
func (o Object) IsContiguous() bool { return !o.IsOpaque() }

// IsFastUTF8 reports whether contiguous UTF-8 can be read without
// transcoding.
func (o Object) IsFastUTF8() bool {
	return o.IsSingleByte() && !o.IsOpaque()
}

// Count returns the length in code units of the storage encoding.
func (o Object) Count() int {
	return o.count
}

// IsEmpty reports whether the object holds no content.
func (o Object) IsEmpty() bool {
	return o.count == 0
}

// Small returns the inline payload. The object must be small.
func (o Object) Small() small.String {
	assert.That(o.IsSmall(), "Small on non-small object")
	return o.inline
}

// Native returns the heap storage. The object must be native.
func (o Object) Native() *storage.Native {
	assert.That(o.IsNative(), "Native on non-native object")
	return (*storage.Native)(o.ref)
}

// Foreign returns the foreign storage. The object must be foreign.
func (o Object) Foreign() *foreign.Storage {
	assert.That(o.IsForeign(), "Foreign on non-foreign object")
	return (*foreign.Storage)(o.ref)
}

// UnmanagedBytes returns the immortal bytes. The object must be unmanaged
// and the result must not be written.
func (o Object) UnmanagedBytes() []byte {
	assert.That(o.IsUnmanaged(), "UnmanagedBytes on non-unmanaged object")
	return unsafe.Slice((*byte)(o.ref), o.count)
}

// RawBits returns the discriminant and count packed into one word.
func (o Object) RawBits() uint64 {
	return uint64(o.disc) | uint64(o.count)<<8
}

// DecodeRawBits splits a RawBits word into its kind, flags and count.
func DecodeRawBits(bits uint64) (Kind, Flags, int) {
	disc := uint8(bits)
	return Kind(disc & kindMask), Flags(disc>>flagShift) ^ zeroFlags, int(bits >> 8)
}

// Check asserts the layout invariants under the debug build tag.
func (o Object) Check() {
	if !assert.Enabled {
		return
	}
	f := o.Flags()
	switch o.Kind() {
	case KindSmall:
		assert.That(f&FlagSingleByte != 0, "small object is not single-byte")
		assert.That(f&FlagOpaque == 0, "small object is opaque")
		assert.That(o.count <= small.Capacity, "small object count exceeds capacity")
		assert.That(o.count == o.inline.Count(), "small object count mismatch")
		assert.That(o.ref == nil, "small object has a reference")
	case KindNative:
		assert.That(f&FlagSingleByte != 0, "native object is not single-byte")
		assert.That(f&FlagOpaque == 0, "native object is opaque")
		assert.That(o.ref != nil, "native object has no storage")
		assert.That(o.count <= (*storage.Native)(o.ref).Count(), "native object count exceeds storage")
	case KindForeign:
		assert.That(f&FlagSingleByte == 0, "foreign object is single-byte")
		assert.That(f&FlagOpaque != 0, "foreign object is not opaque")
		assert.That(o.ref != nil, "foreign object has no storage")
	case KindUnmanaged:
		assert.That(f&FlagSingleByte != 0, "unmanaged object is not single-byte")
		assert.That(f&FlagOpaque == 0, "unmanaged object is opaque")
		assert.That(o.ref != nil, "unmanaged object has no bytes")
	}
	if f&FlagASCII != 0 {
		assert.That(f&FlagNFC != 0, "ASCII object is not NFC")
	}
	k, df, n := DecodeRawBits(o.RawBits())
	assert.That(k == o.Kind() && df == f && n == o.count, "raw bits do not round-trip")
}

// SmallView returns the inline content without copying. The slice aliases
// o and is only valid until o is next assigned.
func (o *Object) SmallView() []byte {
	assert.That(o.IsSmall(), "SmallView on non-small object")
	return o.inline.View()
}
