// Package index defines the packed position type shared by every view of a
// string.
//
// An Index is a 64-bit value laid out as
//
//	[48-bit encoded offset][2-bit transcoded offset][1-bit aligned][5-bit grapheme stride][8 reserved]
//
// The encoded offset counts code units of the storage encoding (bytes for
// UTF-8 storage, 16-bit units for foreign storage). The transcoded offset
// addresses a code unit of the other encoding inside the scalar that starts
// at the encoded offset. Ordering and equality use only the offset and the
// transcoded offset; the aligned flag and the stride cache are hints.
package index

import "fmt"

const (
	reservedBits   = 8
	strideShift    = reservedBits
	strideBits     = 5
	alignedShift   = strideShift + strideBits
	transcodeShift = alignedShift + 1
	offsetShift    = transcodeShift + 2

	strideMask    = 1<<strideBits - 1
	transcodeMask = 3
	alignedBit    = 1 << alignedShift

	// MaxOffset is the largest encodable offset.
	MaxOffset = 1<<48 - 1

	// MaxCharacterStride is the largest grapheme stride the cache can hold.
	// Longer clusters are recomputed on every step.
	MaxCharacterStride = strideMask
)

// Index is a position in a string. The zero value is the start of every
// string.
type Index uint64

// Start is the first position of every string.
const Start Index = alignedBit

// New returns an index at an encoded offset with no cached information.
func New(offset int) Index {
	return Index(uint64(offset) << offsetShift)
}

// NewAligned returns an index at an encoded offset known to start a scalar.
func NewAligned(offset int) Index {
	return New(offset) | alignedBit
}

// NewTranscoded returns an index addressing code unit transcoded of the
// scalar that starts at offset. A zero transcoded offset yields an aligned
// index.
func NewTranscoded(offset, transcoded int) Index {
	if transcoded == 0 {
		return NewAligned(offset)
	}
	return Index(uint64(offset)<<offsetShift | uint64(transcoded&transcodeMask)<<transcodeShift)
}

// Offset returns the encoded offset.
func (i Index) Offset() int {
	return int(uint64(i) >> offsetShift)
}

// Transcoded returns the transcoded offset within the scalar.
func (i Index) Transcoded() int {
	return int(uint64(i)>>transcodeShift) & transcodeMask
}

// IsAligned reports whether the index is known to start a scalar.
func (i Index) IsAligned() bool {
	return uint64(i)&alignedBit != 0
}

// Aligned returns i marked as starting a scalar.
func (i Index) Aligned() Index {
	return i | alignedBit
}

// CharacterStride returns the cached byte distance to the next grapheme
// boundary.
func (i Index) CharacterStride() (int, bool) {
	s := int(uint64(i)>>strideShift) & strideMask
	return s, s != 0
}

// WithCharacterStride returns i with the grapheme stride cache set. Strides
// that do not fit clear the cache.
func (i Index) WithCharacterStride(stride int) Index {
	i &^= strideMask << strideShift
	if stride <= 0 || stride > MaxCharacterStride {
		return i
	}
	return i | Index(uint64(stride)<<strideShift)
}

// WithoutCache returns i with the aligned flag and stride cache cleared.
func (i Index) WithoutCache() Index {
	return Index(uint64(i) >> transcodeShift << transcodeShift)
}

// OrderingValue is the combined offset and transcoded offset. Two indices
// into the same string are ordered by this value alone.
func (i Index) OrderingValue() uint64 {
	return uint64(i) >> transcodeShift
}

// Compare returns -1, 0 or +1 depending on the order of i and j.
func (i Index) Compare(j Index) int {
	a, b := i.OrderingValue(), j.OrderingValue()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether i and j denote the same position.
func (i Index) Equal(j Index) bool {
	return i.OrderingValue() == j.OrderingValue()
}

// Less reports whether i is before j.
func (i Index) Less(j Index) bool {
	return i.OrderingValue() < j.OrderingValue()
}

// Encoded returns the raw bit pattern.
func (i Index) Encoded() uint64 {
	return uint64(i)
}

// String formats the index for debugging.
func (i Index) String() string {
	s := fmt.Sprintf("Index(offset: %d", i.Offset())
	if t := i.Transcoded(); t != 0 {
		s += fmt.Sprintf(", transcoded: %d", t)
	}
	if stride, ok := i.CharacterStride(); ok {
		s += fmt.Sprintf(", stride: %d", stride)
	}
	return s + ")"
}
