// Package normalize produces the NFC form of text incrementally, one
// normalization segment at a time.
//
// A segment runs from a scalar with a normalization boundary before it up to
// the next such scalar, so segments can be normalized independently and
// concatenated. Runs of scalars that NFC leaves untouched are returned
// without copying when the input is UTF-8.
package normalize

import (
	"errors"
	"iter"

	"github.com/dshills/ustr/internal/engine/assert"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/storage"
	"github.com/dshills/ustr/internal/engine/ucd"
)

const (
	// inlineSize is the size of the buffer most segments normalize into.
	inlineSize = 64

	// maxStagedRun bounds a fast run transcoded from UTF-16.
	maxStagedRun = 256
)

// Iterator yields NFC UTF-8 for UTF-8 or UTF-16 input. A segment returned
// by Next is valid until the following call to Next or Close.
type Iterator struct {
	utf8   []byte
	units  Units
	n      int
	wide   bool
	repair bool
	pos    int

	inline   [inlineSize]byte
	overflow *[]byte
	stage    *[]byte
}

// NewUTF8 returns an iterator over well-formed UTF-8.
func NewUTF8(b []byte) *Iterator {
	return &Iterator{utf8: b}
}

// Units is random access to UTF-16 code units. The iterator reads forward,
// looking at most one scalar ahead.
type Units interface {
	Len() int
	At(i int) uint16
}

type unitSlice []uint16

func (u unitSlice) Len() int        { return len(u) }
func (u unitSlice) At(i int) uint16 { return u[i] }

// NewUTF16 returns an iterator over UTF-16. Input containing an unpaired
// surrogate is corrupt and stops the process when reached.
func NewUTF16(u []uint16) *Iterator {
	return &Iterator{units: unitSlice(u), n: len(u), wide: true}
}

// NewUnits returns an iterator that reads u on demand. Unpaired surrogates
// read as U+FFFD, the same way foreign text transcodes to UTF-8.
func NewUnits(u Units) *Iterator {
	return &Iterator{units: u, n: u.Len(), wide: true, repair: true}
}

// Next returns the next normalized segment.
func (it *Iterator) Next() ([]byte, bool) {
	if it.wide {
		return it.next16()
	}
	return it.next8()
}

// Close releases pooled buffers. The iterator must not be used afterwards.
func (it *Iterator) Close() {
	if it.overflow != nil {
		storage.PutScratch(it.overflow)
		it.overflow = nil
	}
	if it.stage != nil {
		storage.PutScratch(it.stage)
		it.stage = nil
	}
}

// All returns the remaining segments as a sequence and closes the iterator
// when the sequence ends.
func (it *Iterator) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		defer it.Close()
		for {
			seg, ok := it.Next()
			if !ok || !yield(seg) {
				return
			}
		}
	}
}

// quickYesAt reports whether the scalar at b[p:p+n] is unchanged by NFC
// whatever follows it.
func quickYesAt(b []byte, p, n int) bool {
	if !ucd.IsNFCQuickCheckYes(b[p:]) {
		return false
	}
	q := p + n
	return q == len(b) || ucd.HasBoundaryBefore(b[q:])
}

func (it *Iterator) next8() ([]byte, bool) {
	b := it.utf8
	if it.pos >= len(b) {
		return nil, false
	}

	start := it.pos
	for it.pos < len(b) {
		c := b[it.pos]
		if c < 0x80 {
			if it.pos+1 == len(b) || b[it.pos+1] < 0x80 || ucd.HasBoundaryBefore(b[it.pos+1:]) {
				it.pos++
				continue
			}
			break
		}
		_, n := scalar.DecodeUTF8(b, it.pos)
		if !quickYesAt(b, it.pos, n) {
			break
		}
		it.pos += n
	}
	if it.pos > start {
		return b[start:it.pos], true
	}

	_, n := scalar.DecodeUTF8(b, it.pos)
	it.pos += n
	for it.pos < len(b) && !ucd.HasBoundaryBefore(b[it.pos:]) {
		_, n = scalar.DecodeUTF8(b, it.pos)
		it.pos += n
	}
	return it.normalize(b[start:it.pos]), true
}

func (it *Iterator) decode16(p int) (rune, int) {
	c := it.units.At(p)
	if !scalar.IsSurrogate(c) {
		return rune(c), 1
	}
	if scalar.IsLeadSurrogate(c) && p+1 < it.n {
		if t := it.units.At(p + 1); scalar.IsTrailSurrogate(t) {
			return scalar.CombineSurrogates(c, t), 2
		}
	}
	if !it.repair {
		assert.Fatal("unpaired surrogate in normalization input")
	}
	return scalar.ReplacementCharacter, 1
}

func (it *Iterator) boundaryBefore16(p int) bool {
	if p >= it.n {
		return true
	}
	r, _ := it.decode16(p)
	return ucd.HasBoundaryBeforeRune(r)
}

func (it *Iterator) next16() ([]byte, bool) {
	if it.pos >= it.n {
		return nil, false
	}
	if it.stage == nil {
		it.stage = storage.GetScratch(maxStagedRun + scalar.MaxUTF8Len)
	}
	stage := (*it.stage)[:0]

	for it.pos < it.n && len(stage) < maxStagedRun {
		r, n := it.decode16(it.pos)
		mark := len(stage)
		stage = scalar.AppendUTF8(stage, r)
		if !ucd.IsNFCQuickCheckYes(stage[mark:]) || !it.boundaryBefore16(it.pos+n) {
			stage = stage[:mark]
			break
		}
		it.pos += n
	}
	if len(stage) > 0 {
		*it.stage = stage
		return stage, true
	}

	r, n := it.decode16(it.pos)
	stage = scalar.AppendUTF8(stage, r)
	it.pos += n
	for it.pos < it.n {
		r, n = it.decode16(it.pos)
		if ucd.HasBoundaryBeforeRune(r) {
			break
		}
		stage = scalar.AppendUTF8(stage, r)
		it.pos += n
	}
	*it.stage = stage
	return it.normalize(stage), true
}

// normalize transforms one segment, retrying once with a buffer sized for
// the maximum NFC expansion when the inline buffer is too small.
func (it *Iterator) normalize(seg []byte) []byte {
	n, err := ucd.Normalize(it.inline[:], seg)
	if err == nil {
		return it.inline[:n]
	}
	if errors.Is(err, ucd.ErrInsufficientBuffer) {
		if it.overflow != nil {
			storage.PutScratch(it.overflow)
		}
		it.overflow = storage.GetScratch(len(seg) * ucd.MaxNFCExpansion)
		buf := (*it.overflow)[:cap(*it.overflow)]
		n, err = ucd.Normalize(buf, seg)
		if err == nil {
			return buf[:n]
		}
	}
	assert.Fatal("normalization failed: " + err.Error())
	return nil
}

// AppendUTF8 appends the NFC form of b to dst.
func AppendUTF8(dst, b []byte) []byte {
	it := NewUTF8(b)
	defer it.Close()
	for seg, ok := it.Next(); ok; seg, ok = it.Next() {
		dst = append(dst, seg...)
	}
	return dst
}

// AppendUTF16 appends the NFC form of u, as UTF-8, to dst.
func AppendUTF16(dst []byte, u []uint16) []byte {
	it := NewUTF16(u)
	defer it.Close()
	for seg, ok := it.Next(); ok; seg, ok = it.Next() {
		dst = append(dst, seg...)
	}
	return dst
}
