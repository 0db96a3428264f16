package ustr

import (
	"iter"

	"github.com/dshills/ustr/internal/engine/index"
)

// UTF8View presents a String as UTF-8 code units.
type UTF8View struct {
	s String
}

// UTF8 returns the UTF-8 view of s.
func (s String) UTF8() UTF8View {
	return UTF8View{s: s}
}

// Count returns the number of bytes.
func (v UTF8View) Count() int {
	return v.s.g.UTF8Count()
}

// StartIndex returns the position of the first byte.
func (v UTF8View) StartIndex() Index {
	return index.Start
}

// EndIndex returns the position past the last byte.
func (v UTF8View) EndIndex() Index {
	return v.s.g.EndIndex()
}

// IndexAfter returns the position of the byte following i.
func (v UTF8View) IndexAfter(i Index) Index {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("UTF8View.IndexAfter", i, v.s.g.Count())
	}
	return v.s.g.UTF8IndexAfter(i)
}

// IndexBefore returns the position of the byte preceding i.
func (v UTF8View) IndexBefore(i Index) Index {
	if i.Equal(index.Start) || i.Offset() > v.s.g.Count() {
		outOfBounds("UTF8View.IndexBefore", i, v.s.g.Count())
	}
	return v.s.g.UTF8IndexBefore(i)
}

// At returns the byte at i.
func (v UTF8View) At(i Index) byte {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("UTF8View.At", i, v.s.g.Count())
	}
	return v.s.g.UTF8ByteAt(i)
}

// Offset returns the byte offset of i.
func (v UTF8View) Offset(i Index) int {
	return v.s.g.UTF8Offset(i)
}

// Index returns the position of a byte offset.
func (v UTF8View) Index(offset int) Index {
	return v.s.g.UTF8Index(offset)
}

// All returns an iterator over the bytes and their positions.
func (v UTF8View) All() iter.Seq2[Index, byte] {
	return func(yield func(Index, byte) bool) {
		end := v.s.g.Count()
		for i := index.Start; i.Offset() < end; i = v.s.g.UTF8IndexAfter(i) {
			if !yield(i, v.s.g.UTF8ByteAt(i)) {
				return
			}
		}
	}
}

// UTF16View presents a String as UTF-16 code units.
type UTF16View struct {
	s String
}

// UTF16 returns the UTF-16 view of s.
func (s String) UTF16() UTF16View {
	return UTF16View{s: s}
}

// Count returns the number of code units.
func (v UTF16View) Count() int {
	return v.s.g.UTF16Count()
}

// StartIndex returns the position of the first code unit.
func (v UTF16View) StartIndex() Index {
	return index.Start
}

// EndIndex returns the position past the last code unit.
func (v UTF16View) EndIndex() Index {
	return v.s.g.EndIndex()
}

// IndexAfter returns the position of the code unit following i.
func (v UTF16View) IndexAfter(i Index) Index {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("UTF16View.IndexAfter", i, v.s.g.Count())
	}
	return v.s.g.UTF16IndexAfter(i)
}

// IndexBefore returns the position of the code unit preceding i.
func (v UTF16View) IndexBefore(i Index) Index {
	if i.Equal(index.Start) || i.Offset() > v.s.g.Count() {
		outOfBounds("UTF16View.IndexBefore", i, v.s.g.Count())
	}
	return v.s.g.UTF16IndexBefore(i)
}

// At returns the code unit at i.
func (v UTF16View) At(i Index) uint16 {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("UTF16View.At", i, v.s.g.Count())
	}
	return v.s.g.UTF16UnitAt(i)
}

// Offset returns the UTF-16 offset of i. Long non-ASCII strings answer in
// logarithmic time.
func (v UTF16View) Offset(i Index) int {
	return v.s.g.UTF16Offset(i)
}

// Index returns the position of a UTF-16 offset. An offset between the
// halves of a surrogate pair addresses the trailing surrogate.
func (v UTF16View) Index(offset int) Index {
	if offset < 0 || offset > v.s.g.UTF16Count() {
		panic("ustr: UTF16View.Index: offset out of range")
	}
	return v.s.g.UTF16Index(offset)
}

// Distance returns the number of code units from i to j.
func (v UTF16View) Distance(i, j Index) int {
	return v.s.g.UTF16Distance(i, j)
}

// IndexOffsetBy returns the position n code units from i.
func (v UTF16View) IndexOffsetBy(i Index, n int) Index {
	return v.Index(v.s.g.UTF16Offset(i) + n)
}

// All returns an iterator over the code units and their positions.
func (v UTF16View) All() iter.Seq2[Index, uint16] {
	return func(yield func(Index, uint16) bool) {
		end := v.s.g.Count()
		for i := index.Start; i.Offset() < end; i = v.s.g.UTF16IndexAfter(i) {
			if !yield(i, v.s.g.UTF16UnitAt(i)) {
				return
			}
		}
	}
}

// ScalarView presents a String as Unicode scalar values.
type ScalarView struct {
	s String
}

// Scalars returns the scalar view of s.
func (s String) Scalars() ScalarView {
	return ScalarView{s: s}
}

// Count returns the number of scalars.
func (v ScalarView) Count() int {
	return v.s.g.ScalarCount()
}

// StartIndex returns the position of the first scalar.
func (v ScalarView) StartIndex() Index {
	return index.Start
}

// EndIndex returns the position past the last scalar.
func (v ScalarView) EndIndex() Index {
	return v.s.g.EndIndex()
}

// IndexAfter returns the position of the scalar following i.
func (v ScalarView) IndexAfter(i Index) Index {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("ScalarView.IndexAfter", i, v.s.g.Count())
	}
	return v.s.g.ScalarIndexAfter(i)
}

// IndexBefore returns the position of the scalar preceding i.
func (v ScalarView) IndexBefore(i Index) Index {
	if i.Offset() == 0 || i.Offset() > v.s.g.Count() {
		outOfBounds("ScalarView.IndexBefore", i, v.s.g.Count())
	}
	return v.s.g.ScalarIndexBefore(i)
}

// At returns the scalar containing i.
func (v ScalarView) At(i Index) rune {
	if i.Offset() >= v.s.g.Count() {
		outOfBounds("ScalarView.At", i, v.s.g.Count())
	}
	return v.s.g.ScalarAt(i)
}

// All returns an iterator over the scalars and their positions.
func (v ScalarView) All() iter.Seq2[Index, rune] {
	return v.s.g.Scalars
}
