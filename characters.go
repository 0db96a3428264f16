package ustr

import (
	"fmt"
	"iter"

	"github.com/dshills/ustr/internal/engine/index"
)

// StartIndex returns the position of the first character.
func (s String) StartIndex() Index {
	return s.g.CharacterStart()
}

// EndIndex returns the position past the last character.
func (s String) EndIndex() Index {
	return s.g.EndIndex()
}

// IndexAfter returns the position of the character following the one at i.
// It panics if i is at or past the end.
func (s String) IndexAfter(i Index) Index {
	if i.Offset() >= s.g.Count() {
		outOfBounds("IndexAfter", i, s.g.Count())
	}
	return s.g.CharacterIndexAfter(s.g.ScalarAlign(i))
}

// IndexBefore returns the position of the character preceding i. It panics
// if i is at the start or past the end.
func (s String) IndexBefore(i Index) Index {
	if i.Offset() == 0 || i.Offset() > s.g.Count() {
		outOfBounds("IndexBefore", i, s.g.Count())
	}
	return s.g.CharacterIndexBefore(s.g.ScalarAlign(i))
}

// IndexOffsetBy returns the position n characters from i. Negative n moves
// backwards.
func (s String) IndexOffsetBy(i Index, n int) Index {
	for ; n > 0; n-- {
		i = s.IndexAfter(i)
	}
	for ; n < 0; n++ {
		i = s.IndexBefore(i)
	}
	return i
}

// Distance returns the number of characters from i to j, negative when j
// precedes i.
func (s String) Distance(i, j Index) int {
	if j.Offset() < i.Offset() {
		return -s.Distance(j, i)
	}
	n := 0
	for i.Offset() < j.Offset() {
		i = s.IndexAfter(i)
		n++
	}
	return n
}

// CharacterAt returns the character starting at i.
func (s String) CharacterAt(i Index) String {
	i = s.g.ScalarAlign(i)
	if i.Offset() >= s.g.Count() {
		outOfBounds("CharacterAt", i, s.g.Count())
	}
	end := index.NewAligned(i.Offset() + s.g.CharacterStride(i))
	return String{g: s.g.Slice(i, end)}
}

// Characters returns an iterator over the characters of s and their
// positions.
func (s String) Characters() iter.Seq2[Index, String] {
	return func(yield func(Index, String) bool) {
		end := s.g.Count()
		for i := s.g.CharacterStart(); i.Offset() < end; {
			next := s.g.CharacterIndexAfter(i)
			if !yield(i, String{g: s.g.Slice(i, next)}) {
				return
			}
			i = next
		}
	}
}

// Slice returns the content between lo and hi. Indices inside a scalar
// are rounded down to its start.
func (s String) Slice(lo, hi Index) (String, error) {
	lo, hi, err := s.bounds(lo, hi)
	if err != nil {
		return String{}, err
	}
	return String{g: s.g.Slice(lo, hi)}, nil
}

// bounds validates a range and aligns both ends to scalar boundaries.
func (s *String) bounds(lo, hi Index) (Index, Index, error) {
	count := s.g.Count()
	if lo.Offset() > count || hi.Offset() > count {
		return lo, hi, fmt.Errorf("%w: %v..%v in [0:%d]", ErrOffsetOutOfRange, lo, hi, count)
	}
	lo, hi = s.g.ScalarAlign(lo), s.g.ScalarAlign(hi)
	if hi.Less(lo) {
		return lo, hi, fmt.Errorf("%w: %v..%v", ErrRangeInvalid, lo, hi)
	}
	return lo, hi, nil
}
