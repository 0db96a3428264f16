package foreign

import (
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/storage"
)

// copyChunk is the number of units transcoded per CopyCharacters call.
const copyChunk = 256

// Storage keeps a Source alive and caches facts computed once at wrap time.
type Storage struct {
	src     Source
	n       int
	utf8Len int
	ascii   bool
}

// Wrap takes ownership of src. Sources implementing ImmutableCopier are
// snapshotted first. Wrapping reads every unit once to record whether the
// text is ASCII and how long its UTF-8 form is, counting each unpaired
// surrogate as U+FFFD.
func Wrap(src Source) *Storage {
	if c, ok := src.(ImmutableCopier); ok {
		src = c.ImmutableCopy()
	}
	s := &Storage{src: src, n: src.Len(), ascii: true}

	r := s.Reader()
	defer r.Release()
	for i := 0; i < s.n; i++ {
		c := r.At(i)
		switch {
		case c < 0x80:
			s.utf8Len++
			continue
		case c < 0x800:
			s.utf8Len += 2
		case scalar.IsLeadSurrogate(c) && i+1 < s.n && scalar.IsTrailSurrogate(r.At(i+1)):
			s.utf8Len += 4
			i++
		default:
			s.utf8Len += 3
		}
		s.ascii = false
	}
	return s
}

// Len returns the length in UTF-16 code units.
func (s *Storage) Len() int {
	return s.n
}

// UTF8Len returns the length of the UTF-8 form produced by AppendUTF8 over
// the whole string.
func (s *Storage) UTF8Len() int {
	return s.utf8Len
}

// IsASCII reports whether every unit is ASCII.
func (s *Storage) IsASCII() bool {
	return s.ascii
}

// Source returns the wrapped source.
func (s *Storage) Source() Source {
	return s.src
}

// At returns the code unit at i.
func (s *Storage) At(i int) uint16 {
	return s.src.CharacterAt(i)
}

// Units copies the code units in [lo, hi).
func (s *Storage) Units(lo, hi int) []uint16 {
	u := make([]uint16, hi-lo)
	s.CopyUnits(u, lo)
	return u
}

// CopyUnits fills dst with units starting at lo.
func (s *Storage) CopyUnits(dst []uint16, lo int) {
	for len(dst) > 0 {
		n := s.src.CopyCharacters(dst, lo)
		if n == 0 {
			break
		}
		dst = dst[n:]
		lo += n
	}
}

// AppendUTF8 transcodes the units in [lo, hi) to UTF-8 and appends them to
// dst. Unpaired surrogates become U+FFFD. A range boundary that splits a
// surrogate pair leaves each half unpaired.
func (s *Storage) AppendUTF8(dst []byte, lo, hi int) ([]byte, scalar.Summary) {
	sum := scalar.Summary{}.Zero()
	var buf [copyChunk]uint16
	pending := false
	var lead uint16
	for lo < hi {
		n := s.src.CopyCharacters(buf[:min(copyChunk, hi-lo)], lo)
		if n == 0 {
			break
		}
		units := buf[:n]
		if pending {
			// Rejoin a pair split across chunks.
			units = append([]uint16{lead}, units...)
			pending = false
		}
		if last := units[len(units)-1]; scalar.IsLeadSurrogate(last) && lo+n < hi {
			lead = last
			pending = true
			units = units[:len(units)-1]
		}
		var part scalar.Summary
		dst, part = scalar.AppendUTF16AsUTF8(dst, units)
		sum = sum.Add(part)
		lo += n
	}
	if pending {
		var part scalar.Summary
		dst, part = scalar.AppendUTF16AsUTF8(dst, []uint16{lead})
		sum = sum.Add(part)
	}
	return dst, sum
}

// DecodeScalar decodes the scalar starting at unit i.
func (s *Storage) DecodeScalar(i int) (r rune, n int, ok bool) {
	c := s.src.CharacterAt(i)
	if !scalar.IsSurrogate(c) {
		return rune(c), 1, true
	}
	if scalar.IsLeadSurrogate(c) && i+1 < s.n {
		if t := s.src.CharacterAt(i + 1); scalar.IsTrailSurrogate(t) {
			return scalar.CombineSurrogates(c, t), 2, true
		}
	}
	return scalar.ReplacementCharacter, 1, false
}

// DecodeLastScalar decodes the scalar ending at unit end-1.
func (s *Storage) DecodeLastScalar(end int) (r rune, n int, ok bool) {
	c := s.src.CharacterAt(end - 1)
	if !scalar.IsSurrogate(c) {
		return rune(c), 1, true
	}
	if scalar.IsTrailSurrogate(c) && end >= 2 {
		if l := s.src.CharacterAt(end - 2); scalar.IsLeadSurrogate(l) {
			return scalar.CombineSurrogates(l, c), 2, true
		}
	}
	return scalar.ReplacementCharacter, 1, false
}

// Reader gives sequential access to the units through a pooled window
// refilled with CopyCharacters, so a forward scan costs one source call per
// window instead of one per unit. Release returns the window to the pool.
type Reader struct {
	src Source
	n   int
	win *[]uint16
	buf []uint16
	lo  int
}

// Reader returns a Reader over s. The first At fills the window.
func (s *Storage) Reader() *Reader {
	return &Reader{src: s.src, n: s.n, win: storage.GetUnits(copyChunk)}
}

// Len returns the length in UTF-16 code units.
func (r *Reader) Len() int {
	return r.n
}

// At returns the unit at i, refilling the window from i when needed.
func (r *Reader) At(i int) uint16 {
	if i < r.lo || i >= r.lo+len(r.buf) {
		w := (*r.win)[:min(cap(*r.win), r.n-i)]
		r.buf = w[:r.src.CopyCharacters(w, i)]
		r.lo = i
	}
	return r.buf[i-r.lo]
}

// Release returns the window to the pool. The Reader must not be used
// afterwards.
func (r *Reader) Release() {
	storage.PutUnits(r.win)
	r.win, r.buf = nil, nil
}
