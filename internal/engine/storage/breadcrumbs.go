package storage

import (
	"sort"

	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/scalar"
)

// BreadcrumbStride is the number of UTF-16 code units between samples.
const BreadcrumbStride = 64

// Breadcrumbs record the native index of every BreadcrumbStride-th UTF-16
// offset of a buffer prefix. An offset that falls between the two halves of
// a surrogate pair is recorded with a transcoded offset of 1.
//
// Breadcrumbs built for a prefix stay valid for every shorter prefix, since
// content below the high-water count never changes.
type Breadcrumbs struct {
	count      int
	utf16Count int
	crumbs     []index.Index
}

// NewBreadcrumbs samples the well-formed UTF-8 content b.
func NewBreadcrumbs(b []byte) *Breadcrumbs {
	bc := &Breadcrumbs{
		count:  len(b),
		crumbs: make([]index.Index, 0, len(b)/BreadcrumbStride+1),
	}

	next := 0 // next UTF-16 offset to sample
	u := 0
	for p := 0; p < len(b); {
		r, n := scalar.DecodeUTF8(b, p)
		w := scalar.UTF16Len(r)
		if next < u+w {
			if next == u {
				bc.crumbs = append(bc.crumbs, index.NewAligned(p))
			} else {
				bc.crumbs = append(bc.crumbs, index.NewTranscoded(p, 1))
			}
			next += BreadcrumbStride
		}
		u += w
		p += n
	}
	if next == u {
		bc.crumbs = append(bc.crumbs, index.NewAligned(len(b)))
	}
	bc.utf16Count = u
	return bc
}

// Count returns the number of bytes the breadcrumbs cover.
func (bc *Breadcrumbs) Count() int {
	return bc.count
}

// UTF16Count returns the UTF-16 length of the covered content.
func (bc *Breadcrumbs) UTF16Count() int {
	return bc.utf16Count
}

// Len returns the number of samples.
func (bc *Breadcrumbs) Len() int {
	return len(bc.crumbs)
}

// At returns sample k, the index of UTF-16 offset k*BreadcrumbStride.
func (bc *Breadcrumbs) At(k int) index.Index {
	return bc.crumbs[k]
}

// IndexOf returns the native index of a UTF-16 offset in b, which must be
// a prefix of the covered content containing the offset.
func (bc *Breadcrumbs) IndexOf(b []byte, offset int) index.Index {
	k := offset / BreadcrumbStride
	crumb := bc.crumbs[k]
	u := k * BreadcrumbStride
	p := crumb.Offset()
	if crumb.Transcoded() != 0 {
		if u == offset {
			return crumb
		}
		p += scalar.MaxUTF8Len
		u++
	}
	for u < offset {
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

// UTF16Offset returns the UTF-16 offset of a native index into b, which
// must be a prefix of the covered content containing the index.
func (bc *Breadcrumbs) UTF16Offset(b []byte, i index.Index) int {
	target := i.OrderingValue()
	k := sort.Search(len(bc.crumbs), func(k int) bool {
		return bc.crumbs[k].OrderingValue() > target
	}) - 1

	crumb := bc.crumbs[k]
	u := k * BreadcrumbStride
	p := crumb.Offset()
	if crumb.Transcoded() != 0 {
		if crumb.Equal(i) {
			return u
		}
		p += scalar.MaxUTF8Len
		u++
	}
	end := i.Offset()
	for p < end {
		r, n := scalar.DecodeUTF8(b, p)
		u += scalar.UTF16Len(r)
		p += n
	}
	return u + i.Transcoded()
}

// Breadcrumbs returns breadcrumbs covering at least the first count bytes,
// building and publishing them on first use. Racing builders publish with
// compare-and-swap and losers use the winner's value.
func (n *Native) Breadcrumbs(count int) *Breadcrumbs {
	if bc := n.crumbs.Load(); bc != nil && bc.count >= count {
		return bc
	}
	built := NewBreadcrumbs(n.buf[:count])
	for {
		old := n.crumbs.Load()
		if old != nil && old.count >= count {
			return old
		}
		if n.crumbs.CompareAndSwap(old, built) {
			return built
		}
	}
}

// HasBreadcrumbs reports whether breadcrumbs are currently published.
func (n *Native) HasBreadcrumbs() bool {
	return n.crumbs.Load() != nil
}
