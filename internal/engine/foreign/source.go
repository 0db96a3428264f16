// Package foreign wraps externally owned UTF-16 text.
//
// Foreign storage is read-only and opaque: it offers no contiguous UTF-8
// view, so every read goes through the Source interface and is transcoded
// on the way out. Offsets into foreign storage count UTF-16 code units.
package foreign

// Source is an externally owned UTF-16 string.
type Source interface {
	// Len returns the length in UTF-16 code units.
	Len() int

	// CharacterAt returns the code unit at i.
	CharacterAt(i int) uint16

	// CopyCharacters copies units starting at lo into dst and returns the
	// number copied.
	CopyCharacters(dst []uint16, lo int) int
}

// ImmutableCopier is implemented by sources whose content can change. The
// copy is taken once when the source is wrapped.
type ImmutableCopier interface {
	ImmutableCopy() Source
}
