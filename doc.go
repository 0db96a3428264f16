// Package ustr provides String, an immutable-by-value Unicode string with
// copy-on-write storage.
//
// A String is always well-formed. Its primary view is a sequence of
// extended grapheme clusters ("characters"); UTF-8, UTF-16 and scalar views
// expose the same content at other granularities and share one Index type.
// Equality, ordering and hashing follow canonical equivalence, so "\u00e9" and
// "e\u0301" compare equal.
//
// Storage is chosen per value: up to 15 bytes are held inline, longer
// content lives in shared native buffers that are extended in place by the
// value owning their tail, and content borrowed from a UTF-16 source is
// read through the ForeignSource interface without copying.
//
// Copying a String is cheap and the copies are independent: a mutation is
// never visible through any other value.
//
// # Indices
//
// An Index is valid for the String it was obtained from and for any value
// that shares its prefix. Indices from the character view carry a cached
// cluster length, which makes forward iteration cheap.
//
//	s := ustr.New("café!")
//	for i, c := range s.Characters() {
//		fmt.Println(i, c)
//	}
package ustr
