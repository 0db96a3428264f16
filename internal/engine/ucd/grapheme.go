package ucd

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// IsGuaranteedBoundary reports whether a grapheme boundary always exists
// between the bytes prev and next. Two ASCII bytes are always separated by a
// boundary except for CR LF.
func IsGuaranteedBoundary(prev, next byte) bool {
	if prev >= utf8.RuneSelf || next >= utf8.RuneSelf {
		return false
	}
	return prev != '\r' || next != '\n'
}

// GraphemeStride returns the byte length of the grapheme cluster starting at
// b[i], or 0 when i is at the end of b.
func GraphemeStride(b []byte, i int) int {
	if i >= len(b) {
		return 0
	}
	// ASCII followed by ASCII (or the end) is a single-byte cluster.
	if b[i] < utf8.RuneSelf {
		if i+1 == len(b) || IsGuaranteedBoundary(b[i], b[i+1]) {
			return 1
		}
	}
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(b[i:], -1)
	return len(cluster)
}

// GraphemeStrideBefore returns the byte length of the grapheme cluster ending
// at b[i-1], or 0 when i is 0.
//
// Segmentation only runs forward, so the scan backs up to the nearest
// guaranteed boundary and segments from there.
func GraphemeStrideBefore(b []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i == 1 {
		return 1
	}
	if IsGuaranteedBoundary(b[i-2], b[i-1]) && (i == len(b) || IsGuaranteedBoundary(b[i-1], b[i])) {
		return 1
	}

	start := i - 1
	for start > 0 && !IsGuaranteedBoundary(b[start-1], b[start]) {
		start--
	}

	state := -1
	rest := b[start:i]
	pos := start
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		if pos+len(cluster) >= i {
			return i - pos
		}
		pos += len(cluster)
	}
	return i - pos
}

// GraphemeCount returns the number of grapheme clusters in b.
func GraphemeCount(b []byte) int {
	n := 0
	state := -1
	for len(b) > 0 {
		if len(b) == 1 || IsGuaranteedBoundary(b[0], b[1]) {
			b = b[1:]
			state = -1
			n++
			continue
		}
		_, b, _, state = uniseg.FirstGraphemeCluster(b, state)
		n++
	}
	return n
}

// Clusters calls yield with the byte offset and length of every grapheme
// cluster in b until yield returns false.
func Clusters(b []byte, yield func(offset, length int) bool) {
	pos := 0
	state := -1
	for len(b) > 0 {
		var cluster []byte
		cluster, b, _, state = uniseg.FirstGraphemeCluster(b, state)
		if !yield(pos, len(cluster)) {
			return
		}
		pos += len(cluster)
	}
}
