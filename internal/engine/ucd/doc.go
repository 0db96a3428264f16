// Package ucd adapts the external Unicode engine used by the string core.
//
// Grapheme segmentation is delegated to github.com/rivo/uniseg and
// normalization and case mapping to golang.org/x/text. All functions are pure
// over their inputs and operate on well-formed UTF-8.
//
// The core relies on a small set of queries:
//   - GraphemeStride and GraphemeStrideBefore locate cluster boundaries
//   - HasBoundaryBefore and IsNFCQuickCheckYes drive segment-wise
//     normalization
//   - Normalize transforms one segment into a caller-provided buffer and
//     reports ErrInsufficientBuffer instead of growing it
//   - ToLower and ToUpper perform locale-independent case mapping
package ucd
