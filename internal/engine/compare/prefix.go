package compare

import (
	"bytes"

	"github.com/dshills/ustr/internal/engine/guts"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// HasPrefix reports whether the canonical form of s begins with the
// canonical form of prefix, ending on a normalization boundary.
func HasPrefix(s, prefix *guts.Guts) bool {
	if prefix.IsEmpty() {
		return true
	}
	ns := AppendNFC(nil, s)
	np := AppendNFC(nil, prefix)
	if !bytes.HasPrefix(ns, np) {
		return false
	}
	return len(ns) == len(np) || ucd.HasBoundaryBefore(ns[len(np):])
}

// HasSuffix reports whether the canonical form of s ends with the
// canonical form of suffix, starting on a normalization boundary.
func HasSuffix(s, suffix *guts.Guts) bool {
	if suffix.IsEmpty() {
		return true
	}
	ns := AppendNFC(nil, s)
	nx := AppendNFC(nil, suffix)
	if !bytes.HasSuffix(ns, nx) {
		return false
	}
	return ucd.HasBoundaryBefore(ns[len(ns)-len(nx):])
}
