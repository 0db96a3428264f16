package ucd

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInsufficientBuffer is returned by Normalize when dst cannot hold the
// normalized output. It is a signal to retry with a larger buffer.
var ErrInsufficientBuffer = errors.New("insufficient buffer")

// MaxNFCExpansion bounds the UTF-8 growth factor of NFC normalization.
const MaxNFCExpansion = 3

// HasBoundaryBefore reports whether the scalar encoded at the start of b
// never interacts with preceding scalars during normalization.
func HasBoundaryBefore(b []byte) bool {
	if len(b) == 0 || b[0] < utf8.RuneSelf {
		return true
	}
	return norm.NFC.Properties(b).BoundaryBefore()
}

// HasBoundaryBeforeRune is HasBoundaryBefore for a decoded scalar.
func HasBoundaryBeforeRune(r rune) bool {
	if r < utf8.RuneSelf {
		return true
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return norm.NFC.Properties(buf[:n]).BoundaryBefore()
}

// IsNFCQuickCheckYes reports whether the scalar encoded at the start of b is
// a starter that is unchanged by NFC regardless of its neighbours.
func IsNFCQuickCheckYes(b []byte) bool {
	if len(b) == 0 || b[0] < utf8.RuneSelf {
		return true
	}
	p := norm.NFC.Properties(b)
	if !p.BoundaryBefore() {
		return false
	}
	return norm.NFC.IsNormal(b[:p.Size()])
}

// IsNFC reports whether b is in Normalization Form C.
func IsNFC(b []byte) bool {
	return norm.NFC.IsNormal(b)
}

// Normalize writes the NFC form of src into dst and returns the number of
// bytes written. It never allocates; when dst is too small it returns
// ErrInsufficientBuffer and the contents of dst are unspecified.
func Normalize(dst, src []byte) (int, error) {
	nDst, nSrc, err := norm.NFC.Transform(dst, src, true)
	if errors.Is(err, transform.ErrShortDst) {
		return 0, ErrInsufficientBuffer
	}
	if err != nil {
		return 0, err
	}
	if nSrc != len(src) {
		return 0, ErrInsufficientBuffer
	}
	return nDst, nil
}

// AppendNFC appends the NFC form of src to dst.
func AppendNFC(dst, src []byte) []byte {
	return norm.NFC.Append(dst, src...)
}
