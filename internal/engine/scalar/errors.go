package scalar

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by DecodeError through errors.Is.
var (
	// ErrInvalidUTF8 indicates malformed UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrInvalidUTF16 indicates malformed UTF-16 input.
	ErrInvalidUTF16 = errors.New("invalid UTF-16")
)

// ErrorKind classifies a decoding failure.
type ErrorKind uint8

// Decoding failure kinds.
const (
	KindNone ErrorKind = iota

	// KindUnexpectedContinuationByte is a continuation byte (0x80-0xBF) where
	// a scalar was expected to start.
	KindUnexpectedContinuationByte

	// KindOverlongEncoding is a sequence that encodes a scalar in more bytes
	// than necessary.
	KindOverlongEncoding

	// KindInvalidCodePoint is a sequence that encodes a surrogate or a value
	// above U+10FFFF.
	KindInvalidCodePoint

	// KindInvalidStarterByte is a byte that can never start a sequence
	// (0xC0, 0xC1, 0xF5-0xFF).
	KindInvalidStarterByte

	// KindUnexpectedEndOfInput is a sequence cut short by the end of input.
	KindUnexpectedEndOfInput

	// KindTruncatedScalar is a sequence interrupted by a byte that is not a
	// continuation byte.
	KindTruncatedScalar

	// KindUnpairedSurrogate is a UTF-16 surrogate without its partner.
	KindUnpairedSurrogate
)

var kindNames = [...]string{
	KindNone:                       "none",
	KindUnexpectedContinuationByte: "unexpected continuation byte",
	KindOverlongEncoding:           "overlong encoding",
	KindInvalidCodePoint:           "invalid code point",
	KindInvalidStarterByte:         "invalid starter byte",
	KindUnexpectedEndOfInput:       "unexpected end of input",
	KindTruncatedScalar:            "truncated scalar",
	KindUnpairedSurrogate:          "unpaired surrogate",
}

// String returns the kind's description.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// DecodeError reports the first malformed sequence of an input.
// Offset and Length are measured in code units of the input encoding.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	Length int
	UTF16  bool
}

// Error implements error.
func (e *DecodeError) Error() string {
	enc := "UTF-8"
	if e.UTF16 {
		enc = "UTF-16"
	}
	return fmt.Sprintf("invalid %s: %s at offset %d (length %d)", enc, e.Kind, e.Offset, e.Length)
}

// Is matches ErrInvalidUTF8 or ErrInvalidUTF16 depending on the input encoding.
func (e *DecodeError) Is(target error) bool {
	if e.UTF16 {
		return target == ErrInvalidUTF16
	}
	return target == ErrInvalidUTF8
}
