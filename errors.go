package ustr

import (
	"errors"
	"fmt"

	"github.com/dshills/ustr/internal/engine/scalar"
)

// Errors returned by String operations.
var (
	// ErrInvalidUTF8 matches, through errors.Is, every *DecodeError for
	// UTF-8 input.
	ErrInvalidUTF8 = scalar.ErrInvalidUTF8

	// ErrInvalidUTF16 matches every *DecodeError for UTF-16 input.
	ErrInvalidUTF16 = scalar.ErrInvalidUTF16

	// ErrOffsetOutOfRange indicates an index past the end of the string.
	ErrOffsetOutOfRange = errors.New("index out of range")

	// ErrRangeInvalid indicates a range whose lower bound exceeds its upper
	// bound.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNotText indicates a serialized value that is not a text string.
	ErrNotText = errors.New("value is not a text string")
)

type (
	// DecodeError describes the first malformed sequence of rejected input.
	DecodeError = scalar.DecodeError

	// ErrorKind classifies a DecodeError.
	ErrorKind = scalar.ErrorKind
)

// Decoding failure kinds.
const (
	UnexpectedContinuationByte = scalar.KindUnexpectedContinuationByte
	OverlongEncoding           = scalar.KindOverlongEncoding
	InvalidCodePoint           = scalar.KindInvalidCodePoint
	InvalidStarterByte         = scalar.KindInvalidStarterByte
	UnexpectedEndOfInput       = scalar.KindUnexpectedEndOfInput
	TruncatedScalar            = scalar.KindTruncatedScalar
	UnpairedSurrogate          = scalar.KindUnpairedSurrogate
)

// outOfBounds panics for an index that cannot be stepped from.
func outOfBounds(op string, i Index, count int) {
	panic(fmt.Sprintf("ustr: %s: %v out of range [0:%d]", op, i, count))
}
