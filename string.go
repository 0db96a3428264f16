package ustr

import (
	"unicode/utf8"
	"unsafe"

	"github.com/dshills/ustr/internal/engine/compare"
	"github.com/dshills/ustr/internal/engine/foreign"
	"github.com/dshills/ustr/internal/engine/guts"
	"github.com/dshills/ustr/internal/engine/index"
	"github.com/dshills/ustr/internal/engine/object"
	"github.com/dshills/ustr/internal/engine/scalar"
	"github.com/dshills/ustr/internal/engine/ucd"
)

// Re-export the types that appear in the String API.
type (
	// Index is a position in a String shared by all of its views.
	Index = index.Index

	// Kind identifies the storage backing a String.
	Kind = object.Kind

	// ForeignSource is a UTF-16 sequence owned outside this package.
	ForeignSource = foreign.Source

	// UTF16Buffer is an in-memory ForeignSource.
	UTF16Buffer = foreign.UTF16Buffer
)

// Storage kinds.
const (
	KindSmall     = object.KindSmall
	KindNative    = object.KindNative
	KindForeign   = object.KindForeign
	KindUnmanaged = object.KindUnmanaged
)

// String is a well-formed Unicode string. The zero value is empty and ready
// to use. Values are independent after assignment: mutating one never
// changes another.
type String struct {
	g guts.Guts
}

// New returns a String holding a copy of s. Malformed UTF-8 is repaired
// with U+FFFD.
func New(s string) String {
	return Repairing(stringBytes(s))
}

// FromStatic returns a String that references s without copying it. s must
// never be modified, which holds for string literals and for any string
// kept reachable for the rest of the process. Malformed input is repaired
// into a copy.
func FromStatic(s string) String {
	sum, err := scalar.Validate(stringBytes(s))
	if err != nil {
		return New(s)
	}
	return String{g: guts.FromStatic(s, sum)}
}

// FromBytes returns a String holding a copy of b. Malformed input is
// rejected with a *DecodeError.
func FromBytes(b []byte) (String, error) {
	sum, err := scalar.Validate(b)
	if err != nil {
		return String{}, err
	}
	return String{g: guts.FromValidUTF8(b, sum)}, nil
}

// Repairing returns a String holding a copy of b with every maximal
// ill-formed subpart replaced by U+FFFD.
func Repairing(b []byte) String {
	sum, err := scalar.Validate(b)
	if err == nil {
		return String{g: guts.FromValidUTF8(b, sum)}
	}
	out, sum, _ := scalar.AppendRepaired(make([]byte, 0, len(b)+2), b)
	return String{g: guts.FromValidUTF8(out, sum)}
}

// FromUTF16 returns a String transcoded from u. Unpaired surrogates are
// rejected with a *DecodeError whose offset counts UTF-16 units.
func FromUTF16(u []uint16) (String, error) {
	sum, err := scalar.ValidateUTF16(u)
	if err != nil {
		return String{}, err
	}
	out, _ := scalar.AppendUTF16AsUTF8(make([]byte, 0, sum.Bytes), u)
	return String{g: guts.FromValidUTF8(out, sum)}, nil
}

// RepairingUTF16 returns a String transcoded from u with unpaired
// surrogates replaced by U+FFFD.
func RepairingUTF16(u []uint16) String {
	out, sum := scalar.AppendUTF16AsUTF8(make([]byte, 0, len(u)), u)
	return String{g: guts.FromValidUTF8(out, sum)}
}

// FromRunes returns a String of the given scalars. Surrogates and values
// outside the Unicode range become U+FFFD.
func FromRunes(rs []rune) String {
	b := make([]byte, 0, len(rs))
	for _, r := range rs {
		b = utf8.AppendRune(b, r)
	}
	return String{g: guts.FromBuiltUTF8(b)}
}

// FromForeign returns a String that reads its content from src. A source
// implementing foreign.ImmutableCopier is snapshotted first; any other
// source must not change while the String or its copies are in use.
// The UTF-16 view returns src's units unchanged; every other reading,
// including comparison and hashing, sees an unpaired surrogate as U+FFFD.
func FromForeign(src ForeignSource) String {
	return String{g: guts.FromForeign(src)}
}

// NewUTF16Buffer returns an in-memory foreign source over units.
func NewUTF16Buffer(units []uint16) *UTF16Buffer {
	return foreign.NewUTF16Buffer(units)
}

// IsEmpty reports whether s has no content.
func (s String) IsEmpty() bool {
	return s.g.IsEmpty()
}

// IsASCII reports whether every scalar of s is ASCII.
func (s String) IsASCII() bool {
	return s.g.IsASCII()
}

// IsNFC reports whether s is in Normalization Form C.
func (s String) IsNFC() bool {
	if s.g.IsNFC() {
		return true
	}
	nfc := false
	s.g.WithUTF8(func(b []byte) {
		nfc = ucd.IsNFC(b)
	})
	return nfc
}

// Count returns the number of characters (extended grapheme clusters).
func (s String) Count() int {
	return s.g.CharacterCount()
}

// UTF8Count returns the length of s in UTF-8 bytes.
func (s String) UTF8Count() int {
	return s.g.UTF8Count()
}

// UTF16Count returns the length of s in UTF-16 code units.
func (s String) UTF16Count() int {
	return s.g.UTF16Count()
}

// String returns the content as a Go string. Static storage is returned
// without copying.
func (s String) String() string {
	return s.g.String()
}

// Bytes returns a copy of the UTF-8 content.
func (s String) Bytes() []byte {
	return s.g.AppendUTF8(make([]byte, 0, s.g.UTF8Count()))
}

// AppendTo appends the UTF-8 content to dst.
func (s String) AppendTo(dst []byte) []byte {
	return s.g.AppendUTF8(dst)
}

// UTF16Units returns a copy of the content in UTF-16.
func (s String) UTF16Units() []uint16 {
	return s.g.AppendUTF16(make([]uint16, 0, s.g.UTF16Count()))
}

// WithUTF8 calls body with the UTF-8 content. The slice is borrowed: body
// must not modify or retain it.
func (s String) WithUTF8(body func([]byte)) {
	s.g.WithUTF8(body)
}

// Capacity returns the number of code units s can hold before an append
// reallocates. Storage s does not own reports its length.
func (s String) Capacity() int {
	return s.g.Capacity()
}

// Kind reports the storage backing s.
func (s String) Kind() Kind {
	return s.g.Kind()
}

// HasPrefix reports whether s begins with a string canonically equivalent
// to prefix, ending on a normalization boundary.
func (s String) HasPrefix(prefix String) bool {
	return compare.HasPrefix(&s.g, &prefix.g)
}

// HasSuffix reports whether s ends with a string canonically equivalent to
// suffix, starting on a normalization boundary.
func (s String) HasSuffix(suffix String) bool {
	return compare.HasSuffix(&s.g, &suffix.g)
}

// stringBytes views s as bytes. The result must not be written.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
