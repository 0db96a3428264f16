package scalar

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		kind   ErrorKind
		offset int
		length int
	}{
		{"empty", []byte{}, KindNone, 0, 0},
		{"ascii", []byte("hello"), KindNone, 0, 0},
		{"two byte", []byte("ABé"), KindNone, 0, 0},
		{"four byte", []byte("🎉"), KindNone, 0, 0},
		{"invalid starter", []byte{0xC0, 0x0A}, KindInvalidStarterByte, 0, 1},
		{"invalid starter F5", []byte{'a', 0xF5, 0x80}, KindInvalidStarterByte, 1, 1},
		{"stray continuation", []byte{'a', 0x80}, KindUnexpectedContinuationByte, 1, 1},
		{"overlong E0", []byte{0xE0, 0x80, 0x80}, KindOverlongEncoding, 0, 1},
		{"overlong F0", []byte{0xF0, 0x8F, 0xBF, 0xBF}, KindOverlongEncoding, 0, 1},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, KindInvalidCodePoint, 0, 1},
		{"above max", []byte{0xF4, 0x90, 0x80, 0x80}, KindInvalidCodePoint, 0, 1},
		{"end after lead", []byte{'x', 0xE2}, KindUnexpectedEndOfInput, 1, 1},
		{"end after two", []byte{0xE2, 0x82}, KindUnexpectedEndOfInput, 0, 2},
		{"end after three", []byte{0xF0, 0x9F, 0x8E}, KindUnexpectedEndOfInput, 0, 3},
		{"truncated", []byte{0xE2, 0x82, 'A'}, KindTruncatedScalar, 0, 2},
		{"truncated second", []byte{0xC3, 'A'}, KindTruncatedScalar, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.input)
			if tt.kind == KindNone {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Validate() error = %v, want *DecodeError", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", de.Kind, tt.kind)
			}
			if de.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", de.Offset, tt.offset)
			}
			if de.Length != tt.length {
				t.Errorf("Length = %d, want %d", de.Length, tt.length)
			}
			if !errors.Is(err, ErrInvalidUTF8) {
				t.Error("errors.Is(err, ErrInvalidUTF8) = false")
			}
			if errors.Is(err, ErrInvalidUTF16) {
				t.Error("errors.Is(err, ErrInvalidUTF16) = true for UTF-8 input")
			}
		})
	}
}

func TestValidateSummary(t *testing.T) {
	sum, err := Validate([]byte{0x41, 0x42, 0xC3, 0xA9})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if sum.Bytes != 4 || sum.Scalars != 3 || sum.UTF16Units != 3 {
		t.Errorf("summary = %+v, want 4 bytes, 3 scalars, 3 units", sum)
	}
	if sum.IsASCII() {
		t.Error("summary reports ASCII for non-ASCII input")
	}

	sum, _ = Validate([]byte("a😀"))
	if sum.UTF16Units != 3 {
		t.Errorf("UTF16Units = %d, want 3", sum.UTF16Units)
	}
}

func TestAppendRepaired(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		want     string
		repaired bool
	}{
		{"valid", []byte("héllo"), "héllo", false},
		{"invalid starter", []byte{0xC0, 0x0A}, "\uFFFD\n", true},
		{"maximal subpart", []byte{0xE2, 0x82, 'A'}, "\uFFFDA", true},
		{"each stray byte", []byte{0x80, 0x80}, "\uFFFD\uFFFD", true},
		{"truncated at end", []byte{'a', 0xF0, 0x9F, 0x8E}, "a\uFFFD", true},
		{"surrogate bytes", []byte{0xED, 0xA0, 0x80}, "\uFFFD\uFFFD\uFFFD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sum, repaired := AppendRepaired(nil, tt.input)
			if string(got) != tt.want {
				t.Errorf("AppendRepaired() = %q, want %q", got, tt.want)
			}
			if repaired != tt.repaired {
				t.Errorf("repaired = %v, want %v", repaired, tt.repaired)
			}
			if sum.Bytes != len(got) {
				t.Errorf("summary Bytes = %d, want %d", sum.Bytes, len(got))
			}
			if sum.Scalars != utf8.RuneCount(got) {
				t.Errorf("summary Scalars = %d, want %d", sum.Scalars, utf8.RuneCount(got))
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Kind: KindUnpairedSurrogate, Offset: 3, Length: 1, UTF16: true}
	if !errors.Is(err, ErrInvalidUTF16) {
		t.Error("errors.Is(err, ErrInvalidUTF16) = false")
	}
	want := "invalid UTF-16: unpaired surrogate at offset 3 (length 1)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if got := ErrorKind(200).String(); got != "ErrorKind(200)" {
		t.Errorf("String() = %q", got)
	}
}

// FuzzValidate checks the validator against the standard library.
func FuzzValidate(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte{0xC0, 0x0A})
	f.Add([]byte("日本語"))
	f.Add([]byte{0xED, 0xA0, 0x80})
	f.Add([]byte{0xF4, 0x8F, 0xBF, 0xBF})

	f.Fuzz(func(t *testing.T, b []byte) {
		sum, err := Validate(b)
		if (err == nil) != utf8.Valid(b) {
			t.Fatalf("Validate() error = %v, utf8.Valid = %v", err, utf8.Valid(b))
		}
		if err == nil && sum.Scalars != utf8.RuneCount(b) {
			t.Errorf("Scalars = %d, want %d", sum.Scalars, utf8.RuneCount(b))
		}

		repaired, _, _ := AppendRepaired(nil, b)
		if !utf8.Valid(repaired) {
			t.Errorf("AppendRepaired() produced invalid UTF-8: %x", repaired)
		}
	})
}
