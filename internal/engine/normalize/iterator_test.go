package normalize

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var normalizeCases = []struct {
	name string
	text string
}{
	{"empty", ""},
	{"ascii", "hello world"},
	{"precomposed", "caf\u00e9"},
	{"decomposed", "cafe\u0301"},
	{"leading mark", "\u0301abc"},
	{"reordering", "a\u0302\u0323b"},
	{"hangul jamo", "\u1100\u1161\u11a8 ok"},
	{"singleton", "\u212b and \u2126"},
	{"mixed", "Ame\u0301lie \U0001F1EB\U0001F1F7 \u1e9b\u0323 x"},
	{"many marks", "o" + strings.Repeat("\u0308", 20) + "z"},
	{"long run", strings.Repeat("na\u00efve ", 100)},
}

func TestAppendUTF8MatchesNorm(t *testing.T) {
	for _, tt := range normalizeCases {
		t.Run(tt.name, func(t *testing.T) {
			want := norm.NFC.String(tt.text)
			if got := string(AppendUTF8(nil, []byte(tt.text))); got != want {
				t.Errorf("AppendUTF8() = %q, want %q", got, want)
			}
		})
	}
}

func TestAppendUTF16MatchesNorm(t *testing.T) {
	for _, tt := range normalizeCases {
		t.Run(tt.name, func(t *testing.T) {
			want := norm.NFC.String(tt.text)
			u := utf16.Encode([]rune(tt.text))
			if got := string(AppendUTF16(nil, u)); got != want {
				t.Errorf("AppendUTF16() = %q, want %q", got, want)
			}
		})
	}
}

func TestFastRunIsZeroCopy(t *testing.T) {
	src := []byte("already normalized text")
	it := NewUTF8(src)
	defer it.Close()
	seg, ok := it.Next()
	if !ok {
		t.Fatal("Next() returned nothing")
	}
	if len(seg) != len(src) || &seg[0] != &src[0] {
		t.Error("fast run was copied")
	}
	if _, ok := it.Next(); ok {
		t.Error("Next() after end returned a segment")
	}
}

func TestOverflowRetry(t *testing.T) {
	// One segment larger than the inline buffer.
	text := "a" + strings.Repeat("\u20d0", 25)
	got := AppendUTF8(nil, []byte(text))
	if want := norm.NFC.String(text); string(got) != want {
		t.Errorf("AppendUTF8() = %q, want %q", got, want)
	}
}

func TestAll(t *testing.T) {
	var out []byte
	for seg := range NewUTF8([]byte("e\u0301 and \u00e9")).All() {
		out = append(out, seg...)
	}
	if string(out) != "\u00e9 and \u00e9" {
		t.Errorf("All() = %q", out)
	}
}

func TestUnpairedSurrogateIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unpaired surrogate did not panic")
		}
	}()
	AppendUTF16(nil, []uint16{'a', 0xD800, 'b'})
}

func collect(it *Iterator) string {
	var out []byte
	for seg := range it.All() {
		out = append(out, seg...)
	}
	return string(out)
}

func TestUnitsMatchesNorm(t *testing.T) {
	for _, tt := range normalizeCases {
		t.Run(tt.name, func(t *testing.T) {
			want := norm.NFC.String(tt.text)
			u := utf16.Encode([]rune(tt.text))
			if got := collect(NewUnits(unitSlice(u))); got != want {
				t.Errorf("NewUnits() = %q, want %q", got, want)
			}
		})
	}
}

func TestUnitsRepairUnpairedSurrogates(t *testing.T) {
	tests := []struct {
		name  string
		units []uint16
		want  string
	}{
		{"lone lead", []uint16{'a', 0xD800, 'b'}, "a\ufffdb"},
		{"lone trail", []uint16{0xDC00}, "\ufffd"},
		{"before mark", []uint16{'e', 0x0301, 0xD83D, 0x0301}, "\u00e9\ufffd\u0301"},
		{"lead at end", []uint16{'x', 0xDBFF}, "x\ufffd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(NewUnits(unitSlice(tt.units))); got != tt.want {
				t.Errorf("NewUnits() = %q, want %q", got, tt.want)
			}
		})
	}
}

func FuzzAppendUTF8(f *testing.F) {
	for _, tt := range normalizeCases {
		f.Add(tt.text)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		got := AppendUTF8(nil, []byte(s))
		if want := norm.NFC.Bytes([]byte(s)); !bytes.Equal(got, want) {
			t.Errorf("AppendUTF8(%q) = %q, want %q", s, got, want)
		}
	})
}

func BenchmarkAppendUTF8(b *testing.B) {
	src := []byte(strings.Repeat("Amélie naïve café ", 100))
	dst := make([]byte, 0, len(src))
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		dst = AppendUTF8(dst[:0], src)
	}
}
