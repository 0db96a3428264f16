package small

import (
	"bytes"
	"testing"
	"testing/quick"
	"unsafe"
)

func TestSize(t *testing.T) {
	if got := unsafe.Sizeof(String{}); got != 16 {
		t.Errorf("Sizeof(String) = %d, want 16", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
		ascii bool
	}{
		{"empty", "", true, true},
		{"ascii", "hello", true, true},
		{"full", "abcdefghijklmno", true, true},
		{"too long", "abcdefghijklmnop", false, false},
		{"non-ascii", "ABé", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := New([]byte(tt.input))
			if ok != tt.ok {
				t.Fatalf("New() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if s.String() != tt.input {
				t.Errorf("String() = %q, want %q", s.String(), tt.input)
			}
			if s.IsASCII() != tt.ascii {
				t.Errorf("IsASCII() = %v, want %v", s.IsASCII(), tt.ascii)
			}
			if s.Unused() != Capacity-len(tt.input) {
				t.Errorf("Unused() = %d", s.Unused())
			}
			fs, _ := FromString(tt.input)
			if fs != s {
				t.Error("FromString() != New()")
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	f := func(b []byte) bool {
		if len(b) > Capacity {
			b = b[:Capacity]
		}
		s, ok := New(b)
		if !ok {
			return false
		}
		var got []byte
		s.WithUTF8(func(u []byte) { got = append(got, u...) })
		return bytes.Equal(got, b) && bytes.Equal(s.Bytes(), b) && s.Count() == len(b)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestAppend(t *testing.T) {
	s, _ := New([]byte("hello"))
	s2, ok := s.Append([]byte(", wö"))
	if !ok {
		t.Fatal("Append() did not fit")
	}
	if s2.String() != "hello, wö" || s2.IsASCII() {
		t.Errorf("Append() = %q ascii=%v", s2.String(), s2.IsASCII())
	}
	if s.String() != "hello" {
		t.Errorf("original changed to %q", s.String())
	}
	if _, ok := s2.Append([]byte("rld!!!!")); ok {
		t.Error("Append() past capacity reported ok")
	}

	want, _ := New([]byte("hello, wö"))
	if s2 != want {
		t.Error("appended value differs from directly built value")
	}
}

func TestSlice(t *testing.T) {
	s, _ := New([]byte("aéz"))
	sub := s.Slice(0, 1)
	if sub.String() != "a" || !sub.IsASCII() {
		t.Errorf("Slice(0, 1) = %q ascii=%v", sub.String(), sub.IsASCII())
	}
	want, _ := New([]byte("éz"))
	if s.Slice(1, 4) != want {
		t.Errorf("Slice(1, 4) = %q", s.Slice(1, 4).String())
	}
}

func TestWord(t *testing.T) {
	s, _ := New([]byte("ABCDEFGHIJ"))
	lo, hi := s.Word()
	if byte(lo) != 'A' || byte(hi) != 'I' {
		t.Errorf("Word() = %#x %#x", lo, hi)
	}
	if byte(hi>>56)&countMask != 10 {
		t.Errorf("count byte = %#x", byte(hi>>56))
	}
}

func TestEmptyIsZero(t *testing.T) {
	e, _ := New(nil)
	if e != (String{}) {
		t.Error("New(nil) is not the zero value")
	}
	a, _ := New([]byte("ab"))
	if a.Slice(1, 1) != (String{}) {
		t.Error("empty slice is not the zero value")
	}
	if z, _ := e.Append(nil); z != (String{}) || !z.IsASCII() {
		t.Error("empty append is not the zero value")
	}
}

func TestView(t *testing.T) {
	s, _ := New([]byte("view"))
	v := s.View()
	if string(v) != "view" || cap(v) != 4 {
		t.Errorf("View() = %q cap %d", v, cap(v))
	}
}
