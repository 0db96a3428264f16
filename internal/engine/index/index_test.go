package index

import (
	"testing"
	"testing/quick"
)

func TestIndexLayout(t *testing.T) {
	i := NewTranscoded(1234, 2).WithCharacterStride(7)
	if i.Offset() != 1234 {
		t.Errorf("Offset() = %d, want 1234", i.Offset())
	}
	if i.Transcoded() != 2 {
		t.Errorf("Transcoded() = %d, want 2", i.Transcoded())
	}
	if i.IsAligned() {
		t.Error("transcoded index reports aligned")
	}
	if s, ok := i.CharacterStride(); !ok || s != 7 {
		t.Errorf("CharacterStride() = %d, %v", s, ok)
	}
	if got := i.WithCharacterStride(40); func() bool { _, ok := got.CharacterStride(); return ok }() {
		t.Error("oversized stride was cached")
	}

	a := NewAligned(MaxOffset)
	if a.Offset() != MaxOffset || !a.IsAligned() {
		t.Errorf("NewAligned(MaxOffset) = %v", a)
	}
	if Start.Offset() != 0 || !Start.IsAligned() {
		t.Errorf("Start = %v", Start)
	}
	if NewTranscoded(5, 0) != NewAligned(5) {
		t.Error("NewTranscoded(5, 0) != NewAligned(5)")
	}
}

func TestIndexOrderingIgnoresCache(t *testing.T) {
	a := NewAligned(10).WithCharacterStride(3)
	b := New(10)
	if !a.Equal(b) || a.Compare(b) != 0 {
		t.Errorf("%v and %v should be equal", a, b)
	}
	if a.WithoutCache() != b {
		t.Errorf("WithoutCache() = %#x, want %#x", a.WithoutCache().Encoded(), b.Encoded())
	}
	c := NewTranscoded(10, 1)
	if !b.Less(c) || c.Compare(b) != 1 {
		t.Errorf("%v should be before %v", b, c)
	}
	if !c.Less(New(11)) {
		t.Errorf("%v should be before offset 11", c)
	}
}

func TestIndexOrderingProperty(t *testing.T) {
	f := func(x, y uint32, tx, ty uint8, sx, sy uint8) bool {
		i := NewTranscoded(int(x), int(tx%4)).WithCharacterStride(int(sx))
		j := NewTranscoded(int(y), int(ty%4)).WithCharacterStride(int(sy))
		want := 0
		switch {
		case x < y || (x == y && tx%4 < ty%4):
			want = -1
		case x > y || (x == y && tx%4 > ty%4):
			want = 1
		}
		return i.Compare(j) == want && i.Less(j) == (want < 0)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestIndexString(t *testing.T) {
	if got := NewTranscoded(3, 1).String(); got != "Index(offset: 3, transcoded: 1)" {
		t.Errorf("String() = %q", got)
	}
	if got := NewAligned(0).WithCharacterStride(2).String(); got != "Index(offset: 0, stride: 2)" {
		t.Errorf("String() = %q", got)
	}
}
