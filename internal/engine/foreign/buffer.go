package foreign

import (
	"sync"
	"unicode/utf16"
)

// UTF16Buffer is an in-memory Source. It is safe for concurrent use and may
// be appended to after creation; wrapping takes an immutable snapshot.
type UTF16Buffer struct {
	mu    sync.RWMutex
	units []uint16
}

// NewUTF16Buffer returns a buffer holding a copy of units.
func NewUTF16Buffer(units []uint16) *UTF16Buffer {
	return &UTF16Buffer{units: append([]uint16(nil), units...)}
}

// BufferFromString returns a buffer holding the UTF-16 encoding of s.
func BufferFromString(s string) *UTF16Buffer {
	return &UTF16Buffer{units: utf16.Encode([]rune(s))}
}

// Len implements Source.
func (b *UTF16Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.units)
}

// CharacterAt implements Source.
func (b *UTF16Buffer) CharacterAt(i int) uint16 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.units[i]
}

// CopyCharacters implements Source.
func (b *UTF16Buffer) CopyCharacters(dst []uint16, lo int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copy(dst, b.units[lo:])
}

// ImmutableCopy implements ImmutableCopier.
func (b *UTF16Buffer) ImmutableCopy() Source {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return frozen(append([]uint16(nil), b.units...))
}

// Append adds units to the end of the buffer.
func (b *UTF16Buffer) Append(units ...uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.units = append(b.units, units...)
}

// frozen is an immutable snapshot of a UTF16Buffer.
type frozen []uint16

func (f frozen) Len() int                 { return len(f) }
func (f frozen) CharacterAt(i int) uint16 { return f[i] }

func (f frozen) CopyCharacters(dst []uint16, lo int) int {
	return copy(dst, f[lo:])
}
