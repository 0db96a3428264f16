package storage

import (
	"sync/atomic"
	"unsafe"

	"github.com/dshills/ustr/internal/engine/assert"
)

// Flags describe the content of a native buffer up to its high-water count.
type Flags uint32

const (
	// FlagASCII indicates every byte is ASCII.
	FlagASCII Flags = 1 << iota

	// FlagNFC indicates the content is in Normalization Form C.
	FlagNFC
)

// Native is owned heap storage for UTF-8 content.
type Native struct {
	// buf is allocated once; len(buf) is the realised capacity plus the
	// terminator byte.
	buf    []byte
	count  atomic.Int64
	flags  atomic.Uint32
	crumbs atomic.Pointer[Breadcrumbs]
}

// Create allocates empty storage able to hold at least capacity bytes.
func Create(capacity int) *Native {
	assert.That(capacity >= 0, "negative storage capacity")
	n := &Native{buf: allocate(capacity + 1)}
	n.flags.Store(uint32(FlagASCII | FlagNFC))
	return n
}

// CreateFrom allocates storage of at least capacity bytes holding a copy of
// the concatenation of parts. flags describe the combined content.
func CreateFrom(capacity int, flags Flags, parts ...[]byte) *Native {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	n := &Native{buf: allocate(max(capacity, total) + 1)}
	pos := 0
	for _, p := range parts {
		pos += copy(n.buf[pos:], p)
	}
	n.buf[pos] = 0
	n.count.Store(int64(pos))
	n.flags.Store(uint32(flags))
	return n
}

// Capacity returns the number of content bytes the buffer can hold.
func (n *Native) Capacity() int {
	return len(n.buf) - 1
}

// Count returns the high-water count.
func (n *Native) Count() int {
	return int(n.count.Load())
}

// Flags returns the content flags as of the high-water count.
func (n *Native) Flags() Flags {
	return Flags(n.flags.Load())
}

// Bytes returns the first count bytes. The slice is capped so appending to
// it cannot reach the shared tail.
func (n *Native) Bytes(count int) []byte {
	assert.That(count <= n.Count(), "read past storage high-water count")
	return n.buf[:count:count]
}

// OwnsTail reports whether a value of the given count currently owns the
// unused capacity.
func (n *Native) OwnsTail(count int) bool {
	return int64(count) == n.count.Load()
}

// Unused returns the capacity available after count bytes.
func (n *Native) Unused(count int) int {
	return n.Capacity() - count
}

// AppendInPlace appends b after count bytes when count is the high-water
// count and the unused capacity suffices. keep is ANDed into the storage
// flags. It reports false without touching the buffer otherwise.
func (n *Native) AppendInPlace(count int, b []byte, keep Flags) bool {
	if count+len(b) > n.Capacity() {
		return false
	}
	if len(b) == 0 {
		return n.OwnsTail(count)
	}
	if !n.count.CompareAndSwap(int64(count), int64(count+len(b))) {
		return false
	}
	copy(n.buf[count:], b)
	n.buf[count+len(b)] = 0
	n.flags.And(uint32(keep))
	n.crumbs.Store(nil)
	return true
}

// ID identifies the storage for diagnostics.
func (n *Native) ID() uintptr {
	return uintptr(unsafe.Pointer(n))
}

// Check verifies the terminator invariant under the debug build tag.
func (n *Native) Check() {
	if !assert.Enabled {
		return
	}
	c := n.Count()
	assert.That(c < len(n.buf), "storage count exceeds capacity")
	assert.That(n.buf[c] == 0, "storage is not null-terminated")
}
