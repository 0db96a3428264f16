package storage

import "sync"

// maxPooledScratch bounds the buffers kept for reuse.
const maxPooledScratch = 64 * 1024

// ScratchPool recycles temporary byte buffers used while transcoding and
// normalizing. It uses sync.Pool so buffers are cached per P.
var ScratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 256)
		return &b
	},
}

// GetScratch retrieves an empty buffer with at least capacity bytes of room.
func GetScratch(capacity int) *[]byte {
	b := ScratchPool.Get().(*[]byte)
	if cap(*b) < capacity {
		*b = make([]byte, 0, capacity)
	}
	*b = (*b)[:0]
	return b
}

// PutScratch returns a buffer to the pool. Oversized buffers are dropped.
func PutScratch(b *[]byte) {
	if b == nil || cap(*b) > maxPooledScratch {
		return
	}
	*b = (*b)[:0]
	ScratchPool.Put(b)
}

// UnitsPool recycles temporary UTF-16 buffers used when copying out of
// foreign storage.
var UnitsPool = sync.Pool{
	New: func() any {
		u := make([]uint16, 0, 128)
		return &u
	},
}

// GetUnits retrieves a UTF-16 buffer of length n.
func GetUnits(n int) *[]uint16 {
	u := UnitsPool.Get().(*[]uint16)
	if cap(*u) < n {
		*u = make([]uint16, n)
	}
	*u = (*u)[:n]
	return u
}

// PutUnits returns a UTF-16 buffer to the pool.
func PutUnits(u *[]uint16) {
	if u == nil || cap(*u) > maxPooledScratch/2 {
		return
	}
	*u = (*u)[:0]
	UnitsPool.Put(u)
}
