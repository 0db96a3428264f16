package compare

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/dshills/ustr/internal/engine/guts"
)

// hashTerminator ends every hashed stream. It never occurs in UTF-8, so
// hashes of a string and of its prefixes cannot collide by construction.
const hashTerminator = 0xFF

// hashKey is chosen once per process so hash values are not predictable
// across runs.
var hashKey = func() [32]byte {
	var k [32]byte
	if _, err := rand.Read(k[:]); err != nil {
		panic("compare: reading hash key: " + err.Error())
	}
	return k
}()

var hasherPool = sync.Pool{
	New: func() any {
		h, err := blake3.NewKeyed(hashKey[:])
		if err != nil {
			panic("compare: BLAKE3 keyed hash initialization failed: " + err.Error())
		}
		return h
	},
}

// Hash returns a hash consistent with Equal: canonically equivalent
// strings hash identically.
func Hash(g *guts.Guts) uint64 {
	h := hasherPool.Get().(*blake3.Hasher)
	defer hasherPool.Put(h)
	h.Reset()

	if isFastNFC(g) {
		_, _ = h.Write(g.FastUTF8())
	} else {
		s := newStream(g)
		for c, ok := s.chunk(); ok; c, ok = s.chunk() {
			_, _ = h.Write(c)
			s.advance(len(c))
		}
		s.close()
	}
	_, _ = h.Write([]byte{hashTerminator})

	var sum [32]byte
	h.Sum(sum[:0])
	return binary.LittleEndian.Uint64(sum[:8])
}
