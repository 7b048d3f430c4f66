// chunk.go -- chunking layer: split/reassemble values larger than BodyMax
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	lru "github.com/opencoff/golang-lru"
)

// chunkedMap transparently splits values larger than BodyMax across a
// header record plus a sequence of chunk records, and reassembles them on
// read. Values that fit in one record pass straight through to the atomic
// map with no overhead.
type chunkedMap struct {
	atomic *atomicMap

	// cache opportunistically holds reassembled (copied) chunked-value
	// buffers, keyed by the caller's 32-byte key. It is purely a
	// performance aid: a nil cache (WithCacheSize(0)) must not change
	// observable behavior, only force every chunked lookup to re-copy.
	cache *lru.ARCCache
}

func newChunkedMap(a *atomicMap, cacheSize int) *chunkedMap {
	m := &chunkedMap{atomic: a}
	if cacheSize > 0 {
		c, err := lru.NewARC(cacheSize)
		if err == nil {
			m.cache = c
		}
	}
	return m
}

// insert stores value under key, chunking it if necessary.
func (m *chunkedMap) insert(key [32]byte, value []byte) error {
	if len(value) <= BodyMax {
		return m.atomic.insert(atomicKey(key), value, nil)
	}

	total := uint32(len(value))
	if uint64(len(value)) > uint64(^uint32(0)) {
		return ErrValueTooLarge
	}

	if err := m.atomic.insert(atomicKey(key), nil, &total); err != nil {
		return err
	}

	nchunks := ceilDiv(len(value), BodyMax)
	for i := 0; i < nchunks; i++ {
		start := i * BodyMax
		end := start + BodyMax
		if end > len(value) {
			end = len(value)
		}
		if err := m.atomic.insert(chunkKey(key, uint64(i)), value[start:end], nil); err != nil {
			return err
		}
	}

	return nil
}

// lookup returns the value stored under key, reassembling it from chunks
// if necessary. A header found with a missing chunk (a torn write after a
// crash) is reported as not found, per spec.
func (m *chunkedMap) lookup(key [32]byte) ([]byte, bool) {
	body, length, ok := m.atomic.lookup(atomicKey(key))
	if !ok {
		return nil, false
	}
	if length <= BodyMax {
		return body, true
	}

	if m.cache != nil {
		if v, ok := m.cache.Get(key); ok {
			return v.([]byte), true
		}
	}

	buf := make([]byte, length)
	nchunks := ceilDiv(int(length), BodyMax)
	for i := 0; i < nchunks; i++ {
		cbody, _, ok := m.atomic.lookup(chunkKey(key, uint64(i)))
		if !ok {
			return nil, false
		}
		copy(buf[i*BodyMax:], cbody)
	}

	if m.cache != nil {
		m.cache.Add(key, buf)
	}
	return buf, true
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
