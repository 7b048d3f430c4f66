// hash.go -- derived-key functions: AtomicKey and ChunkKey
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"lukechampine.com/blake3"
)

// atomicKey computes AtomicKey(k) = H(k), the derived key under which a
// short value (or a chunked value's header) is stored: a BLAKE3-256 hash
// of the caller's 32-byte key.
func atomicKey(callerKey [32]byte) derivedKey {
	return derivedKey(blake3.Sum256(callerKey[:]))
}

// chunkKey computes ChunkKey(k, i) = H_k(LE64(i)), the derived key for the
// i'th chunk of a long value under caller key k. H_k is a keyed 256-bit
// hash built from four domain-separated siphash-2-4 lanes, keyed by the
// first 16 bytes of the caller key (siphash keys are exactly 16 bytes).
// Four lanes (tagged 0..3) are concatenated to cover the full 256 bits.
func chunkKey(callerKey [32]byte, i uint64) derivedKey {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], i)

	var out derivedKey
	for lane := 0; lane < 4; lane++ {
		h := siphash.New(callerKey[:16])
		h.Write(idx[:])
		h.Write([]byte{byte(lane)})
		binary.LittleEndian.PutUint64(out[lane*8:lane*8+8], h.Sum64())
	}
	return out
}
