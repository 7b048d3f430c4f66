// atomic.go -- open-addressed hash index over derived keys
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"encoding/binary"
	"log/slog"
)

// defaultMaxProbe bounds a single linear-probe run. Expected run length is
// O(1) at any sane load factor; this exists purely to bound pathological
// (corrupt or adversarially-shaped) input instead of spinning forever.
const defaultMaxProbe = 10000

// atomicMap is the open-addressed hash index: a caller supplies a derived
// key (already hashed by atomicKey or chunkKey) and gets back the single
// record stored at the first matching slot on its linear probe chain.
type atomicMap struct {
	table    *slotTable
	maxProbe uint64
	log      *slog.Logger
}

func newAtomicMap(t *slotTable, maxProbe uint64, log *slog.Logger) *atomicMap {
	if maxProbe == 0 {
		maxProbe = defaultMaxProbe
	}
	return &atomicMap{table: t, maxProbe: maxProbe, log: log}
}

// probeStart returns h(dk) = low64(dk) mod N. N is a power of two, so the
// modulo reduces to a mask.
func (m *atomicMap) probeStart(dk derivedKey) uint64 {
	low64 := binary.LittleEndian.Uint64(dk[:8])
	return low64 & (m.table.slotCount() - 1)
}

// lookup walks dk's probe chain and returns the body and logical length of
// the first matching, valid record. It reports "not found" when it reaches
// the first invalid slot, or when maxProbe slots have been probed without a
// match.
func (m *atomicMap) lookup(dk derivedKey) (body []byte, length uint32, ok bool) {
	n := m.table.slotCount()
	start := m.probeStart(dk)

	for j := uint64(0); j < m.maxProbe; j++ {
		idx := (start + j) % n

		g := m.table.read(idx)
		b := g.bytes()
		rec, valid := validateRecord(b)
		g.unlock()

		if !valid {
			if j > 0 {
				m.log.Debug("slotdb: corrupt or free slot ended probe", "slot", idx, "probe_offset", j)
			}
			return nil, 0, false
		}
		if rec.key() == dk {
			return rec.body(), rec.length(), true
		}
	}

	return nil, 0, false
}

// insert places a record for dk. If lengthOverride is nil, body is the full
// value and length is len(body) (an atomic or chunk record). If
// lengthOverride is non-nil, body must be empty and length is *lengthOverride
// (a chunked-value header). Re-inserting an already-present (dk, body) pair
// is a no-op (idempotent insert).
func (m *atomicMap) insert(dk derivedKey, body []byte, lengthOverride *uint32) error {
	n := m.table.slotCount()
	start := m.probeStart(dk)

	length := uint32(len(body))
	if lengthOverride != nil {
		length = *lengthOverride
	}

	for j := uint64(0); j < m.maxProbe; j++ {
		idx := (start + j) % n

		g := m.table.write(idx)
		b := g.bytes()
		rec, valid := validateRecord(b)

		if !valid {
			encodeRecord(b, dk, length, body)
			g.unlock()
			return nil
		}
		if rec.key() == dk {
			// Idempotent insert: the earliest winning write persists.
			g.unlock()
			return nil
		}
		g.unlock()
	}

	return ErrCapacity
}
