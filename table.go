// table.go -- the slot table: mmap'd slot storage with sharded locking
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"sync"

	"golang.org/x/sys/unix"
)

// defaultShardCount is the number of independent reader/writer locks that
// stripe the slot table. The read path is dominated by effectively random
// slot accesses, so contention must scale with core count; one lock per
// slot would be correct but would inflate memory by orders of magnitude for
// a multi-hundred-million-slot table, so instead we stripe by index modulo
// a fixed shard count.
const defaultShardCount = 128

// cacheLinePad is sized so that a shard (a sync.RWMutex plus padding) never
// shares a cache line with its neighbor, avoiding false sharing under
// concurrent probes that happen to land on adjacent shards.
const cacheLinePad = 64

type shard struct {
	mu sync.RWMutex
	_  [cacheLinePad]byte
}

// slotTable owns the mapped byte region backing the database and the
// sharded lock array that guards it. Slot s is guarded by shard s % L.
type slotTable struct {
	mmap   []byte
	shards []shard
	n      uint64 // slot count; always a power of two
}

func newSlotTable(mmap []byte, shardCount int) *slotTable {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	if len(mmap)%SlotBytes != 0 {
		panic("slotdb: mmap region is not a whole number of slots")
	}
	return &slotTable{
		mmap:   mmap,
		shards: make([]shard, shardCount),
		n:      uint64(len(mmap) / SlotBytes),
	}
}

// slotCount returns N, the number of slots in the table.
func (t *slotTable) slotCount() uint64 {
	return t.n
}

func (t *slotTable) shardFor(s uint64) *shard {
	return &t.shards[s%uint64(len(t.shards))]
}

func (t *slotTable) window(s uint64) []byte {
	off := s * SlotBytes
	return t.mmap[off : off+SlotBytes]
}

// readGuard exposes an immutable view of one slot while its shard's read
// lock is held. Call unlock to release the shard; the slice returned by
// bytes remains valid afterwards (see doc.go for why this is safe).
type readGuard struct {
	sh *shard
	b  []byte
}

func (g readGuard) bytes() []byte { return g.b }
func (g readGuard) unlock()       { g.sh.mu.RUnlock() }

// writeGuard exposes a mutable view of one slot while its shard's write
// lock is held.
type writeGuard struct {
	sh *shard
	b  []byte
}

func (g writeGuard) bytes() []byte { return g.b }
func (g writeGuard) unlock()       { g.sh.mu.Unlock() }

// read acquires the shared side of slot s's shard lock and returns a guard
// over its bytes.
func (t *slotTable) read(s uint64) readGuard {
	sh := t.shardFor(s)
	sh.mu.RLock()
	return readGuard{sh: sh, b: t.window(s)}
}

// write acquires the exclusive side of slot s's shard lock and returns a
// guard over its bytes.
func (t *slotTable) write(s uint64) writeGuard {
	sh := t.shardFor(s)
	sh.mu.Lock()
	return writeGuard{sh: sh, b: t.window(s)}
}

// flush blocks until the mapped region's dirty pages are durable.
func (t *slotTable) flush() error {
	if len(t.mmap) == 0 {
		return nil
	}
	return unix.Msync(t.mmap, unix.MS_SYNC)
}
