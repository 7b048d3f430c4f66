// handle.go -- file open/close lifecycle: lock, sparse extend, mmap
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Handle is an open database: an exclusively-locked, memory-mapped file
// plus the slot table, atomic map, and chunking layer built on top of it.
// A single Handle may be shared by any number of concurrent Get and Insert
// callers; see doc.go for the concurrency model.
type Handle struct {
	f    *os.File
	mmap []byte

	table   *slotTable
	atomic  *atomicMap
	chunked *chunkedMap

	log *slog.Logger

	closeOnce sync.Once
	closed    bool
	closeMu   sync.Mutex

	flushStop chan struct{}
	flushDone chan struct{}
}

// Open opens (creating if absent) the database file at path: it acquires
// an exclusive advisory lock, sparsely extends the file to N * SlotBytes
// bytes (N a power of two, at least the configured minimum slot count),
// memory-maps the region read/write, and advises the OS that access will
// be random. It returns ErrLocked if another process already holds the
// file's lock.
func Open(path string, opts ...Option) (*Handle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("slotdb: open %s: %w", path, err)
	}

	if err := lockExclusive(f); err != nil {
		f.Close()
		if err == ErrLocked {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("slotdb: lock %s: %w", path, err)
	}

	n := nextpow2(o.minSlots)
	size := int64(n) * SlotBytes

	if err := growSparse(f, size); err != nil {
		unlock(f)
		f.Close()
		return nil, fmt.Errorf("slotdb: extend %s: %w", path, err)
	}

	mmap, err := mmapFile(f, size)
	if err != nil {
		unlock(f)
		f.Close()
		return nil, fmt.Errorf("slotdb: mmap %s: %w", path, err)
	}

	table := newSlotTable(mmap, o.shardCount)
	atomic := newAtomicMap(table, o.maxProbe, o.log)
	chunked := newChunkedMap(atomic, o.cacheSize)

	h := &Handle{
		f:       f,
		mmap:    mmap,
		table:   table,
		atomic:  atomic,
		chunked: chunked,
		log:     o.log,
	}

	h.log.Debug("slotdb: opened", "path", path, "slots", n, "shards", o.shardCount)

	if o.autoFlush > 0 {
		h.startAutoFlush(o.autoFlush)
	}

	return h, nil
}

// growSparse seeks to offset size-1 and writes a single zero byte, sparsely
// extending f to size bytes: the filesystem backs this lazily, so physical
// disk use grows with actual writes rather than up front.
func growSparse(f *os.File, size int64) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() >= size {
		return nil
	}
	if _, err := f.WriteAt([]byte{0}, size-1); err != nil {
		return err
	}
	return nil
}

// Get looks up key and returns its value. The returned slice is a
// zero-copy view into the mapped file for values that fit in a single
// record, and a freshly allocated, reassembled buffer for chunked values.
// It is valid for the lifetime of the Handle. ok is false if key has never
// been inserted (or a chunked insert was interrupted and never completed),
// or if the Handle has been closed.
func (h *Handle) Get(key [32]byte) (value []byte, ok bool) {
	if h.isClosed() {
		return nil, false
	}
	return h.chunked.lookup(key)
}

// Insert stores value under key. It is a no-op if (key, value) was already
// inserted; re-inserting a different value under an already-occupied key is
// a caller logic error whose only guaranteed outcome is that the earliest
// winning write persists.
func (h *Handle) Insert(key [32]byte, value []byte) error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.chunked.insert(key, value)
}

// Flush blocks until the mapped region's dirty pages are durable.
func (h *Handle) Flush() error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.table.flush()
}

func (h *Handle) isClosed() bool {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	return h.closed
}

// Close flushes, unmaps, and releases the file lock. It is safe to call
// more than once; only the first call does any work.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		if h.flushStop != nil {
			close(h.flushStop)
			<-h.flushDone
		}

		if ferr := h.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		if merr := munmapFile(h.mmap); merr != nil && err == nil {
			err = merr
		}
		if uerr := unlock(h.f); uerr != nil && err == nil {
			err = uerr
		}
		if cerr := h.f.Close(); cerr != nil && err == nil {
			err = cerr
		}

		h.closeMu.Lock()
		h.closed = true
		h.closeMu.Unlock()

		h.log.Debug("slotdb: closed")
	})
	return err
}
