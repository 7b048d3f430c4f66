// doc.go -- package overview
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

// Package slotdb implements an embedded, single-process, append-only
// key/value store for fixed-width 256-bit keys and variable-length byte
// values. The store persists to a single sparse file, memory-maps it for
// zero-copy reads, and guarantees at-most-one writer with many concurrent
// readers.
//
// On-disk layout is a flat array of fixed-size 768-byte slots (record.go).
// Each slot holds exactly one checksummed record, or is all-zero (free).
// Callers never address slots directly: a 256-bit caller key is hashed
// into a derived key (hash.go), which selects a linear-probe chain over
// the slot table (atomic.go). Values larger than a single record's 728-byte
// body are transparently split into a header record plus a run of chunk
// records and reassembled on read (chunk.go).
//
// # Zero-copy reads
//
// Get returns a byte slice that is safe to use for the lifetime of the
// Handle, without copying, whenever the underlying record fits in one
// slot. This relies on the append-only discipline: once a slot validates,
// its bytes never change again for the rest of the Handle's life. A read
// only needs the shard's RWMutex held long enough to validate the slot's
// checksum (table.go's readGuard); the returned body slice is a view into
// the Handle's own mmap region, which stays mapped until Close —
// independent of whether any lock is held. Close unmaps the region, after
// which such slices are no longer valid. Go slices simply aren't tied to
// the lock that produced them, so no unsafe lifetime extension is required
// to hand one back after unlocking.
package slotdb
