// options.go -- functional options for Open
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"log/slog"
	"time"
)

// defaultMinSlots is the recommended minimum slot count (2^29). The backing
// file is sparse, so this costs virtual address space, not disk.
const defaultMinSlots = 1 << 29

// defaultCacheSize is the number of reassembled chunked values kept in the
// opportunistic read cache.
const defaultCacheSize = 128

type openOptions struct {
	minSlots   uint64
	shardCount int
	maxProbe   uint64
	cacheSize  int
	autoFlush  time.Duration
	log        *slog.Logger
}

func defaultOptions() openOptions {
	return openOptions{
		minSlots:   defaultMinSlots,
		shardCount: defaultShardCount,
		maxProbe:   defaultMaxProbe,
		cacheSize:  defaultCacheSize,
		autoFlush:  0,
		log:        slog.Default(),
	}
}

// Option configures a Handle at Open time.
type Option func(*openOptions)

// WithMinSlots sets the minimum slot count for the table. The actual slot
// count is rounded up to the next power of two, since the probe mask
// requires N to be a power of two, and the backing file is sparsely
// extended to N * SlotBytes bytes. Default: 2^29 slots.
func WithMinSlots(n uint64) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.minSlots = n
		}
	}
}

// WithShardCount sets the number of striped reader/writer locks guarding
// the slot table. Default: 128.
func WithShardCount(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.shardCount = n
		}
	}
}

// WithProbeLimit sets the hard bound on slots probed per key before Insert
// or Get gives up. Default: 10,000.
func WithProbeLimit(n uint64) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.maxProbe = n
		}
	}
}

// WithCacheSize sets the capacity of the reassembled-chunked-value cache.
// Zero disables the cache entirely; every chunked Get then re-copies.
func WithCacheSize(n int) Option {
	return func(o *openOptions) {
		if n >= 0 {
			o.cacheSize = n
		}
	}
}

// WithAutoFlush starts a background goroutine that calls Flush every d
// until Close. Disabled (d == 0) by default: the core only ever promises
// the synchronous Flush primitive, and scheduling it is a host concern the
// host may still choose to drive itself.
func WithAutoFlush(d time.Duration) Option {
	return func(o *openOptions) {
		o.autoFlush = d
	}
}

// WithLogger sets the structured logger used for debug-level diagnostics
// (open and close, failed background flushes, and lookups whose probe run
// ends at an invalid slot after the first probe). Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.log = l
		}
	}
}
