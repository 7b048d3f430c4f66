// handle_unix.go -- unix syscalls backing Open/Close: flock, mmap, madvise
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

//go:build unix

package slotdb

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive acquires a non-blocking exclusive advisory lock on f. It
// returns ErrLocked (not a generic error) if another process already holds
// the lock, so callers don't need to sniff errno themselves.
func lockExclusive(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return ErrLocked
	}
	return err
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// mmapFile maps the first size bytes of f read/write, shared with the
// backing file, and advises the OS that access will be effectively random
// (suppressing readahead, which is wasted work against a hash table).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	b, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	_ = unix.Madvise(b, unix.MADV_RANDOM)
	return b, nil
}

func munmapFile(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
