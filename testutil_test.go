// testutil_test.go -- shared test fixtures
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	"github.com/opencoff/go-fasthash"
)

// newAsserter returns a tiny assert helper in the style used throughout
// this package's tests: assert(cond, fmt, args...) fails the test with a
// formatted message when cond is false.
func newAsserter(t *testing.T) func(cond bool, f string, v ...interface{}) {
	t.Helper()
	return func(cond bool, f string, v ...interface{}) {
		if !cond {
			t.Helper()
			t.Fatalf(f, v...)
		}
	}
}

// keyw is a small word list carried over from the CHD test suite this
// package's tests descend from. No test here uses it; testKey hashes the
// string each test passes in.
var keyw = []string{
	"expectoration", "mizzenmastman", "stockfather", "pictorialness",
	"villainous", "unquality", "sized", "Tarahumari", "endocrinotherapy",
	"quicksandy", "heretics", "pediment", "spleen's", "Shepard's",
	"paralyzed", "megahertzes", "Richardson's", "mechanics's",
	"Springfield", "burlesques",
}

// testKey hashes s into a deterministic 32-byte caller key via two
// differently-seeded fasthash passes: the first half holds the two hashes,
// the second half the same two hashes XORed with seed.
func testKey(seed uint64, s string) [32]byte {
	var k [32]byte
	h0 := fasthash.Hash64(seed, []byte(s))
	h1 := fasthash.Hash64(seed+1, []byte(s))
	putUint64(k[0:8], h0)
	putUint64(k[8:16], h1)
	putUint64(k[16:24], h0^seed)
	putUint64(k[24:32], h1^seed)
	return k
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// randomBytes returns n cryptographically random bytes, adapted from
// opencoff-go-chd's rand.go for use as large chunked test values.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(fmt.Sprintf("slotdb: can't read crypto/rand: %s", err))
	}
	return b
}
