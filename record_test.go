// record_test.go -- tests for the slot codec
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import (
	"bytes"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	copy(dk[:], bytes.Repeat([]byte{0x42}, 32))

	slot := make([]byte, SlotBytes)
	encodeRecord(slot, dk, 5, []byte("hello"))

	rec, ok := validateRecord(slot)
	assert(ok, "expected valid record")
	assert(rec.key() == dk, "key mismatch")
	assert(rec.length() == 5, "length mismatch: %d", rec.length())
	assert(bytes.Equal(rec.body(), []byte("hello")), "body mismatch: %q", rec.body())
}

func TestRecordAllZeroIsInvalid(t *testing.T) {
	assert := newAsserter(t)

	slot := make([]byte, SlotBytes)
	_, ok := validateRecord(slot)
	assert(!ok, "all-zero slot must not validate")
}

func TestRecordCorruptChecksumIsInvalid(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	slot := make([]byte, SlotBytes)
	encodeRecord(slot, dk, 3, []byte("abc"))

	slot[bodyOffset] ^= 0xff // flip a body byte, invalidating the checksum

	_, ok := validateRecord(slot)
	assert(!ok, "tampered slot must not validate")
}

func TestRecordZeroLengthValue(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	slot := make([]byte, SlotBytes)
	encodeRecord(slot, dk, 0, nil)

	rec, ok := validateRecord(slot)
	assert(ok, "expected valid record")
	assert(rec.length() == 0, "expected zero length")
	assert(len(rec.body()) == 0, "expected empty body")
}

func TestRecordBodyMaxBoundary(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	value := bytes.Repeat([]byte{0x7}, BodyMax)
	slot := make([]byte, SlotBytes)
	encodeRecord(slot, dk, BodyMax, value)

	rec, ok := validateRecord(slot)
	assert(ok, "expected valid record")
	assert(len(rec.body()) == BodyMax, "expected full body, got %d", len(rec.body()))
	assert(bytes.Equal(rec.body(), value), "body mismatch")
}

func TestRecordHeaderLengthExceedsBodyMax(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	slot := make([]byte, SlotBytes)
	// A chunked-value header: empty body, length greater than BodyMax.
	encodeRecord(slot, dk, 2000, nil)

	rec, ok := validateRecord(slot)
	assert(ok, "expected valid record")
	assert(rec.length() == 2000, "expected length 2000, got %d", rec.length())
	assert(len(rec.body()) == BodyMax, "header body() must clamp to BodyMax, got %d", len(rec.body()))
}

func TestRecordTrailingBytesZeroed(t *testing.T) {
	assert := newAsserter(t)

	var dk derivedKey
	slot := make([]byte, SlotBytes)
	// Pre-fill with garbage so a correct implementation must zero it.
	for i := range slot {
		slot[i] = 0xaa
	}
	encodeRecord(slot, dk, 3, []byte("abc"))

	rec, ok := validateRecord(slot)
	assert(ok, "expected valid record")
	for i := 3; i < BodyMax; i++ {
		assert(slot[bodyOffset+i] == 0, "expected zero padding at body offset %d", i)
	}
	_ = rec
}
