// Package hash provides the fixed-width stable hash used by the
// hash-prefixed row-key layout.
package hash

import "github.com/cespare/xxhash/v2"

// Width is the byte width of Sum64's output when appended big-endian.
const Width = 8

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// AppendSum64 appends the big-endian xxHash64 of data to dst and returns the
// extended slice. Big-endian is used so the hash prefix itself sorts the
// same way its bits do, which is irrelevant to correctness (the hash prefix
// deliberately does not preserve source/destination order) but keeps the
// encoding deterministic and free of host-endianness leakage.
func AppendSum64(dst, data []byte) []byte {
	sum := Sum64(data)

	var buf [Width]byte
	buf[0] = byte(sum >> 56)
	buf[1] = byte(sum >> 48)
	buf[2] = byte(sum >> 40)
	buf[3] = byte(sum >> 32)
	buf[4] = byte(sum >> 24)
	buf[5] = byte(sum >> 16)
	buf[6] = byte(sum >> 8)
	buf[7] = byte(sum)

	return append(dst, buf[:]...)
}
