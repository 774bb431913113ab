// Package varframe implements the compact, self-delimiting unsigned length
// prefix used ahead of every variable-length field inside a composite slot
// (column qualifier, value). A decoder walks a concatenation of
// VarFrame-prefixed values without needing a record-level length, because
// Size can always recover how many bytes the length prefix itself occupies
// from its first byte alone.
//
// Encoding: values below 0x80 fit in a single byte with the top bit clear.
// Larger values spend their first byte as 0x80|n, where n (1..8) is the
// count of big-endian value bytes that follow — so decoding the length of
// the length prefix never requires looking past the first byte. This
// covers the full uint64 range in at most 9 bytes.
package varframe

import "github.com/arloliu/gravel/gravelerr"

// MaxSize is the largest number of bytes a single VarFrame can occupy.
const MaxSize = 9

// Size returns how many bytes the length prefix occupies, given its first
// byte. It is a pure function of first and never inspects the buffer.
func Size(first byte) int {
	if first&0x80 == 0 {
		return 1
	}

	return 1 + int(first&0x7F)
}

// Write appends the VarFrame encoding of v to dst and returns the extended
// slice.
func Write(dst []byte, v uint64) []byte {
	if v < 0x80 {
		return append(dst, byte(v))
	}

	var buf [8]byte
	n := 0
	for shift := 56; shift >= 0; shift -= 8 {
		b := byte(v >> shift)
		if n == 0 && b == 0 {
			continue // skip leading zero bytes
		}
		buf[n] = b
		n++
	}

	dst = append(dst, 0x80|byte(n))

	return append(dst, buf[:n]...)
}

// Read decodes a VarFrame-prefixed length from buf starting at pos, and
// returns the decoded value along with the number of bytes consumed
// (including the length-of-length byte itself).
//
// Read returns gravelerr.ErrCorruptRecord if pos is out of range, or if the
// declared length prefix runs past the end of buf.
func Read(buf []byte, pos int) (uint64, int, error) {
	if pos < 0 || pos >= len(buf) {
		return 0, 0, gravelerr.ErrCorruptRecord
	}

	first := buf[pos]
	n := Size(first)
	if pos+n > len(buf) {
		return 0, 0, gravelerr.ErrCorruptRecord
	}

	if first&0x80 == 0 {
		return uint64(first), 1, nil
	}

	var v uint64
	for _, b := range buf[pos+1 : pos+n] {
		v = v<<8 | uint64(b)
	}

	return v, n, nil
}
