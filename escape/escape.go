// Package escape implements the byte-escaping discipline that keeps a row
// key's delimiter byte (Delim) from colliding with raw vertex bytes. Edge
// row keys concatenate escaped segments with unescaped Delim bytes as
// separators; Split recovers the segments by scanning only for unescaped
// occurrences.
//
// The scheme is order-preserving: for any a < b (as raw byte strings),
// Escape(a) < Escape(b). That property is what lets the backing store's
// lexicographic key order mirror vertex identity order end to end.
package escape

import "github.com/arloliu/gravel/gravelerr"

const (
	// Delim is the reserved delimiter byte separating segments of a
	// composite row key.
	Delim byte = 0x00

	// Esc is the escape byte. It is also escaped, so Delim is the only
	// byte value unescaped output can never contain.
	Esc byte = 0x01

	escDelim byte = 0x01 // second byte of the Delim escape sequence
	escEsc   byte = 0x02 // second byte of the Esc escape sequence
)

// Escape returns src with every Delim byte replaced by Esc,escDelim and
// every Esc byte replaced by Esc,escEsc. The result contains no unescaped
// Delim byte and is lexicographically ordered the same as src.
func Escape(src []byte) []byte {
	extra := 0
	for _, b := range src {
		if b == Delim || b == Esc {
			extra++
		}
	}
	if extra == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}

	out := make([]byte, 0, len(src)+extra)
	for _, b := range src {
		switch b {
		case Delim:
			out = append(out, Esc, escDelim)
		case Esc:
			out = append(out, Esc, escEsc)
		default:
			out = append(out, b)
		}
	}

	return out
}

// Unescape inverts Escape. It returns gravelerr.ErrCorruptRecord if src
// contains a dangling escape byte or an unrecognized escape sequence.
func Unescape(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		if b != Esc {
			out = append(out, b)
			continue
		}

		if i+1 >= len(src) {
			return nil, gravelerr.ErrCorruptRecord
		}

		switch src[i+1] {
		case escDelim:
			out = append(out, Delim)
		case escEsc:
			out = append(out, Esc)
		default:
			return nil, gravelerr.ErrCorruptRecord
		}
		i++
	}

	return out, nil
}

// Split separates row on unescaped Delim bytes and unescapes each segment.
// It returns gravelerr.ErrCorruptRecord if any segment fails to unescape.
func Split(row []byte) ([][]byte, error) {
	var segments [][]byte

	start := 0
	for i := 0; i < len(row); i++ {
		if row[i] != Delim {
			continue
		}

		seg, err := Unescape(row[start:i])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		start = i + 1
	}

	last, err := Unescape(row[start:])
	if err != nil {
		return nil, err
	}
	segments = append(segments, last)

	return segments, nil
}
