package elemcodec

import (
	"fmt"

	"github.com/arloliu/gravel/escape"
	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/internal/hash"
)

// Flags byte values. Bit 0 is directed, bit 1 is reverse; bit 7 is a
// fixed marker kept set on every valid value so the byte can never equal
// escape.Delim (0x00) or escape.Esc (0x01) — the two values a raw
// hash-prefix byte or an escaped segment could otherwise also take on at
// that exact row position, which would make a delimiter scan ambiguous.
const (
	flagReverse  byte = 1 << 1
	flagDirected byte = 1 << 0
	flagMarker   byte = 1 << 7

	UndirectedPrimary byte = flagMarker
	UndirectedReverse byte = flagMarker | flagReverse
	DirectedPrimary   byte = flagMarker | flagDirected
	DirectedReverse   byte = flagMarker | flagDirected | flagReverse
)

func encodeFlags(directed, reverse bool) byte {
	f := flagMarker
	if directed {
		f |= flagDirected
	}
	if reverse {
		f |= flagReverse
	}

	return f
}

func decodeFlags(f byte) (directed, reverse bool, err error) {
	switch f {
	case UndirectedPrimary:
		return false, false, nil
	case UndirectedReverse:
		return false, true, nil
	case DirectedPrimary:
		return true, false, nil
	case DirectedReverse:
		return true, true, nil
	default:
		return false, false, fmt.Errorf("elemcodec: %w: flags byte 0x%02x", gravelerr.ErrInvalidFlags, f)
	}
}

// RowKeyLayout builds and parses the two-segment-plus-flags edge row key.
// a and b are raw (pre-escape, pre-serialization-done) vertex bytes;
// EncodeEdgeRow escapes them itself. ElemCodec is parameterized by one
// RowKeyLayout at construction, a strategy-interface in place of an
// abstract-base-class-plus-subclasses split.
type RowKeyLayout interface {
	EncodeEdgeRow(a, b []byte, directed, reverse bool) []byte
	DecodeEdgeRow(row []byte) (a, b []byte, directed, reverse bool, err error)
}

// ByteOrderedLayout is the no-prefix edge row-key strategy: the row key
// is exactly escape(A) ∥ D ∥ escape(B) ∥ D ∥ flags, so two row keys for
// the same edge sort adjacently to every other row keyed by the same A.
type ByteOrderedLayout struct{}

// EncodeEdgeRow implements RowKeyLayout.
func (ByteOrderedLayout) EncodeEdgeRow(a, b []byte, directed, reverse bool) []byte {
	row := escape.Escape(a)
	row = append(row, escape.Delim)
	row = append(row, escape.Escape(b)...)
	row = append(row, escape.Delim)
	row = append(row, encodeFlags(directed, reverse))

	return row
}

// DecodeEdgeRow implements RowKeyLayout. It expects row to be exactly
// escape(A) ∥ D ∥ escape(B) ∥ D ∥ flags, with no further structure before
// it — HashPrefixedLayout strips its own prefix before delegating here.
func (ByteOrderedLayout) DecodeEdgeRow(row []byte) (a, b []byte, directed, reverse bool, err error) {
	first := -1
	second := -1
	for i, bt := range row {
		if bt != escape.Delim {
			continue
		}
		if first == -1 {
			first = i
			continue
		}
		second = i

		break
	}
	if first == -1 || second == -1 {
		return nil, nil, false, false, fmt.Errorf("elemcodec: %w: edge row has fewer than 2 delimiters", gravelerr.ErrCorruptRecord)
	}

	tail := row[second+1:]
	if len(tail) != 1 {
		return nil, nil, false, false, fmt.Errorf("elemcodec: %w: flags segment has length %d, want 1", gravelerr.ErrCorruptRecord, len(tail))
	}

	directed, reverse, err = decodeFlags(tail[0])
	if err != nil {
		return nil, nil, false, false, err
	}

	a, err = escape.Unescape(row[:first])
	if err != nil {
		return nil, nil, false, false, err
	}
	b, err = escape.Unescape(row[first+1 : second])
	if err != nil {
		return nil, nil, false, false, err
	}

	return a, b, directed, reverse, nil
}

// HashPrefixedLayout prepends a fixed-width stable hash of the escaped
// first segment, so every row whose first segment is the same vertex
// clusters under one pseudo-random prefix instead of sorting by vertex
// identity (an edge's primary and reverse rows get different prefixes) — trading
// the ByteOrderedLayout's range-scan-by-prefix property for a more even
// key distribution across a partitioned store.
type HashPrefixedLayout struct{}

// EncodeEdgeRow implements RowKeyLayout.
func (HashPrefixedLayout) EncodeEdgeRow(a, b []byte, directed, reverse bool) []byte {
	escapedA := escape.Escape(a)

	row := hash.AppendSum64(nil, escapedA)
	row = append(row, escape.Delim)
	row = append(row, ByteOrderedLayout{}.EncodeEdgeRow(a, b, directed, reverse)...)

	return row
}

// DecodeEdgeRow implements RowKeyLayout: it strips the fixed-width hash
// segment and its trailing delimiter, then delegates to
// ByteOrderedLayout for the rest.
func (HashPrefixedLayout) DecodeEdgeRow(row []byte) (a, b []byte, directed, reverse bool, err error) {
	if len(row) < hash.Width+1 {
		return nil, nil, false, false, fmt.Errorf("elemcodec: %w: row shorter than hash prefix", gravelerr.ErrCorruptRecord)
	}
	if row[hash.Width] != escape.Delim {
		return nil, nil, false, false, fmt.Errorf("elemcodec: %w: missing delimiter after hash prefix", gravelerr.ErrCorruptRecord)
	}

	return ByteOrderedLayout{}.DecodeEdgeRow(row[hash.Width+1:])
}
