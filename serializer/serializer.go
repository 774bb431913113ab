// Package serializer provides the concrete schema.Serializer
// implementations gravel ships out of the box: fixed-width integers and
// floats, UTF-8 text, raw bytes, and a Compressed wrapper around any of
// the above. Choosing which one backs a given property is the schema
// author's job, not the codec's — propcodec and elemcodec only ever see
// the schema.Serializer interface.
package serializer

import (
	"fmt"
	"math"

	"github.com/arloliu/gravel/endian"
)

var littleEndian = endian.GetLittleEndianEngine()

// Int64 serializes int64 values as 8-byte little-endian two's complement.
// SerializeNull/DeserializeEmpty round-trip through a zero-length slice,
// reporting int64(0) for an absent value.
type Int64 struct{}

// Serialize returns the 8-byte little-endian encoding of v.
func (Int64) Serialize(v any) ([]byte, error) {
	i, ok := v.(int64)
	if !ok {
		return nil, fmt.Errorf("serializer: Int64.Serialize: want int64, got %T", v)
	}

	return littleEndian.AppendUint64(nil, uint64(i)), nil
}

// Deserialize parses 8 little-endian bytes produced by Serialize.
func (Int64) Deserialize(data []byte) (any, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("serializer: Int64.Deserialize: want 8 bytes, got %d", len(data))
	}

	return int64(littleEndian.Uint64(data)), nil
}

// SerializeNull returns nil: an absent Int64 property is an empty
// VarFrame, not a zero-filled 8-byte one.
func (Int64) SerializeNull() []byte { return nil }

// DeserializeEmpty reports the value of an absent Int64 property.
func (Int64) DeserializeEmpty() (any, error) { return int64(0), nil }

// Uint64 serializes uint64 values as 8-byte little-endian.
type Uint64 struct{}

// Serialize returns the 8-byte little-endian encoding of v.
func (Uint64) Serialize(v any) ([]byte, error) {
	u, ok := v.(uint64)
	if !ok {
		return nil, fmt.Errorf("serializer: Uint64.Serialize: want uint64, got %T", v)
	}

	return littleEndian.AppendUint64(nil, u), nil
}

// Deserialize parses 8 little-endian bytes produced by Serialize.
func (Uint64) Deserialize(data []byte) (any, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("serializer: Uint64.Deserialize: want 8 bytes, got %d", len(data))
	}

	return littleEndian.Uint64(data), nil
}

// SerializeNull returns nil.
func (Uint64) SerializeNull() []byte { return nil }

// DeserializeEmpty reports the value of an absent Uint64 property.
func (Uint64) DeserializeEmpty() (any, error) { return uint64(0), nil }

// Float64 serializes float64 values as 8-byte little-endian IEEE 754.
type Float64 struct{}

// Serialize returns the 8-byte little-endian encoding of v.
func (Float64) Serialize(v any) ([]byte, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("serializer: Float64.Serialize: want float64, got %T", v)
	}

	return littleEndian.AppendUint64(nil, math.Float64bits(f)), nil
}

// Deserialize parses 8 little-endian bytes produced by Serialize.
func (Float64) Deserialize(data []byte) (any, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("serializer: Float64.Deserialize: want 8 bytes, got %d", len(data))
	}

	return math.Float64frombits(littleEndian.Uint64(data)), nil
}

// SerializeNull returns nil.
func (Float64) SerializeNull() []byte { return nil }

// DeserializeEmpty reports the value of an absent Float64 property.
func (Float64) DeserializeEmpty() (any, error) { return float64(0), nil }

// Text serializes string values as raw UTF-8 bytes, with no length prefix
// of its own — the VarFrame around it already carries the length.
type Text struct{}

// Serialize returns the UTF-8 bytes of v.
func (Text) Serialize(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("serializer: Text.Serialize: want string, got %T", v)
	}

	return []byte(s), nil
}

// Deserialize returns data as a string.
func (Text) Deserialize(data []byte) (any, error) {
	return string(data), nil
}

// SerializeNull returns nil.
func (Text) SerializeNull() []byte { return nil }

// DeserializeEmpty reports the value of an absent Text property.
func (Text) DeserializeEmpty() (any, error) { return "", nil }

// Bytes serializes []byte values unmodified — an identity serializer for
// properties that are already a wire-ready blob.
type Bytes struct{}

// Serialize returns v unmodified.
func (Bytes) Serialize(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("serializer: Bytes.Serialize: want []byte, got %T", v)
	}

	return b, nil
}

// Deserialize returns data unmodified.
func (Bytes) Deserialize(data []byte) (any, error) {
	return data, nil
}

// SerializeNull returns nil.
func (Bytes) SerializeNull() []byte { return nil }

// DeserializeEmpty reports the value of an absent Bytes property.
func (Bytes) DeserializeEmpty() (any, error) { return []byte(nil), nil }
