package serializer

import (
	"fmt"

	"github.com/arloliu/gravel/internal/compress"
	"github.com/arloliu/gravel/schema"
)

// Compressed wraps another Serializer and compresses its output with one
// of internal/compress's algorithms. The wrapped Serializer still owns
// the logical value; Compressed only changes what bytes land in the
// VarFrame around S(v) — nothing about the row-key or slot layout
// changes, since the codec treats a property's serialized form as an
// opaque byte string regardless of what produced it.
//
// A nil/empty serialized form (SerializeNull's result) is never passed
// through the codec, so Compressed doesn't need to special-case it.
type Compressed struct {
	inner schema.Serializer
	kind  compress.Kind
	codec compress.Codec
}

// NewCompressed wraps inner with the compression algorithm named by kind
// (compress.KindNone, KindZstd, KindS2, or KindLZ4).
func NewCompressed(inner schema.Serializer, kind compress.Kind) (Compressed, error) {
	codec, err := compress.Get(kind)
	if err != nil {
		return Compressed{}, fmt.Errorf("serializer: NewCompressed: %w", err)
	}

	return Compressed{inner: inner, kind: kind, codec: codec}, nil
}

// Serialize compresses inner.Serialize(v)'s result.
func (c Compressed) Serialize(v any) ([]byte, error) {
	raw, err := c.inner.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("serializer: Compressed.Serialize: %w", err)
	}

	compressed, err := c.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("serializer: Compressed.Serialize: %s: %w", c.kind, err)
	}

	return compressed, nil
}

// Deserialize decompresses data before handing it to inner.Deserialize.
func (c Compressed) Deserialize(data []byte) (any, error) {
	raw, err := c.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("serializer: Compressed.Deserialize: %s: %w", c.kind, err)
	}

	return c.inner.Deserialize(raw)
}

// SerializeNull delegates to inner: an absent compressed property is
// still just an empty VarFrame, never a zero-length "compressed" blob.
func (c Compressed) SerializeNull() []byte { return c.inner.SerializeNull() }

// DeserializeEmpty delegates to inner.
func (c Compressed) DeserializeEmpty() (any, error) { return c.inner.DeserializeEmpty() }
