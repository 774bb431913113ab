// Package propcodec serializes and deserializes an ordered list of named
// property values to and from a single byte string: a concatenation of
// VarFrame(len) ∥ raw_bytes pairs, one per name, in schema-declared
// order. It sits directly on top of varframe and is the one place the
// "declared but absent → serialize_null" and "tail truncation is legal"
// rules live, so elemcodec never has to reason about either.
package propcodec

import (
	"fmt"

	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/internal/pool"
	"github.com/arloliu/gravel/model"
	"github.com/arloliu/gravel/schema"
	"github.com/arloliu/gravel/varframe"
)

// Serialize encodes props, selected and ordered by names, against the
// type definitions in def. For each name: if def has no TypeDefinition
// for it, an empty VarFrame is emitted and a "missing_serializer"
// warning is reported on warn (spec behavior preserved from the source
// system; see the Open Question this resolves). If the name is present
// in props with a non-nil value, that value is serialized with the type's
// Serializer; if absent or nil, the Serializer's null sentinel is used
// instead.
//
// The scratch buffer comes from internal/pool, so repeated calls from
// worker goroutines amortize their allocations; the returned slice is
// always a fresh, caller-owned copy, never the pooled backing array.
func Serialize(def schema.ElementDefinition, names []string, props model.Properties, warn schema.Warner) ([]byte, error) {
	buf := pool.Get()
	defer pool.Put(buf)

	for _, name := range names {
		td, ok := def.TypeDefinitionFor(name)
		if !ok {
			if warn != nil {
				warn.Warn(schema.Warning{
					Kind:     "missing_serializer",
					Property: name,
					Detail:   "group-by or value property has no registered type definition; emitting empty frame",
				})
			}
			buf.B = varframe.Write(buf.B, 0)
			continue
		}

		var raw []byte
		var err error
		if v, present := props[name]; present && v != nil {
			raw, err = td.Serializer.Serialize(v)
		} else {
			raw = td.Serializer.SerializeNull()
		}
		if err != nil {
			return nil, fmt.Errorf("propcodec: Serialize: property %q: %w: %v", name, gravelerr.ErrSerializationFailed, err)
		}

		buf.Grow(varframe.MaxSize + len(raw))
		buf.B = varframe.Write(buf.B, uint64(len(raw)))
		buf.MustWrite(raw)
	}

	if buf.Len() == 0 {
		return nil, nil
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Deserialize walks data and reconstructs the Properties named by names,
// in order. It stops as soon as either names is exhausted or the cursor
// reaches the end of data — a value slot truncated after any complete
// (len, bytes) pair is not an error, it simply omits the trailing
// properties.
//
// A truncated length prefix or a declared length running past the end of
// data is gravelerr.ErrCorruptRecord.
func Deserialize(def schema.ElementDefinition, names []string, data []byte) (model.Properties, error) {
	props := make(model.Properties, len(names))

	pos := 0
	for _, name := range names {
		if pos >= len(data) {
			break
		}

		length, n, err := varframe.Read(data, pos)
		if err != nil {
			return nil, fmt.Errorf("propcodec: Deserialize: property %q: %w", name, err)
		}
		pos += n

		end := pos + int(length)
		if end > len(data) {
			return nil, fmt.Errorf("propcodec: Deserialize: property %q: %w", name, gravelerr.ErrCorruptRecord)
		}
		slice := data[pos:end]
		pos = end

		td, ok := def.TypeDefinitionFor(name)
		if !ok {
			continue
		}

		var v any
		if length > 0 {
			v, err = td.Serializer.Deserialize(slice)
		} else {
			v, err = td.Serializer.DeserializeEmpty()
		}
		if err != nil {
			return nil, fmt.Errorf("propcodec: Deserialize: property %q: %w: %v", name, gravelerr.ErrSerializationFailed, err)
		}
		props[name] = v
	}

	return props, nil
}

// PrefixBytesForFirstK returns the byte prefix of data covering exactly
// the first k VarFrame(len) ∥ raw_bytes pairs, without deserializing any
// of them. If k is 0, it returns data[:0] (nil when data is nil); if k covers
// every pair present in data, it returns data unchanged.
func PrefixBytesForFirstK(data []byte, k int) ([]byte, error) {
	if k <= 0 {
		return data[:0], nil
	}

	pos := 0
	for i := 0; i < k; i++ {
		if pos >= len(data) {
			return nil, fmt.Errorf("propcodec: PrefixBytesForFirstK: k=%d exceeds available properties: %w", k, gravelerr.ErrCorruptRecord)
		}

		length, n, err := varframe.Read(data, pos)
		if err != nil {
			return nil, fmt.Errorf("propcodec: PrefixBytesForFirstK: %w", err)
		}
		pos += n

		end := pos + int(length)
		if end > len(data) {
			return nil, fmt.Errorf("propcodec: PrefixBytesForFirstK: %w", gravelerr.ErrCorruptRecord)
		}
		pos = end
	}

	return data[:pos], nil
}
