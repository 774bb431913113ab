// Package gravel provides the element↔record codec at the heart of a
// schema-driven graph store: entities and edges on one side, backing-store
// rows on the other.
//
// # Core components
//
//   - varframe — the self-delimiting variable-length unsigned integer
//     prefix used ahead of every framed value.
//   - escape — the order-preserving byte-escaping discipline that keeps a
//     row key's delimiter byte clear of raw vertex bytes.
//   - propcodec — an ordered property list serialized as a sequence of
//     VarFrame-prefixed values.
//   - elemcodec — the top-level codec composing the three above against a
//     schema.Schema to produce and consume backing-store records.
//
// # Basic usage
//
//	b := schema.NewBuilder(schema.WithVertexSerializer(myVertexSerializer{}))
//	b.DefineGroup("friend").
//	    Property("since", serializer.Int64{}).
//	    Property("weight", serializer.Float64{}).
//	    GroupBy("since")
//	b.DefineGroup("person")
//	s, err := b.Build()
//
//	codec := gravel.NewElemCodec(s, nil, nil)
//	rec, err := codec.EncodeEntity(model.Entity{Group: "person", Vertex: "alice"})
//
// For advanced configuration (custom row-key layout, injected clock,
// compressed serializers), use the elemcodec, clock, and serializer
// packages directly.
package gravel

import (
	"github.com/arloliu/gravel/clock"
	"github.com/arloliu/gravel/elemcodec"
	"github.com/arloliu/gravel/schema"
)

// NewElemCodec returns an elemcodec.ElemCodec bound to s. c defaults to
// clock.System() if nil; layout defaults to elemcodec.ByteOrderedLayout{}
// if nil. This is a thin convenience wrapper — equivalent to calling
// elemcodec.New directly — kept so the common path only needs to import
// the top-level gravel package and schema.
func NewElemCodec(s *schema.Schema, c clock.Clock, layout elemcodec.RowKeyLayout) *elemcodec.ElemCodec {
	return elemcodec.New(s, c, layout)
}

// NewSchemaBuilder returns a schema.Builder configured with opts. It is
// equivalent to schema.NewBuilder, provided so callers that only need the
// common path can import gravel alone.
func NewSchemaBuilder(opts ...schema.Option) *schema.Builder {
	return schema.NewBuilder(opts...)
}
