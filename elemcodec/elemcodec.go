// Package elemcodec is the top-level codec that composes varframe,
// escape, and propcodec against an immutable schema.Schema to turn a
// model.Entity or model.Edge into one or two backing-store records and
// back. Self-edge detection, direction encoding, and slot assignment are
// the core contract it implements.
package elemcodec

import (
	"bytes"
	"fmt"

	"github.com/arloliu/gravel/clock"
	"github.com/arloliu/gravel/escape"
	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/model"
	"github.com/arloliu/gravel/propcodec"
	"github.com/arloliu/gravel/schema"
)

// Record is one backing-store row: row key, column family, column
// qualifier, visibility, timestamp, and value.
type Record struct {
	RowKey          []byte
	ColumnFamily    []byte
	ColumnQualifier []byte
	Visibility      []byte
	Timestamp       int64
	Value           []byte
}

// DecodeInput bundles the slots of a stored record for Decode. Value may
// be nil for a key-only decode (e.g. an index-only scan that never reads
// the value slot); Decode only merges value-slot properties when a value
// was actually supplied.
type DecodeInput struct {
	ColumnFamily    []byte
	RowKey          []byte
	ColumnQualifier []byte
	Visibility      []byte
	Timestamp       int64
	Value           []byte
}

// ElemCodec is a pure function of (Schema, Element, injected Clock): no
// I/O, no hidden state, safe for concurrent use without locks once
// constructed.
type ElemCodec struct {
	schema *schema.Schema
	clock  clock.Clock
	layout RowKeyLayout
}

// New returns an ElemCodec bound to s. clock defaults to clock.System()
// if nil. layout defaults to ByteOrderedLayout{} if nil.
func New(s *schema.Schema, c clock.Clock, layout RowKeyLayout) *ElemCodec {
	if c == nil {
		c = clock.System()
	}
	if layout == nil {
		layout = ByteOrderedLayout{}
	}

	return &ElemCodec{schema: s, clock: c, layout: layout}
}

func validateGroupName(group string) error {
	if bytes.IndexByte([]byte(group), escape.Delim) != -1 {
		return fmt.Errorf("elemcodec: %w: group name %q contains the row-key delimiter byte", gravelerr.ErrEncodingUnsupported, group)
	}

	return nil
}

// EncodeEntity encodes e into a single backing-store record.
func (c *ElemCodec) EncodeEntity(e model.Entity) (Record, error) {
	def, ok := c.schema.ElementDefinition(e.Group)
	if !ok {
		return Record{}, fmt.Errorf("elemcodec: EncodeEntity: %w: %q", gravelerr.ErrUnknownGroup, e.Group)
	}
	if err := validateGroupName(e.Group); err != nil {
		return Record{}, err
	}

	vertexBytes, err := c.schema.VertexSerializer().Serialize(e.Vertex)
	if err != nil {
		return Record{}, fmt.Errorf("elemcodec: EncodeEntity: %w: %v", gravelerr.ErrSerializationFailed, err)
	}

	return c.buildRecord(def, e.Group, escape.Escape(vertexBytes), e.Properties)
}

// EncodeEdge encodes e into its primary record and, unless e is a self-edge
// (source and destination serialize to the same bytes), a reverse record
// for the opposite traversal direction.
func (c *ElemCodec) EncodeEdge(e model.Edge) (Record, *Record, error) {
	def, ok := c.schema.ElementDefinition(e.Group)
	if !ok {
		return Record{}, nil, fmt.Errorf("elemcodec: EncodeEdge: %w: %q", gravelerr.ErrUnknownGroup, e.Group)
	}
	if err := validateGroupName(e.Group); err != nil {
		return Record{}, nil, err
	}

	sourceBytes, err := c.schema.VertexSerializer().Serialize(e.Source)
	if err != nil {
		return Record{}, nil, fmt.Errorf("elemcodec: EncodeEdge: %w: %v", gravelerr.ErrSerializationFailed, err)
	}
	destBytes, err := c.schema.VertexSerializer().Serialize(e.Destination)
	if err != nil {
		return Record{}, nil, fmt.Errorf("elemcodec: EncodeEdge: %w: %v", gravelerr.ErrSerializationFailed, err)
	}

	primaryRow := c.layout.EncodeEdgeRow(sourceBytes, destBytes, e.Directed, false)
	primary, err := c.buildRecord(def, e.Group, primaryRow, e.Properties)
	if err != nil {
		return Record{}, nil, err
	}

	if (model.Edge{}).IsSelfEdge(sourceBytes, destBytes) {
		return primary, nil, nil
	}

	reverseRow := c.layout.EncodeEdgeRow(destBytes, sourceBytes, e.Directed, true)
	reverse := primary
	reverse.RowKey = reverseRow

	return primary, &reverse, nil
}

// buildRecord assembles the column-family/qualifier/visibility/
// timestamp/value slots shared by an entity record or either of an
// edge's two records.
func (c *ElemCodec) buildRecord(def schema.ElementDefinition, group string, rowKey []byte, props model.Properties) (Record, error) {
	warn := schema.Warner(c.schema)

	cq, err := propcodec.Serialize(def, def.GroupBy(), props, warn)
	if err != nil {
		return Record{}, fmt.Errorf("elemcodec: column qualifier: %w", err)
	}

	visibility, err := c.encodeVisibility(def, props)
	if err != nil {
		return Record{}, err
	}

	value, err := propcodec.Serialize(def, def.ValueProperties(), props, warn)
	if err != nil {
		return Record{}, fmt.Errorf("elemcodec: value slot: %w", err)
	}

	return Record{
		RowKey:          rowKey,
		ColumnFamily:    []byte(group),
		ColumnQualifier: cq,
		Visibility:      visibility,
		Timestamp:       c.encodeTimestamp(def, group, props, warn),
		Value:           value,
	}, nil
}

func (c *ElemCodec) encodeVisibility(def schema.ElementDefinition, props model.Properties) ([]byte, error) {
	name := def.VisibilityProperty()
	if name == "" {
		return nil, nil
	}

	td, ok := def.TypeDefinitionFor(name)
	if !ok {
		return nil, nil
	}

	if v, present := props[name]; present && v != nil {
		b, err := td.Serializer.Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("elemcodec: visibility: %w: %v", gravelerr.ErrSerializationFailed, err)
		}

		return b, nil
	}

	return td.Serializer.SerializeNull(), nil
}

func (c *ElemCodec) encodeTimestamp(def schema.ElementDefinition, group string, props model.Properties, warn schema.Warner) int64 {
	if name := def.TimestampProperty(); name != "" {
		_, declared := def.TypeDefinitionFor(name)
		if v, present := props[name]; declared && present {
			if ts, ok := v.(int64); ok {
				return ts
			}
			if warn != nil {
				warn.Warn(schema.Warning{
					Kind:     "timestamp_wrong_type",
					Group:    group,
					Property: name,
					Detail:   fmt.Sprintf("want int64, got %T; falling back to clock", v),
				})
			}
		}
	}

	return c.clock.Now().UnixMilli()
}

// Decode reconstructs the model.Entity or model.Edge a stored record
// represents, dispatching on whether the row key contains the edge
// delimiter byte.
func (c *ElemCodec) Decode(in DecodeInput) (model.Element, error) {
	group := string(in.ColumnFamily)
	def, ok := c.schema.ElementDefinition(group)
	if !ok {
		return nil, fmt.Errorf("elemcodec: Decode: %w: %q", gravelerr.ErrUnknownGroup, group)
	}

	if bytes.IndexByte(in.RowKey, escape.Delim) == -1 {
		return c.decodeEntity(def, group, in)
	}

	return c.decodeEdge(def, group, in)
}

func (c *ElemCodec) decodeEntity(def schema.ElementDefinition, group string, in DecodeInput) (model.Element, error) {
	vertexBytes, err := escape.Unescape(in.RowKey)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: %w", err)
	}

	vertex, err := c.schema.VertexSerializer().Deserialize(vertexBytes)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: %w: %v", gravelerr.ErrSerializationFailed, err)
	}

	props, err := c.mergeProperties(def, in)
	if err != nil {
		return nil, err
	}

	return model.Entity{Group: group, Vertex: vertex, Properties: props}, nil
}

func (c *ElemCodec) decodeEdge(def schema.ElementDefinition, group string, in DecodeInput) (model.Element, error) {
	aBytes, bBytes, directed, reverse, err := c.layout.DecodeEdgeRow(in.RowKey)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: %w", err)
	}

	a, err := c.schema.VertexSerializer().Deserialize(aBytes)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: %w: %v", gravelerr.ErrSerializationFailed, err)
	}
	b, err := c.schema.VertexSerializer().Deserialize(bBytes)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: %w: %v", gravelerr.ErrSerializationFailed, err)
	}

	source, dest := a, b
	if reverse {
		source, dest = b, a
	}

	props, err := c.mergeProperties(def, in)
	if err != nil {
		return nil, err
	}

	return model.Edge{
		Group:       group,
		Source:      source,
		Destination: dest,
		Directed:    directed,
		Properties:  props,
	}, nil
}

// mergeProperties combines properties recovered from the column
// qualifier, from visibility and timestamp if configured, and (if a value
// slot was supplied) from the value.
func (c *ElemCodec) mergeProperties(def schema.ElementDefinition, in DecodeInput) (model.Properties, error) {
	props, err := propcodec.Deserialize(def, def.GroupBy(), in.ColumnQualifier)
	if err != nil {
		return nil, fmt.Errorf("elemcodec: Decode: column qualifier: %w", err)
	}

	if name := def.VisibilityProperty(); name != "" {
		if td, ok := def.TypeDefinitionFor(name); ok {
			v, err := decodeSlot(td, in.Visibility)
			if err != nil {
				return nil, fmt.Errorf("elemcodec: Decode: visibility: %w: %v", gravelerr.ErrSerializationFailed, err)
			}
			props[name] = v
		}
	}

	if name := def.TimestampProperty(); name != "" {
		if _, ok := def.TypeDefinitionFor(name); ok {
			props[name] = in.Timestamp
		}
	}

	if in.Value != nil {
		valueProps, err := propcodec.Deserialize(def, def.ValueProperties(), in.Value)
		if err != nil {
			return nil, fmt.Errorf("elemcodec: Decode: value: %w", err)
		}
		for k, v := range valueProps {
			props[k] = v
		}
	}

	return props, nil
}

// decodeSlot decodes a raw (non-VarFrame-wrapped) slot such as visibility:
// serialized bytes, or empty, rather than a framed property.
func decodeSlot(td schema.TypeDefinition, raw []byte) (any, error) {
	if len(raw) == 0 {
		return td.Serializer.DeserializeEmpty()
	}

	return td.Serializer.Deserialize(raw)
}
