// Package schema describes how a group of entities or edges is laid out
// across the slot partition of a backing-store record: which properties exist,
// which of them form the column-qualifier prefix (group-by), which one (if
// any) carries the record's visibility label, and which one (if any)
// supplies its timestamp instead of the injected clock.
//
// A Schema is built once, through a Builder, and is immutable afterward —
// there is no exported mutator on Schema itself. That mirrors how the
// teacher's encoders are configured: a config object assembled through
// functional options, then handed to an encoder that never mutates it
// again.
package schema

import (
	"fmt"

	"github.com/arloliu/gravel/internal/options"
)

// Serializer converts a property value to and from its wire bytes. A type
// that can appear as a vertex identity only needs Serialize/Deserialize;
// a type that can appear as a property value also needs SerializeNull and
// DeserializeEmpty, since a declared-but-absent property round-trips
// through an explicit empty VarFrame rather than being omitted.
type Serializer interface {
	// Serialize returns the wire bytes for v.
	Serialize(v any) ([]byte, error)
	// Deserialize parses wire bytes previously returned by Serialize.
	Deserialize(data []byte) (any, error)
	// SerializeNull returns the wire bytes standing in for "declared but
	// absent". Most serializers return nil (an empty VarFrame).
	SerializeNull() []byte
	// DeserializeEmpty returns the value to report for a present-but-empty
	// slot produced by SerializeNull.
	DeserializeEmpty() (any, error)
}

// VertexSerializer converts a vertex identity to and from its row-key
// bytes. It must preserve natural order: a < b as identities implies
// Serialize(a) < Serialize(b) as byte strings, since ByteOrderedLayout
// relies on that to keep the backing store's key order meaningful.
type VertexSerializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte) (any, error)
}

// TypeDefinition names one property of a group and the Serializer that
// converts its values.
type TypeDefinition struct {
	Name       string
	Serializer Serializer
}

// ElementDefinition describes the property layout of one group: the full
// ordered property list and the subset that forms the column-qualifier
// prefix (group-by). visibilityProperty and timestampProperty are copied
// in from the schema-wide configuration at Build time — a group need not
// register either name via Property; an unregistered name is simply
// treated as absent for that group.
type ElementDefinition struct {
	properties         []string
	typeByName         map[string]TypeDefinition
	groupBy            []string
	groupBySet         map[string]struct{}
	visibilityProperty string
	timestampProperty  string
	valueProperties    []string
}

// Properties returns the full ordered property list.
func (d ElementDefinition) Properties() []string { return d.properties }

// GroupBy returns the ordered subset of Properties that form the
// column-qualifier prefix.
func (d ElementDefinition) GroupBy() []string { return d.groupBy }

// VisibilityProperty returns the schema-wide name of the property
// supplying the record's visibility label, or "" if none is configured.
func (d ElementDefinition) VisibilityProperty() string { return d.visibilityProperty }

// TimestampProperty returns the schema-wide name of the property
// supplying the record's timestamp, or "" if the injected clock.Clock is
// used instead.
func (d ElementDefinition) TimestampProperty() string { return d.timestampProperty }

// ValueProperties returns Properties() minus GroupBy() and minus the
// visibility/timestamp properties — the slots that land in the value
// column rather than the column qualifier. The result is precomputed
// once in Builder.Build, since it's fixed for the lifetime of a frozen
// Schema and every encode/decode call needs it.
func (d ElementDefinition) ValueProperties() []string { return d.valueProperties }

// computeValueProperties is called once, at Build time, to populate
// ElementDefinition.valueProperties.
func computeValueProperties(properties []string, groupBySet map[string]struct{}, visibilityProperty, timestampProperty string) []string {
	out := make([]string, 0, len(properties))
	for _, name := range properties {
		if _, isGroupBy := groupBySet[name]; isGroupBy {
			continue
		}
		if name == visibilityProperty || name == timestampProperty {
			continue
		}
		out = append(out, name)
	}

	return out
}

// TypeDefinitionFor returns the TypeDefinition registered for name, and
// whether one was found.
func (d ElementDefinition) TypeDefinitionFor(name string) (TypeDefinition, bool) {
	td, ok := d.typeByName[name]
	return td, ok
}

// Schema is the immutable, frozen configuration ElemCodec and PropCodec
// encode and decode against.
type Schema struct {
	vertexSerializer VertexSerializer
	groups           map[string]ElementDefinition
	warnings         chan Warning
}

// VertexSerializer returns the schema-wide serializer used for every
// entity and edge endpoint identity.
func (s *Schema) VertexSerializer() VertexSerializer { return s.vertexSerializer }

// ElementDefinition returns the ElementDefinition registered for group,
// and whether one was found. elemcodec returns gravelerr.ErrUnknownGroup
// instead of panicking when this reports false.
func (s *Schema) ElementDefinition(group string) (ElementDefinition, bool) {
	def, ok := s.groups[group]
	return def, ok
}

// Warnings returns the channel non-fatal anomalies (such as a group-by
// property with no registered serializer) are reported on, or nil if the
// Builder was never given WithWarningBuffer. A nil Schema.Warnings()
// channel is valid to range over or select on with a default case; it
// simply never fires.
func (s *Schema) Warnings() <-chan Warning {
	return s.warnings
}

// Warn implements Warner by sending w on the warning channel without
// blocking. If the channel is unset or full, the event is dropped.
func (s *Schema) Warn(w Warning) {
	if s.warnings == nil {
		return
	}
	select {
	case s.warnings <- w:
	default:
	}
}

// Warner receives non-fatal anomaly reports. Schema implements it; code
// that only needs to report warnings (propcodec, elemcodec) should take
// a Warner rather than a full *Schema.
type Warner interface {
	Warn(Warning)
}

// Warning is one non-fatal anomaly report.
type Warning struct {
	// Kind identifies the category of anomaly, e.g. "missing_serializer".
	Kind string
	// Group is the group the anomaly occurred in.
	Group string
	// Property is the property name involved, if any.
	Property string
	// Detail is a short human-readable message.
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: group=%q property=%q: %s", w.Kind, w.Group, w.Property, w.Detail)
}

// draft is the mutable scratch Builder assembles into before Build
// freezes it into a Schema. visibilityProperty and timestampProperty are
// schema-wide, siblings of vertexSerializer, not per-group settings.
type draft struct {
	vertexSerializer   VertexSerializer
	visibilityProperty string
	timestampProperty  string
	groups             map[string]*groupDraft
	warningBuffer      int
}

type groupDraft struct {
	typeByName    map[string]TypeDefinition
	propertyOrder []string
	groupBy       []string
}

// Option configures a Builder. Use the With* constructors below.
type Option = options.Option[*draft]
