package schema

import (
	"errors"
	"fmt"

	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/internal/options"
)

// WithVertexSerializer sets the schema-wide VertexSerializer. Required:
// Build returns an error if this was never set.
func WithVertexSerializer(s VertexSerializer) Option {
	return options.NoError(func(d *draft) {
		d.vertexSerializer = s
	})
}

// WithWarningBuffer sizes the Warnings() channel. A size of 0 (the
// default) leaves warnings disabled — Schema.Warn becomes a no-op, which
// is the right default for the hot encode path when nobody is listening.
func WithWarningBuffer(n int) Option {
	return options.NoError(func(d *draft) {
		d.warningBuffer = n
	})
}

// WithVisibilityProperty sets the schema-wide name of the property that
// supplies a record's visibility label. A group need not register this
// name via Property — if it doesn't, the property is simply treated as
// absent for that group, not an error.
func WithVisibilityProperty(name string) Option {
	return options.NoError(func(d *draft) {
		d.visibilityProperty = name
	})
}

// WithTimestampProperty sets the schema-wide name of the property that
// supplies a record's timestamp, in place of the injected clock.Clock. As
// with WithVisibilityProperty, a group that never registers this name via
// Property simply falls back to the clock.
func WithTimestampProperty(name string) Option {
	return options.NoError(func(d *draft) {
		d.timestampProperty = name
	})
}

// Builder assembles a Schema from a set of group definitions and
// schema-wide options. A Builder is single-use: Build freezes its draft
// into an immutable Schema and clears it, so calling Build a second time
// panics with gravelerr.ErrSchemaFrozen — the same "mutated after
// freezing" invariant a Schema itself upholds, applied to the object that
// produces one.
type Builder struct {
	draft *draft
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	d := &draft{groups: make(map[string]*groupDraft)}
	for _, opt := range opts {
		// Schema-wide options never fail validation at this stage; errors
		// (such as a missing vertex serializer) surface from Build instead,
		// where the full draft can be checked at once.
		_ = options.Apply(d, opt)
	}

	return &Builder{draft: d}
}

// GroupBuilder configures one group's property layout.
type GroupBuilder struct {
	parent *Builder
	name   string
	draft  *groupDraft
}

// DefineGroup starts configuring the group named name. Calling
// DefineGroup twice with the same name on the same Builder replaces the
// earlier definition.
func (b *Builder) DefineGroup(name string) *GroupBuilder {
	gd := &groupDraft{typeByName: make(map[string]TypeDefinition)}
	b.draft.groups[name] = gd

	return &GroupBuilder{parent: b, name: name, draft: gd}
}

// Property registers a property in the group's full ordered list, backed
// by ser. Properties not passed to GroupBy, and not named by
// WithVisibilityProperty/WithTimestampProperty, land in the value column.
func (g *GroupBuilder) Property(name string, ser Serializer) *GroupBuilder {
	g.draft.propertyOrder = append(g.draft.propertyOrder, name)
	g.draft.typeByName[name] = TypeDefinition{Name: name, Serializer: ser}

	return g
}

// GroupBy marks names (which must already have been registered via
// Property) as the ordered column-qualifier prefix.
func (g *GroupBuilder) GroupBy(names ...string) *GroupBuilder {
	g.draft.groupBy = append(g.draft.groupBy, names...)

	return g
}

// Done returns to the parent Builder, for chaining multiple DefineGroup
// calls.
func (g *GroupBuilder) Done() *Builder {
	return g.parent
}

// Build freezes the Builder's draft into an immutable Schema. It returns
// an error if no VertexSerializer was configured, or if a group's GroupBy
// names were never registered via Property. The schema-wide visibility
// and timestamp property names (WithVisibilityProperty,
// WithTimestampProperty) are not required to be registered by every
// group — a group that never registers one is simply treated as not
// having that slot.
//
// Build panics with gravelerr.ErrSchemaFrozen if called more than once on
// the same Builder.
func (b *Builder) Build() (*Schema, error) {
	if b.draft == nil {
		panic(gravelerr.ErrSchemaFrozen)
	}
	d := b.draft
	b.draft = nil

	if d.vertexSerializer == nil {
		return nil, fmt.Errorf("schema: Build: %w", errMissingVertexSerializer)
	}

	groups := make(map[string]ElementDefinition, len(d.groups))
	for name, gd := range d.groups {
		groupBySet := make(map[string]struct{}, len(gd.groupBy))
		for _, gb := range gd.groupBy {
			if _, ok := gd.typeByName[gb]; !ok {
				return nil, fmt.Errorf("schema: Build: group %q: group-by property %q was never registered via Property: %w", name, gb, errUnregisteredProperty)
			}
			groupBySet[gb] = struct{}{}
		}

		groups[name] = ElementDefinition{
			properties:         append([]string(nil), gd.propertyOrder...),
			typeByName:         gd.typeByName,
			groupBy:            append([]string(nil), gd.groupBy...),
			groupBySet:         groupBySet,
			visibilityProperty: d.visibilityProperty,
			timestampProperty:  d.timestampProperty,
			valueProperties:    computeValueProperties(gd.propertyOrder, groupBySet, d.visibilityProperty, d.timestampProperty),
		}
	}

	var warnings chan Warning
	if d.warningBuffer > 0 {
		warnings = make(chan Warning, d.warningBuffer)
	}

	return &Schema{
		vertexSerializer: d.vertexSerializer,
		groups:           groups,
		warnings:         warnings,
	}, nil
}

var (
	errMissingVertexSerializer = errors.New("schema: no VertexSerializer configured")
	errUnregisteredProperty    = errors.New("schema: property referenced before being registered")
)
