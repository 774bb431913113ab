package elemcodec_test

import (
	"testing"
	"time"

	"github.com/arloliu/gravel/clock"
	"github.com/arloliu/gravel/elemcodec"
	"github.com/arloliu/gravel/escape"
	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/model"
	"github.com/arloliu/gravel/schema"
	"github.com/arloliu/gravel/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utf8Vertex struct{}

func (utf8Vertex) Serialize(v any) ([]byte, error)   { return []byte(v.(string)), nil }
func (utf8Vertex) Deserialize(b []byte) (any, error) { return string(b), nil }

func buildFriendSchema(t *testing.T) *schema.Schema {
	t.Helper()

	b := schema.NewBuilder(schema.WithVertexSerializer(utf8Vertex{}))
	b.DefineGroup("friend").
		Property("since", serializer.Int64{}).
		Property("weight", serializer.Float64{}).
		GroupBy("since")
	b.DefineGroup("person")

	s, err := b.Build()
	require.NoError(t, err)

	return s
}

func TestEncodeEntityNoProperties(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.Fixed(time.Unix(0, 0)), nil)

	rec, err := c.EncodeEntity(model.Entity{Group: "person", Vertex: "ab"})
	require.NoError(t, err)

	assert.Equal(t, []byte("ab"), rec.RowKey)
	assert.Equal(t, []byte("person"), rec.ColumnFamily)
	assert.Empty(t, rec.ColumnQualifier)
	assert.Empty(t, rec.Value)
}

func TestEncodeEntityRoundTrip(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.Fixed(time.Unix(100, 0)), nil)

	entity := model.Entity{Group: "person", Vertex: "alice", Properties: model.Properties{}}
	rec, err := c.EncodeEntity(entity)
	require.NoError(t, err)

	decoded, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily:    rec.ColumnFamily,
		RowKey:          rec.RowKey,
		ColumnQualifier: rec.ColumnQualifier,
		Visibility:      rec.Visibility,
		Timestamp:       rec.Timestamp,
		Value:           rec.Value,
	})
	require.NoError(t, err)

	got, ok := decoded.(model.Entity)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Vertex)
	assert.Equal(t, "person", got.Group)
}

func TestEncodeEntityVertexContainingDelimiter(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.System(), nil)

	rec, err := c.EncodeEntity(model.Entity{Group: "person", Vertex: "\x00"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01}, rec.RowKey)

	decoded, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily: rec.ColumnFamily,
		RowKey:       rec.RowKey,
	})
	require.NoError(t, err)
	assert.Equal(t, "\x00", decoded.(model.Entity).Vertex)
}

func TestEncodeDirectedEdgeDistinctEndpoints(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.Fixed(time.UnixMilli(42)), nil)

	edge := model.Edge{
		Group:       "friend",
		Source:      "a",
		Destination: "b",
		Directed:    true,
		Properties: model.Properties{
			"since":  int64(3),
			"weight": 1.0,
		},
	}

	primary, reverse, err := c.EncodeEdge(edge)
	require.NoError(t, err)
	require.NotNil(t, reverse)

	wantPrimaryRow := append(append([]byte("a"), escape.Delim), append([]byte("b"), escape.Delim, elemcodec.DirectedPrimary)...)
	assert.Equal(t, wantPrimaryRow, primary.RowKey)

	wantReverseRow := append(append([]byte("b"), escape.Delim), append([]byte("a"), escape.Delim, elemcodec.DirectedReverse)...)
	assert.Equal(t, wantReverseRow, reverse.RowKey)

	assert.Equal(t, primary.ColumnQualifier, reverse.ColumnQualifier)
	assert.Equal(t, primary.Value, reverse.Value)

	decodedPrimary, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily:    primary.ColumnFamily,
		RowKey:          primary.RowKey,
		ColumnQualifier: primary.ColumnQualifier,
		Value:           primary.Value,
	})
	require.NoError(t, err)
	gotPrimary := decodedPrimary.(model.Edge)
	assert.Equal(t, "a", gotPrimary.Source)
	assert.Equal(t, "b", gotPrimary.Destination)
	assert.True(t, gotPrimary.Directed)
	assert.Equal(t, int64(3), gotPrimary.Properties["since"])
	assert.InDelta(t, 1.0, gotPrimary.Properties["weight"], 0)

	decodedReverse, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily:    reverse.ColumnFamily,
		RowKey:          reverse.RowKey,
		ColumnQualifier: reverse.ColumnQualifier,
		Value:           reverse.Value,
	})
	require.NoError(t, err)
	gotReverse := decodedReverse.(model.Edge)
	assert.Equal(t, "a", gotReverse.Source)
	assert.Equal(t, "b", gotReverse.Destination)
	assert.True(t, gotReverse.Directed)
}

func TestEncodeSelfEdgeUndirectedSingleRecord(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.System(), nil)

	edge := model.Edge{Group: "friend", Source: "a", Destination: "a", Directed: false}
	primary, reverse, err := c.EncodeEdge(edge)
	require.NoError(t, err)
	assert.Nil(t, reverse)

	wantRow := append(append([]byte("a"), escape.Delim), append([]byte("a"), escape.Delim, elemcodec.UndirectedPrimary)...)
	assert.Equal(t, wantRow, primary.RowKey)
}

func TestEncodeUnknownGroup(t *testing.T) {
	s := buildFriendSchema(t)
	c := elemcodec.New(s, clock.System(), nil)

	_, err := c.EncodeEntity(model.Entity{Group: "nope", Vertex: "x"})
	assert.ErrorIs(t, err, gravelerr.ErrUnknownGroup)
}

func buildFriendSchemaWithVisibilityAndTimestamp(t *testing.T) *schema.Schema {
	t.Helper()

	b := schema.NewBuilder(
		schema.WithVertexSerializer(utf8Vertex{}),
		schema.WithVisibilityProperty("vis"),
		schema.WithTimestampProperty("ts"),
	)
	b.DefineGroup("friend").
		Property("since", serializer.Int64{}).
		Property("weight", serializer.Float64{}).
		Property("vis", serializer.Text{}).
		Property("ts", serializer.Int64{}).
		GroupBy("since")
	b.DefineGroup("person").
		Property("vis", serializer.Text{})

	s, err := b.Build()
	require.NoError(t, err)

	return s
}

func TestEncodeEntityVisibilityPresentRoundTrips(t *testing.T) {
	s := buildFriendSchemaWithVisibilityAndTimestamp(t)
	c := elemcodec.New(s, clock.Fixed(time.Unix(0, 0)), nil)

	entity := model.Entity{
		Group:      "person",
		Vertex:     "alice",
		Properties: model.Properties{"vis": "internal-only"},
	}
	rec, err := c.EncodeEntity(entity)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Visibility)

	decoded, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily: rec.ColumnFamily,
		RowKey:       rec.RowKey,
		Visibility:   rec.Visibility,
		Timestamp:    rec.Timestamp,
		Value:        rec.Value,
	})
	require.NoError(t, err)
	got := decoded.(model.Entity)
	assert.Equal(t, "internal-only", got.Properties["vis"])
}

func TestEncodeEntityVisibilityAbsentRoundTrips(t *testing.T) {
	s := buildFriendSchemaWithVisibilityAndTimestamp(t)
	c := elemcodec.New(s, clock.Fixed(time.Unix(0, 0)), nil)

	rec, err := c.EncodeEntity(model.Entity{Group: "person", Vertex: "bob"})
	require.NoError(t, err)

	decoded, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily: rec.ColumnFamily,
		RowKey:       rec.RowKey,
		Visibility:   rec.Visibility,
		Timestamp:    rec.Timestamp,
		Value:        rec.Value,
	})
	require.NoError(t, err)
	got := decoded.(model.Entity)
	assert.Equal(t, "", got.Properties["vis"])
}

func TestEncodeEdgeTimestampPropertyOverridesClock(t *testing.T) {
	s := buildFriendSchemaWithVisibilityAndTimestamp(t)
	c := elemcodec.New(s, clock.Fixed(time.Unix(999, 0)), nil)

	edge := model.Edge{
		Group:       "friend",
		Source:      "a",
		Destination: "b",
		Directed:    true,
		Properties: model.Properties{
			"since":  int64(1),
			"weight": 2.5,
			"vis":    "public",
			"ts":     int64(123456789),
		},
	}

	primary, _, err := c.EncodeEdge(edge)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), primary.Timestamp)
	assert.NotEmpty(t, primary.Visibility)

	decoded, err := c.Decode(elemcodec.DecodeInput{
		ColumnFamily:    primary.ColumnFamily,
		RowKey:          primary.RowKey,
		ColumnQualifier: primary.ColumnQualifier,
		Visibility:      primary.Visibility,
		Timestamp:       primary.Timestamp,
		Value:           primary.Value,
	})
	require.NoError(t, err)
	got := decoded.(model.Edge)
	assert.Equal(t, "public", got.Properties["vis"])
	assert.Equal(t, int64(123456789), got.Properties["ts"])
}

func TestEncodeTimestampFallsBackToClock(t *testing.T) {
	s := buildFriendSchema(t)
	fixed := time.UnixMilli(123456)
	c := elemcodec.New(s, clock.Fixed(fixed), nil)

	rec, err := c.EncodeEntity(model.Entity{Group: "person", Vertex: "a"})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), rec.Timestamp)
}

func TestEncodeTimestampWrongTypeWarnsAndFallsBackToClock(t *testing.T) {
	b := schema.NewBuilder(
		schema.WithVertexSerializer(utf8Vertex{}),
		schema.WithTimestampProperty("ts"),
		schema.WithWarningBuffer(1),
	)
	b.DefineGroup("person").Property("ts", serializer.Int64{})
	s, err := b.Build()
	require.NoError(t, err)

	fixed := time.UnixMilli(123456)
	c := elemcodec.New(s, clock.Fixed(fixed), nil)

	rec, err := c.EncodeEntity(model.Entity{
		Group:      "person",
		Vertex:     "a",
		Properties: model.Properties{"ts": 1700000000000}, // plain int, not int64
	})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), rec.Timestamp)

	select {
	case w := <-s.Warnings():
		assert.Equal(t, "timestamp_wrong_type", w.Kind)
		assert.Equal(t, "ts", w.Property)
	default:
		t.Fatal("expected a timestamp_wrong_type warning")
	}
}
