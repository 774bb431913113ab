package propcodec_test

import (
	"testing"

	"github.com/arloliu/gravel/gravelerr"
	"github.com/arloliu/gravel/model"
	"github.com/arloliu/gravel/propcodec"
	"github.com/arloliu/gravel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSerializer struct {
	null []byte
}

func (s fixedSerializer) Serialize(v any) ([]byte, error)   { return v.([]byte), nil }
func (s fixedSerializer) Deserialize(b []byte) (any, error) { return append([]byte(nil), b...), nil }
func (s fixedSerializer) SerializeNull() []byte             { return s.null }
func (s fixedSerializer) DeserializeEmpty() (any, error)    { return []byte{}, nil }

func buildDef(t *testing.T, names ...string) schema.ElementDefinition {
	t.Helper()

	b := schema.NewBuilder(schema.WithVertexSerializer(fixedSerializer{}))
	gb := b.DefineGroup("g")
	for _, n := range names {
		gb.Property(n, fixedSerializer{})
	}
	s, err := b.Build()
	require.NoError(t, err)

	def, ok := s.ElementDefinition("g")
	require.True(t, ok)

	return def
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	def := buildDef(t, "a", "b", "c")
	props := model.Properties{
		"a": []byte{1, 2},
		"b": []byte{3, 4, 5},
		"c": []byte{6},
	}

	data, err := propcodec.Serialize(def, []string{"a", "b", "c"}, props, nil)
	require.NoError(t, err)

	got, err := propcodec.Deserialize(def, []string{"a", "b", "c"}, data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got["a"])
	assert.Equal(t, []byte{3, 4, 5}, got["b"])
	assert.Equal(t, []byte{6}, got["c"])
}

func TestSerializeEmptyPropertyListIsEmptyBytes(t *testing.T) {
	def := buildDef(t)
	data, err := propcodec.Serialize(def, nil, model.Properties{}, nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	got, err := propcodec.Deserialize(def, nil, data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSerializeAbsentPropertyUsesNullSentinel(t *testing.T) {
	def := buildDef(t, "a")
	data, err := propcodec.Serialize(def, []string{"a"}, model.Properties{}, nil)
	require.NoError(t, err)

	got, err := propcodec.Deserialize(def, []string{"a"}, data)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got["a"])
}

func TestDeserializeTailTruncationTolerance(t *testing.T) {
	def := buildDef(t, "a", "b", "c")
	props := model.Properties{
		"a": []byte{1, 2},
		"b": []byte{3, 4, 5},
		"c": []byte{6},
	}

	data, err := propcodec.Serialize(def, []string{"a", "b", "c"}, props, nil)
	require.NoError(t, err)

	firstTwoLen, err := propcodec.PrefixBytesForFirstK(data, 2)
	require.NoError(t, err)
	truncated := data[:len(firstTwoLen)]

	got, err := propcodec.Deserialize(def, []string{"a", "b", "c"}, truncated)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got["a"])
	assert.Equal(t, []byte{3, 4, 5}, got["b"])
	_, hasC := got["c"]
	assert.False(t, hasC)
}

func TestPrefixBytesForFirstK(t *testing.T) {
	def := buildDef(t, "a", "b", "c")
	props := model.Properties{
		"a": make([]byte, 2),
		"b": make([]byte, 3),
		"c": make([]byte, 4),
	}

	data, err := propcodec.Serialize(def, []string{"a", "b", "c"}, props, nil)
	require.NoError(t, err)

	prefix2, err := propcodec.PrefixBytesForFirstK(data, 2)
	require.NoError(t, err)

	expected, err := propcodec.Serialize(def, []string{"a", "b"}, props, nil)
	require.NoError(t, err)
	assert.Equal(t, expected, prefix2)

	full, err := propcodec.PrefixBytesForFirstK(data, 3)
	require.NoError(t, err)
	assert.Equal(t, data, full)
}

func TestDeserializeCorruptLength(t *testing.T) {
	def := buildDef(t, "a")
	data := []byte{0x05, 0x00, 0x00} // declares a 5-byte value, only 2 bytes follow

	_, err := propcodec.Deserialize(def, []string{"a"}, data)
	assert.ErrorIs(t, err, gravelerr.ErrCorruptRecord)
}

func TestSerializeMissingTypeDefinitionEmitsEmptyFrameAndWarns(t *testing.T) {
	def := buildDef(t, "a") // "ghost" has no type definition

	var warnings []schema.Warning
	warn := warnFunc(func(w schema.Warning) { warnings = append(warnings, w) })

	data, err := propcodec.Serialize(def, []string{"a", "ghost"}, model.Properties{"a": []byte{9}}, warn)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "missing_serializer", warnings[0].Kind)
	assert.Equal(t, "ghost", warnings[0].Property)

	got, err := propcodec.Deserialize(def, []string{"a", "ghost"}, data)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got["a"])
	_, hasGhost := got["ghost"]
	assert.False(t, hasGhost)
}

type warnFunc func(schema.Warning)

func (f warnFunc) Warn(w schema.Warning) { f(w) }
