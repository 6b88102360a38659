package graphprops

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/graphprops/value"
)

func quietCodec(opts ...Option) *Codec {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

// instr is a compact expectation for a WriteInstruction.
type instr struct {
	key  string
	val  string
	card Cardinality
	meta string
}

func simplify(in []WriteInstruction) []instr {
	out := make([]instr, len(in))
	for i, w := range in {
		out[i] = instr{key: w.Key, val: w.Value.String(), card: w.Cardinality}
		if len(w.Meta) > 0 {
			out[i].meta = value.Obj(w.MetaObject()).String()
		}
	}
	return out
}

func TestEncode(t *testing.T) {
	when := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)
	ms := `1622541600000`

	tests := []struct {
		name  string
		props value.Value
		meta  value.Value
		kind  Kind
		want  []instr
	}{
		{
			name:  "nested vertex bag with array",
			props: value.MustParseJSON(`{"a":{"b":1,"c":[2,3]}}`),
			meta:  value.MustParseJSON(`{}`),
			kind:  Vertex,
			want: []instr{
				{key: "a.b", val: "1", card: Single},
				{key: "a.c", val: "2", card: List},
				{key: "a.c", val: "3", card: List},
			},
		},
		{
			name:  "edge null",
			props: value.MustParseJSON(`{"x":null}`),
			meta:  value.MustParseJSON(`{}`),
			kind:  Edge,
			want:  []instr{{key: "x", val: `"null"`, card: None}},
		},
		{
			name:  "edge array stays one entry",
			props: value.MustParseJSON(`{"tags":["a","b"],"n":2}`),
			kind:  Edge,
			want: []instr{
				{key: "tags", val: `"[\"a\",\"b\"]"`, card: None},
				{key: "n", val: "2", card: None},
			},
		},
		{
			name:  "edge array dates become millis",
			props: value.Obj(value.NewObject().Set("seen", value.List(value.Date(when), value.String("x")))),
			kind:  Edge,
			want:  []instr{{key: "seen", val: `"[` + ms + `,\"x\"]"`, card: None}},
		},
		{
			name:  "vertex date leaf",
			props: value.Obj(value.NewObject().Set("born", value.Date(when))),
			kind:  Vertex,
			want:  []instr{{key: "born", val: ms, card: Single}},
		},
		{
			name:  "empty vertex array emits nothing",
			props: value.MustParseJSON(`{"tags":[],"name":"n"}`),
			kind:  Vertex,
			want:  []instr{{key: "name", val: `"n"`, card: Single}},
		},
		{
			name:  "empty object leaf is JSON text",
			props: value.MustParseJSON(`{"extra":{}}`),
			kind:  Vertex,
			want:  []instr{{key: "extra", val: `"{}"`, card: Single}},
		},
		{
			name:  "objects inside vertex arrays are JSON text",
			props: value.MustParseJSON(`{"xs":[{"k":1},null]}`),
			kind:  Vertex,
			want: []instr{
				{key: "xs", val: `"{\"k\":1}"`, card: List},
				{key: "xs", val: `"null"`, card: List},
			},
		},
		{
			name:  "dict leaf is JSON text",
			props: value.Obj(value.NewObject().Set("d", value.Dict(value.NewObject().Set("k", value.Int(1))))),
			kind:  Edge,
			want:  []instr{{key: "d", val: `"{\"k\":1}"`, card: None}},
		},
		{
			name:  "vertex metadata by leaf",
			props: value.MustParseJSON(`{"name":"Alice","addr":{"city":"Oslo"}}`),
			meta:  value.MustParseJSON(`{"name":{"source":"crm","score":0.9},"addr":{"city":{"verified":true}}}`),
			kind:  Vertex,
			want: []instr{
				{key: "name", val: `"Alice"`, card: Single, meta: `{"source":"crm","score":0.9}`},
				{key: "addr.city", val: `"Oslo"`, card: Single, meta: `{"verified":true}`},
			},
		},
		{
			name:  "vertex list metadata by index",
			props: value.MustParseJSON(`{"tags":["a","b","c"]}`),
			meta:  value.MustParseJSON(`{"tags":[{"by":"x"},{"by":"y"}]}`),
			kind:  Vertex,
			want: []instr{
				{key: "tags", val: `"a"`, card: List, meta: `{"by":"x"}`},
				{key: "tags", val: `"b"`, card: List, meta: `{"by":"y"}`},
				{key: "tags", val: `"c"`, card: List},
			},
		},
		{
			name:  "vertex list metadata by index key",
			props: value.MustParseJSON(`{"tags":["a","b"]}`),
			meta:  value.MustParseJSON(`{"tags":{"1":{"by":"y"}}}`),
			kind:  Vertex,
			want: []instr{
				{key: "tags", val: `"a"`, card: List},
				{key: "tags", val: `"b"`, card: List, meta: `{"by":"y"}`},
			},
		},
		{
			name:  "edge metadata",
			props: value.MustParseJSON(`{"weight":3}`),
			meta:  value.MustParseJSON(`{"weight":{"unit":"kg"}}`),
			kind:  Edge,
			want:  []instr{{key: "weight", val: "3", card: None, meta: `{"unit":"kg"}`}},
		},
		{
			name:  "unsupported metadata types are dropped",
			props: value.MustParseJSON(`{"name":"n"}`),
			meta:  value.MustParseJSON(`{"name":{"ok":1,"obj":{"a":1},"arr":[1],"nil":null,"flag":false}}`),
			kind:  Vertex,
			want:  []instr{{key: "name", val: `"n"`, card: Single, meta: `{"ok":1,"flag":false}`}},
		},
		{
			name:  "metadata dates become millis",
			props: value.MustParseJSON(`{"name":"n"}`),
			meta:  value.Obj(value.NewObject().Set("name", value.Obj(value.NewObject().Set("at", value.Date(when))))),
			kind:  Vertex,
			want:  []instr{{key: "name", val: `"n"`, card: Single, meta: `{"at":` + ms + `}`}},
		},
		{
			name:  "scalar metadata is ignored",
			props: value.MustParseJSON(`{"name":"n"}`),
			meta:  value.MustParseJSON(`{"name":"not an object"}`),
			kind:  Vertex,
			want:  []instr{{key: "name", val: `"n"`, card: Single}},
		},
	}

	codec := quietCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Encode(tt.props, tt.meta, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, simplify(got))
		})
	}
}

func TestEncode_NilAndInvalid(t *testing.T) {
	codec := quietCodec()

	for _, props := range []value.Value{value.Undefined(), value.Null()} {
		got, err := codec.Encode(props, value.Undefined(), Vertex)
		assert.NoError(t, err)
		assert.Empty(t, got)
	}

	for _, props := range []value.Value{
		value.String("x"),
		value.Int(1),
		value.MustParseJSON(`[1,2]`),
		value.Dict(value.NewObject()),
	} {
		got, err := codec.Encode(props, value.Undefined(), Vertex)
		assert.ErrorIs(t, err, ErrInvalidProps, "kind %s", props.Kind())
		assert.True(t, IsValidation(err))
		assert.Nil(t, got)
	}

	_, err := codec.Encode(value.MustParseJSON(`{"a":1}`), value.Undefined(), Kind(5))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEncode_CardinalityPerKind(t *testing.T) {
	props := value.MustParseJSON(`{"a":1,"b":{"c":[1,2]},"d":"x"}`)
	codec := quietCodec()

	edge, err := codec.Encode(props, value.Undefined(), Edge)
	require.NoError(t, err)
	for _, w := range edge {
		assert.Equal(t, None, w.Cardinality, w.Key)
	}

	vertex, err := codec.Encode(props, value.Undefined(), Vertex)
	require.NoError(t, err)
	for _, w := range vertex {
		assert.NotEqual(t, None, w.Cardinality, w.Key)
		assert.Contains(t, []value.Kind{value.KindString, value.KindNumber, value.KindBool}, w.Value.Kind())
	}
}

func TestEncode_Delimiter(t *testing.T) {
	codec := quietCodec(WithDelimiter("/"))
	got, err := codec.Encode(value.MustParseJSON(`{"a":{"b":1}}`), value.MustParseJSON(`{"a":{"b":{"m":1}}}`), Vertex)
	require.NoError(t, err)
	assert.Equal(t, []instr{{key: "a/b", val: "1", card: Single, meta: `{"m":1}`}}, simplify(got))
}

func TestEncode_LogsDroppedMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	codec := New(WithLogger(logger))

	_, err := codec.Encode(value.MustParseJSON(`{"k":1}`), value.MustParseJSON(`{"k":{"bad":{}}}`), Vertex)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dropped metadata")
	assert.Contains(t, buf.String(), "k@bad")
}

func TestWriteInstruction_MarshalJSON(t *testing.T) {
	w := WriteInstruction{
		Key:         "a.c",
		Value:       value.Int(2),
		Cardinality: List,
		Meta:        []MetaPair{{Name: "src", Value: value.String("ui")}},
	}
	b, err := w.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"a.c","value":2,"cardinality":"list","meta":{"src":"ui"}}`, string(b))
}
