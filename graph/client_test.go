package graph_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/graph"
	"github.com/zero-day-ai/graphprops/store/memstore"
	"github.com/zero-day-ai/graphprops/store/redisstore"
	"github.com/zero-day-ai/graphprops/value"
)

var (
	_ graph.Store = (*memstore.Store)(nil)
	_ graph.Store = (*redisstore.Store)(nil)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestClient(t *testing.T, opts ...graph.Option) *graph.Client {
	t.Helper()
	store := memstore.New(memstore.WithLogger(discardLogger()), memstore.WithIDGenerator(sequentialIDs()))
	opts = append([]graph.Option{
		graph.WithLogger(discardLogger()),
		graph.WithCodec(graphprops.New(graphprops.WithLogger(discardLogger()))),
	}, opts...)
	c, err := graph.NewClient(store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewClient_NilStore(t *testing.T) {
	_, err := graph.NewClient(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrNilStore)
	assert.True(t, graphprops.IsValidation(err))
}

func TestClient_VertexLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	props := value.MustParseJSON(`{"name":"Alice","tags":["a","b"],"address":{"city":"Oslo"}}`)
	meta := value.MustParseJSON(`{"name":{"source":"ui"}}`)

	id, err := c.CreateVertex(ctx, "person", props, meta)
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	entity, err := c.GetJSONByID(ctx, graphprops.Vertex, id)
	require.NoError(t, err)
	assert.Equal(t, "Person", entity.Label)
	assert.Equal(t, `{"name":"Alice","tags":["a","b"],"address":{"city":"Oslo"}}`, entity.Properties.String())
	nameMeta, ok := entity.Meta.Object().Get("name")
	require.True(t, ok)
	assert.Equal(t, `{"_id":"id-2","_key":"name","_value":"Alice","_type":"single","source":"ui"}`, nameMeta.String())

	got, err := c.GetProps(ctx, graphprops.Vertex, id)
	require.NoError(t, err)
	assert.Equal(t,
		`{"_vId":"id-1","name":"Alice","tags":["a","b"],"address":{"city":"Oslo"},`+
			`"_relationId":{"name":"id-2","tags":["id-3","id-4"],"address":{"city":"id-5"}}}`,
		got.String())

	require.NoError(t, c.UpdateProps(ctx, graphprops.Vertex, id, value.MustParseJSON(`{"name":"Bob"}`), value.Undefined()))
	require.NoError(t, c.RemoveProps(ctx, graphprops.Vertex, id, "tags", "absent"))

	got, err = c.GetProps(ctx, graphprops.Vertex, id)
	require.NoError(t, err)
	assert.Equal(t,
		`{"_vId":"id-1","name":"Bob","address":{"city":"Oslo"},"_relationId":{"name":"id-6","address":{"city":"id-5"}}}`,
		got.String())
}

func TestClient_Edge(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	a, err := c.CreateVertex(ctx, "person", value.Undefined(), value.Undefined())
	require.NoError(t, err)
	b, err := c.CreateVertex(ctx, "company", value.Null(), value.Undefined())
	require.NoError(t, err)

	eid, err := c.CreateEdge(ctx, "worksAt", a, b, value.MustParseJSON(`{"since":2020,"roles":["dev","ops"]}`), value.Undefined())
	require.NoError(t, err)

	entity, err := c.GetJSONByID(ctx, graphprops.Edge, eid)
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":"id-3","label":"WORKS_AT","outV":"id-1","inV":"id-2","properties":{"since":2020,"roles":["dev","ops"]}}`,
		entity.ToValue().String())

	got, err := c.GetProps(ctx, graphprops.Edge, eid)
	require.NoError(t, err)
	assert.Equal(t, `{"_eId":"id-3","since":2020,"roles":["dev","ops"]}`, got.String())

	_, err = c.CreateEdge(ctx, "knows", a, "missing", value.Undefined(), value.Undefined())
	assert.ErrorIs(t, err, graphprops.ErrElementNotFound)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.CreateVertex(ctx, "", value.Undefined(), value.Undefined())
	assert.True(t, graphprops.IsValidation(err))

	_, err = c.CreateVertex(ctx, "person", value.MustParseJSON(`[1,2]`), value.Undefined())
	assert.ErrorIs(t, err, graphprops.ErrInvalidProps)

	id, err := c.CreateVertex(ctx, "person", value.Undefined(), value.Undefined())
	require.NoError(t, err)
	err = c.UpdateProps(ctx, graphprops.Vertex, id, value.String("x"), value.Undefined())
	assert.ErrorIs(t, err, graphprops.ErrInvalidProps)

	_, err = c.GetJSONByID(ctx, graphprops.Vertex, "missing")
	assert.ErrorIs(t, err, graphprops.ErrElementNotFound)
	_, err = c.GetJSONByID(ctx, graphprops.Kind(7), id)
	assert.ErrorIs(t, err, graphprops.ErrUnknownKind)

	err = c.UpdateProps(ctx, graphprops.Edge, "missing", value.MustParseJSON(`{"k":1}`), value.Undefined())
	assert.True(t, graphprops.IsNotFound(err))

	err = c.RemoveProps(ctx, graphprops.Vertex, "missing", "k")
	assert.True(t, graphprops.IsNotFound(err))
}

func TestClient_GetPropsMany(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	a, _ := c.CreateVertex(ctx, "v", value.MustParseJSON(`{"n":1}`), value.Undefined())
	b, _ := c.CreateVertex(ctx, "v", value.MustParseJSON(`{"n":2}`), value.Undefined())

	got, err := c.GetPropsMany(ctx, graphprops.Vertex, []string{a, b})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, `{"_vId":"id-1","n":1,"_relationId":{"n":"id-2"}}`, got[0].String())
	assert.Equal(t, `{"_vId":"id-3","n":2,"_relationId":{"n":"id-4"}}`, got[1].String())

	_, err = c.GetPropsMany(ctx, graphprops.Vertex, []string{a, "missing"})
	assert.True(t, graphprops.IsNotFound(err))
}

func TestClient_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	c := newTestClient(t, graph.WithTracer(tp.Tracer("test")))

	ctx := context.Background()
	id, err := c.CreateVertex(ctx, "v", value.MustParseJSON(`{"n":1}`), value.Undefined())
	require.NoError(t, err)
	_, err = c.GetProps(ctx, graphprops.Vertex, "missing")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "graph.Client.CreateVertex", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("graph.id", id))
	assert.Equal(t, "graph.Client.GetProps", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestClient_RedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store, err := redisstore.New(redisstore.Options{
		URL:    fmt.Sprintf("redis://%s", mr.Addr()),
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	c, err := graph.NewClient(store, graph.WithLogger(discardLogger()))
	require.NoError(t, err)
	defer c.Close()

	props := value.MustParseJSON(`{"name":"Alice","born":"1990-04-01","scores":[1,2,3],"geo":{"lat":59.9}}`)
	id, err := c.CreateVertex(ctx, "person", props, value.MustParseJSON(`{"scores":[{"w":1},{"w":2}]}`))
	require.NoError(t, err)

	entity, err := c.GetJSONByID(ctx, graphprops.Vertex, id)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Alice","born":"1990-04-01T00:00:00.000Z","scores":[1,2,3],"geo":{"lat":59.9}}`,
		entity.Properties.String())

	scores, _ := entity.Meta.Object().Get("scores")
	require.Len(t, scores.Items(), 3)
	w, _ := scores.Items()[1].Object().Get("w")
	assert.Equal(t, float64(2), w.Float())
	assert.False(t, scores.Items()[2].Object().Has("w"))
}

func TestClient_CreateVertexFromMessage(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	msg, err := structpb.NewStruct(map[string]any{"ip": "10.0.0.1", "ports": []any{22, 443}})
	require.NoError(t, err)

	id, err := c.CreateVertexFromMessage(ctx, "host", msg)
	require.NoError(t, err)

	entity, err := c.GetJSONByID(ctx, graphprops.Vertex, id)
	require.NoError(t, err)
	assert.Equal(t, "Host", entity.Label)
	assert.Equal(t, `{"ip":"10.0.0.1","ports":[22,443]}`, entity.Properties.String())

	_, err = c.CreateVertexFromMessage(ctx, "host", nil)
	assert.True(t, graphprops.IsValidation(err))
}

func TestLabels(t *testing.T) {
	tests := []struct {
		in, vertex, edge string
	}{
		{"person", "Person", "PERSON"},
		{"worksAt", "WorksAt", "WORKS_AT"},
		{"works at", "Works at", "WORKS_AT"},
		{"ÉCOLE", "ÉCOLE", "ÉCOLE"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.vertex, graph.VertexLabel(tt.in), tt.in)
		assert.Equal(t, tt.edge, graph.EdgeLabel(tt.in), tt.in)
	}
}
