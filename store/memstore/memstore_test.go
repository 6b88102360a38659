package memstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/value"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore() *Store {
	return New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDGenerator(sequentialIDs()),
	)
}

func set(t *testing.T, m graphprops.Mutator, key string, v value.Value, card graphprops.Cardinality, meta ...graphprops.MetaPair) {
	t.Helper()
	require.NoError(t, m.SetProperty(context.Background(), key, v, card, meta))
}

func TestStore_VertexCardinality(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	vid, err := s.AddVertex(ctx, "Person")
	require.NoError(t, err)
	assert.Equal(t, "id-1", vid)

	m := s.Properties(graphprops.Vertex, vid)
	set(t, m, "name", value.String("a"), graphprops.Single)
	set(t, m, "name", value.String("b"), graphprops.Single)
	set(t, m, "tags", value.String("x"), graphprops.List, graphprops.MetaPair{Name: "src", Value: value.String("ui")})
	set(t, m, "tags", value.String("y"), graphprops.List)
	set(t, m, "n", value.Int(1), graphprops.None)

	raw, err := s.ExportVertex(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, "Person", raw.Label)
	assert.Equal(t,
		`{"id":"id-1","label":"Person","properties":{`+
			`"name":[{"id":"id-3","value":"b"}],`+
			`"tags":[{"id":"id-4","value":"x","properties":{"src":"ui"}},{"id":"id-5","value":"y"}],`+
			`"n":[{"id":"id-6","value":1}]}}`,
		raw.ToValue().String())
}

func TestStore_Edge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, _ := s.AddVertex(ctx, "A")
	b, _ := s.AddVertex(ctx, "B")
	eid, err := s.AddEdge(ctx, "KNOWS", a, b)
	require.NoError(t, err)

	m := s.Properties(graphprops.Edge, eid)
	set(t, m, "w", value.Int(1), graphprops.None)
	set(t, m, "w", value.Int(2), graphprops.List)
	set(t, m, "since", value.String("2020"), graphprops.None, graphprops.MetaPair{Name: "ignored", Value: value.Bool(true)})

	raw, err := s.ExportEdge(ctx, eid)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"id-3","label":"KNOWS","outV":"id-1","inV":"id-2","properties":{"w":2,"since":"2020"}}`, raw.ToValue().String())

	_, err = s.AddEdge(ctx, "KNOWS", a, "missing")
	assert.ErrorIs(t, err, graphprops.ErrElementNotFound)

	vs, es := s.Len()
	assert.Equal(t, 2, vs)
	assert.Equal(t, 1, es)
}

func TestStore_ListAndDrop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	vid, _ := s.AddVertex(ctx, "V")
	m := s.Properties(graphprops.Vertex, vid)
	set(t, m, "a", value.Int(1), graphprops.List)
	set(t, m, "b", value.Int(2), graphprops.Single)
	set(t, m, "a", value.Int(3), graphprops.List)

	list, err := s.ListProperties(ctx, graphprops.Vertex, vid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "a", "b"}, []string{list[0].Key, list[1].Key, list[2].Key})

	require.NoError(t, s.DropPropertyInstance(ctx, graphprops.Vertex, vid, list[0].ID.Str()))
	require.NoError(t, s.DropProperty(ctx, graphprops.Vertex, vid, "b"))
	require.NoError(t, s.DropProperty(ctx, graphprops.Vertex, vid, "absent"))

	list, err = s.ListProperties(ctx, graphprops.Vertex, vid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, float64(3), list[0].Value.Float())

	require.NoError(t, s.DropPropertyInstance(ctx, graphprops.Vertex, vid, list[0].ID.Str()))
	list, err = s.ListProperties(ctx, graphprops.Vertex, vid)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = s.DropPropertyInstance(ctx, graphprops.Vertex, vid, "nope")
	assert.ErrorIs(t, err, graphprops.ErrInstanceNotFound)
	assert.True(t, graphprops.IsNotFound(err))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	err := s.Properties(graphprops.Vertex, "missing").SetProperty(ctx, "k", value.Int(1), graphprops.Single, nil)
	assert.ErrorIs(t, err, graphprops.ErrElementNotFound)

	_, err = s.ExportVertex(ctx, "missing")
	assert.True(t, graphprops.IsNotFound(err))
	_, err = s.ExportEdge(ctx, "missing")
	assert.True(t, graphprops.IsNotFound(err))
	_, err = s.ListProperties(ctx, graphprops.Edge, "missing")
	assert.True(t, graphprops.IsNotFound(err))
	assert.Error(t, s.DropProperty(ctx, graphprops.Vertex, "missing", "k"))

	_, err = s.ListProperties(ctx, graphprops.Kind(9), "x")
	assert.ErrorIs(t, err, graphprops.ErrUnknownKind)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestStore()

	_, err := s.AddVertex(ctx, "V")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentListWrites(t *testing.T) {
	ctx := context.Background()
	s := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	vid, err := s.AddVertex(ctx, "V")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Properties(graphprops.Vertex, vid).SetProperty(ctx, "k", value.Int(int64(i)), graphprops.List, nil)
		}(i)
	}
	wg.Wait()

	list, err := s.ListProperties(ctx, graphprops.Vertex, vid)
	require.NoError(t, err)
	assert.Len(t, list, 20)
	require.NoError(t, s.Close())
}
