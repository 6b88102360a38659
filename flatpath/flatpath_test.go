package flatpath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/graphprops/value"
)

func TestSplit(t *testing.T) {
	p := Split("a.0.b.01.-1.12", ".")
	require.Len(t, p, 6)
	assert.False(t, p[0].IsIndex())
	assert.True(t, p[1].IsIndex())
	assert.Equal(t, 0, p[1].Int())
	assert.False(t, p[3].IsIndex(), "leading zero is a key")
	assert.False(t, p[4].IsIndex(), "negative is a key")
	assert.True(t, p[5].IsIndex())
	assert.Equal(t, "a.0.b.01.-1.12", p.String())
	assert.Equal(t, "a/0/b/01/-1/12", p.Join("/"))
}

func TestFlatten(t *testing.T) {
	when := time.Date(2022, 2, 2, 0, 0, 0, 0, time.UTC)
	dict := value.Dict(value.NewObject().Set("x", value.Int(1)))
	bag := value.Obj(value.NewObject().
		Set("a", value.MustParseJSON(`{"b":1,"c":[2,3]}`)).
		Set("empty", value.MustParseJSON(`{}`)).
		Set("none", value.List()).
		Set("when", value.Date(when)).
		Set("m", dict))

	tests := []struct {
		name string
		opts []Option
		keys []string
	}{
		{
			name: "explodes arrays",
			keys: []string{"a.b", "a.c.0", "a.c.1", "empty", "none", "when", "m"},
		},
		{
			name: "atomic arrays",
			opts: []Option{AtomicArrays()},
			keys: []string{"a.b", "a.c", "empty", "none", "when", "m"},
		},
		{
			name: "custom delimiter",
			opts: []Option{Delimiter("/")},
			keys: []string{"a/b", "a/c/0", "a/c/1", "empty", "none", "when", "m"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Flatten(bag, tt.opts...)
			assert.Equal(t, tt.keys, m.Keys())
		})
	}

	m := Flatten(bag, AtomicArrays())
	c, ok := m.Get("a.c")
	require.True(t, ok)
	assert.Equal(t, value.KindList, c.Kind())
	got, _ := m.Get("m")
	assert.Equal(t, value.KindDict, got.Kind(), "dicts are leaves")
}

func TestFlattenNonContainerRoot(t *testing.T) {
	assert.Equal(t, 0, Flatten(value.Int(5)).Len())
	assert.Equal(t, 0, Flatten(value.Null()).Len())
	assert.Equal(t, 0, Flatten(value.Undefined()).Len())
}

func TestFlattenIsDeterministic(t *testing.T) {
	bag := value.FromAny(map[string]any{"z": 1, "y": map[string]any{"b": 2, "a": 3}, "x": []any{1, 2}})
	first := Flatten(bag).Keys()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Flatten(bag).Keys())
	}
	assert.Equal(t, []string{"x.0", "x.1", "y.a", "y.b", "z"}, first)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`{"a":{"b":1,"c":[2,3]}}`,
		`{"list":[{"x":1},{"x":[true,null]}],"s":"v"}`,
		`{"e":{},"l":[],"n":null}`,
		`{"0":"zero","1":"one"}`,
		`{"obj":{"0":"a","1":"b"}}`,
		`{"dotted.key":{"x":1}}`,
		`{"deep":[[1,2],[3,[4,5]]]}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v := value.MustParseJSON(in)
			for _, opts := range [][]Option{nil, {AtomicArrays()}} {
				back := Unflatten(Flatten(v, opts...), opts...)
				assert.True(t, value.Equal(v, back), "got %s", back)
			}
		})
	}
}

func TestUnflattenFromKeys(t *testing.T) {
	tests := []struct {
		name  string
		pairs [][2]string
		want  string
	}{
		{
			name:  "contiguous indexes become a list",
			pairs: [][2]string{{"a.1", `"y"`}, {"a.0", `"x"`}},
			want:  `{"a":["x","y"]}`,
		},
		{
			name:  "gap keeps an object",
			pairs: [][2]string{{"a.0", `1`}, {"a.2", `3`}},
			want:  `{"a":{"0":1,"2":3}}`,
		},
		{
			name:  "mixed keys keep an object",
			pairs: [][2]string{{"a.0", `1`}, {"a.x", `2`}},
			want:  `{"a":{"0":1,"x":2}}`,
		},
		{
			name:  "root stays an object",
			pairs: [][2]string{{"0", `1`}, {"1", `2`}},
			want:  `{"0":1,"1":2}`,
		},
		{
			name:  "descending through a scalar is dropped",
			pairs: [][2]string{{"a", `1`}, {"a.b", `2`}},
			want:  `{"a":1}`,
		},
		{
			name:  "descending through an object leaf merges",
			pairs: [][2]string{{"a", `{"x":1}`}, {"a.y", `2`}},
			want:  `{"a":{"x":1,"y":2}}`,
		},
		{
			name:  "leaf replaces an earlier branch",
			pairs: [][2]string{{"a.b", `1`}, {"a", `"flat"`}},
			want:  `{"a":"flat"}`,
		},
		{
			name:  "object leaf values are kept whole",
			pairs: [][2]string{{"meta.name", `{"_id":"p1","_type":"single"}`}},
			want:  `{"meta":{"name":{"_id":"p1","_type":"single"}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMap()
			for _, p := range tt.pairs {
				m.Set(p[0], value.MustParseJSON(p[1]))
			}
			got := Unflatten(m)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestUnflattenDelimiter(t *testing.T) {
	m := NewMap().Set("a/b", value.Int(1)).Set("a/c", value.Int(2))
	assert.Equal(t, `{"a":{"b":1,"c":2}}`, Unflatten(m, Delimiter("/")).String())
	assert.Equal(t, `{"a/b":1,"a/c":2}`, Unflatten(m).String())
}

func TestUnflattenNil(t *testing.T) {
	assert.Equal(t, `{}`, Unflatten(nil).String())
}

func TestMapReplaceAndObject(t *testing.T) {
	m := NewMap().Set("a", value.Int(1)).Set("b", value.Int(2))
	assert.True(t, m.Replace("a", value.String("x")))
	assert.False(t, m.Replace("zzz", value.Null()))
	assert.Equal(t, `{"a":"x","b":2}`, value.Obj(m.Object()).String())
	m.Set("a", value.Int(3))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}
