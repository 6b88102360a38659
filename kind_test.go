package graphprops

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"vertex", Vertex, false},
		{"V", Vertex, false},
		{" node ", Vertex, false},
		{"edge", Edge, false},
		{"E", Edge, false},
		{"relationship", Edge, false},
		{"graph", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Properties(t *testing.T) {
	assert.True(t, Vertex.MultiValued())
	assert.False(t, Edge.MultiValued())
	assert.Equal(t, "_vId", Vertex.IdentityField())
	assert.Equal(t, "_eId", Edge.IdentityField())
	assert.False(t, Kind(9).Valid())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestKind_TextRoundTrip(t *testing.T) {
	var doc struct {
		Kind Kind        `json:"kind"`
		Card Cardinality `json:"card"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"edge","card":"list"}`), &doc))
	assert.Equal(t, Edge, doc.Kind)
	assert.Equal(t, List, doc.Card)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"edge","card":"list"}`, string(out))

	_, err = Kind(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownKind)

	var c Cardinality
	assert.Error(t, c.UnmarshalText([]byte("many")))
}

func TestCardinality_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "single", Single.String())
	assert.Equal(t, "list", List.String())
}
