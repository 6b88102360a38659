package graph

import (
	"context"

	"github.com/zero-day-ai/graphprops"
)

// Store is the mutation and query surface of a property-graph backend.
//
// Vertex properties are multi-valued: Cardinality List appends an instance
// and Single replaces every instance of the key. Edge properties keep one
// value per key whatever the cardinality.
type Store interface {
	// AddVertex creates a vertex and returns its id.
	AddVertex(ctx context.Context, label string) (string, error)

	// AddEdge creates an edge between two existing vertices.
	AddEdge(ctx context.Context, label, outV, inV string) (string, error)

	// Properties returns the mutator writing properties of one element.
	Properties(kind graphprops.Kind, id string) graphprops.Mutator

	// ExportVertex returns the vertex as a query record.
	ExportVertex(ctx context.Context, id string) (*graphprops.RawVertex, error)

	// ExportEdge returns the edge as a query record.
	ExportEdge(ctx context.Context, id string) (*graphprops.RawEdge, error)

	// ListProperties lists every property instance of an element.
	ListProperties(ctx context.Context, kind graphprops.Kind, id string) ([]graphprops.RawPropertyInstance, error)

	// DropProperty removes every instance of key.
	DropProperty(ctx context.Context, kind graphprops.Kind, id, key string) error

	// DropPropertyInstance removes a single property instance.
	DropPropertyInstance(ctx context.Context, kind graphprops.Kind, id, instanceID string) error

	Close() error
}
