package graphprops

import (
	"fmt"
	"strings"
)

// Kind is the category of graph element a property bag belongs to. The two
// kinds differ in how many physical entries a property key may hold.
type Kind uint8

const (
	// Vertex is the multi-valued kind: one key may hold several property
	// instances (list cardinality), each with its own id and meta-properties.
	Vertex Kind = iota

	// Edge is the single-valued kind: one key holds at most one entry.
	Edge
)

// Identity fields attached by Aggregate.
const (
	VertexIDField   = "_vId"
	EdgeIDField     = "_eId"
	RelationIDField = "_relationId"
)

// String returns "vertex" or "edge".
func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is Vertex or Edge.
func (k Kind) Valid() bool { return k == Vertex || k == Edge }

// MultiValued reports whether k supports list cardinality.
func (k Kind) MultiValued() bool { return k == Vertex }

// IdentityField returns the field Aggregate uses for the element id.
func (k Kind) IdentityField() string {
	if k == Edge {
		return EdgeIDField
	}
	return VertexIDField
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses "vertex"/"v" or "edge"/"e", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "v", "node":
		return Vertex, nil
	case "edge", "e", "relationship":
		return Edge, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Cardinality tells the store how a write interacts with existing entries
// for the same key.
type Cardinality uint8

const (
	// None is used for edges: a flat key/value assignment.
	None Cardinality = iota

	// Single replaces every existing instance of the key on a vertex.
	Single

	// List adds another instance of the key on a vertex.
	List
)

// String returns "none", "single" or "list".
func (c Cardinality) String() string {
	switch c {
	case None:
		return "none"
	case Single:
		return "single"
	case List:
		return "list"
	}
	return fmt.Sprintf("cardinality(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Cardinality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cardinality) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "none", "":
		*c = None
	case "single":
		*c = Single
	case "list":
		*c = List
	default:
		return fmt.Errorf("unknown cardinality %q", b)
	}
	return nil
}
