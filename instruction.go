package graphprops

import (
	"context"

	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// MetaPair is one meta-property attached to a property write.
type MetaPair struct {
	Name  string
	Value value.Value
}

// WriteInstruction is one property mutation produced by Codec.Encode.
// Instructions must be submitted in slice order; list-cardinality writes to
// the same key rely on it.
type WriteInstruction struct {
	// Key is the flattened property key.
	Key string

	// Path holds the typed segments behind Key.
	Path flatpath.Path

	// Value is a store-safe scalar: string, number or bool.
	Value value.Value

	Cardinality Cardinality

	// Meta lists meta-properties in metadata-bag order.
	Meta []MetaPair
}

// MetaObject returns the meta-properties as an ordered object.
func (w WriteInstruction) MetaObject() *value.Object {
	obj := value.NewObject()
	for _, p := range w.Meta {
		obj.Set(p.Name, p.Value)
	}
	return obj
}

// ToValue renders the instruction as {key, value, cardinality, meta?}.
func (w WriteInstruction) ToValue() value.Value {
	obj := value.NewObject().
		Set("key", value.String(w.Key)).
		Set("value", w.Value).
		Set("cardinality", value.String(w.Cardinality.String()))
	if len(w.Meta) > 0 {
		obj.Set("meta", value.Obj(w.MetaObject()))
	}
	return value.Obj(obj)
}

// MarshalJSON implements json.Marshaler.
func (w WriteInstruction) MarshalJSON() ([]byte, error) {
	return value.Marshal(w.ToValue())
}

// Mutator is the write side of a graph element. A store hands one out per
// element; Apply feeds it encoded instructions.
type Mutator interface {
	SetProperty(ctx context.Context, key string, v value.Value, card Cardinality, meta []MetaPair) error
}

// MutatorFunc adapts a function to the Mutator interface.
type MutatorFunc func(ctx context.Context, key string, v value.Value, card Cardinality, meta []MetaPair) error

// SetProperty calls f.
func (f MutatorFunc) SetProperty(ctx context.Context, key string, v value.Value, card Cardinality, meta []MetaPair) error {
	return f(ctx, key, v, card, meta)
}
