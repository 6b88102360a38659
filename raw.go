package graphprops

import (
	"fmt"

	"github.com/zero-day-ai/graphprops/value"
)

// RawPropertyInstance is one physical property entry as a store reports it.
type RawPropertyInstance struct {
	// ID is the store-assigned instance id. Some stores report a composite
	// id object carrying a "relationId" field.
	ID    value.Value
	Key   string
	Value value.Value

	// Properties holds the instance's meta-properties, if any.
	Properties *value.Object
}

// PropertyGroup is every instance stored under one key, in store order.
type PropertyGroup struct {
	Key       string
	Instances []RawPropertyInstance
}

// RawVertex is a vertex as returned by a query.
type RawVertex struct {
	ID         value.Value
	Label      string
	Properties []PropertyGroup
}

// RawEdge is an edge as returned by a query. Edge properties are single
// valued, so they map key to wire value directly.
type RawEdge struct {
	ID         value.Value
	Label      string
	OutV       value.Value
	InV        value.Value
	Properties *value.Object
}

// RelationID returns the identifier to expose for an instance or element id:
// the "relationId" field of a composite id object, or the id itself.
func RelationID(id value.Value) value.Value {
	if id.Kind() == value.KindObject || id.Kind() == value.KindDict {
		if rel, ok := id.Object().Get("relationId"); ok {
			return rel
		}
	}
	return id
}

// ParseRawVertex reads a vertex record shaped
//
//	{"id": .., "label": "..", "properties": {"key": [{"id": .., "value": .., "properties": {..}}]}}
//
// A nil record yields nil. A single instance object in place of the array
// is accepted, as is a bare value (an instance without id).
func ParseRawVertex(rec value.Value) (*RawVertex, error) {
	if rec.IsNil() {
		return nil, nil
	}
	obj, err := recordObject("vertex", rec)
	if err != nil {
		return nil, err
	}

	raw := &RawVertex{ID: field(obj, "id"), Label: field(obj, "label").Str()}

	var parseErr error
	field(obj, "properties").Object().Range(func(key string, group value.Value) bool {
		g := PropertyGroup{Key: key}
		items := []value.Value{group}
		if group.Kind() == value.KindList {
			items = group.Items()
		}
		for _, item := range items {
			inst, err := parseInstance(key, item)
			if err != nil {
				parseErr = err
				return false
			}
			g.Instances = append(g.Instances, inst)
		}
		raw.Properties = append(raw.Properties, g)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return raw, nil
}

// ParseRawEdge reads an edge record shaped
//
//	{"id": .., "label": "..", "outV": .., "inV": .., "properties": {"key": wire}}
//
// A property given in store form ({"key": .., "value": ..}) is unwrapped.
func ParseRawEdge(rec value.Value) (*RawEdge, error) {
	if rec.IsNil() {
		return nil, nil
	}
	obj, err := recordObject("edge", rec)
	if err != nil {
		return nil, err
	}

	raw := &RawEdge{
		ID:         field(obj, "id"),
		Label:      field(obj, "label").Str(),
		OutV:       field(obj, "outV"),
		InV:        field(obj, "inV"),
		Properties: value.NewObject(),
	}
	field(obj, "properties").Object().Range(func(key string, v value.Value) bool {
		if v.Kind() == value.KindObject && v.Object().Has("value") {
			v = field(v.Object(), "value")
		}
		raw.Properties.Set(key, v)
		return true
	})
	return raw, nil
}

// ParseListing reads a live property listing: an array of
// {"id": .., "key": "..", "value": .., "properties": {..}} records. "label"
// is accepted in place of "key".
func ParseListing(rec value.Value) ([]RawPropertyInstance, error) {
	if rec.IsNil() {
		return nil, nil
	}
	if rec.Kind() != value.KindList {
		return nil, fmt.Errorf("%w: listing must be an array, got %s", ErrMalformedRecord, rec.Kind())
	}
	out := make([]RawPropertyInstance, 0, rec.Len())
	for i, item := range rec.Items() {
		if item.Kind() != value.KindObject && item.Kind() != value.KindDict {
			return nil, fmt.Errorf("%w: listing entry %d is %s", ErrMalformedRecord, i, item.Kind())
		}
		key := field(item.Object(), "key")
		if key.Kind() != value.KindString {
			key = field(item.Object(), "label")
		}
		if key.Kind() != value.KindString {
			return nil, fmt.Errorf("%w: listing entry %d has no key", ErrMalformedRecord, i)
		}
		inst, err := parseInstance(key.Str(), item)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func parseInstance(key string, item value.Value) (RawPropertyInstance, error) {
	if item.Kind() != value.KindObject && item.Kind() != value.KindDict {
		return RawPropertyInstance{Key: key, Value: item}, nil
	}
	obj := item.Object()
	if !obj.Has("value") {
		return RawPropertyInstance{}, fmt.Errorf("%w: instance of %q has no value", ErrMalformedRecord, key)
	}
	inst := RawPropertyInstance{
		ID:    field(obj, "id"),
		Key:   key,
		Value: field(obj, "value"),
	}
	if props := field(obj, "properties"); props.Object().Len() > 0 {
		inst.Properties = props.Object().Clone()
	}
	return inst, nil
}

func recordObject(what string, rec value.Value) (*value.Object, error) {
	if rec.Kind() != value.KindObject && rec.Kind() != value.KindDict {
		return nil, fmt.Errorf("%w: %s record must be an object, got %s", ErrMalformedRecord, what, rec.Kind())
	}
	return rec.Object(), nil
}

func field(obj *value.Object, key string) value.Value {
	v, _ := obj.Get(key)
	return v
}

// ToValue renders the instance in listing form.
func (r RawPropertyInstance) ToValue() value.Value {
	obj := value.NewObject().
		Set("id", r.ID).
		Set("key", value.String(r.Key)).
		Set("value", r.Value)
	if r.Properties.Len() > 0 {
		obj.Set("properties", value.Obj(r.Properties.Clone()))
	}
	return value.Obj(obj)
}

// ToValue renders the vertex in the shape ParseRawVertex reads.
func (r *RawVertex) ToValue() value.Value {
	props := value.NewObject()
	for _, g := range r.Properties {
		items := make([]value.Value, 0, len(g.Instances))
		for _, inst := range g.Instances {
			obj := value.NewObject().Set("id", inst.ID).Set("value", inst.Value)
			if inst.Properties.Len() > 0 {
				obj.Set("properties", value.Obj(inst.Properties.Clone()))
			}
			items = append(items, value.Obj(obj))
		}
		props.Set(g.Key, value.List(items...))
	}
	return value.Obj(value.NewObject().
		Set("id", r.ID).
		Set("label", value.String(r.Label)).
		Set("properties", value.Obj(props)))
}

// ToValue renders the edge in the shape ParseRawEdge reads.
func (r *RawEdge) ToValue() value.Value {
	return value.Obj(value.NewObject().
		Set("id", r.ID).
		Set("label", value.String(r.Label)).
		Set("outV", r.OutV).
		Set("inV", r.InV).
		Set("properties", value.Obj(r.Properties.Clone())))
}

// MarshalJSON implements json.Marshaler.
func (r *RawVertex) MarshalJSON() ([]byte, error) { return value.Marshal(r.ToValue()) }

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawVertex) UnmarshalJSON(data []byte) error {
	rec, err := value.ParseJSON(data)
	if err != nil {
		return err
	}
	parsed, err := ParseRawVertex(rec)
	if err != nil {
		return err
	}
	if parsed == nil {
		parsed = &RawVertex{}
	}
	*r = *parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r *RawEdge) MarshalJSON() ([]byte, error) { return value.Marshal(r.ToValue()) }

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawEdge) UnmarshalJSON(data []byte) error {
	rec, err := value.ParseJSON(data)
	if err != nil {
		return err
	}
	parsed, err := ParseRawEdge(rec)
	if err != nil {
		return err
	}
	if parsed == nil {
		parsed = &RawEdge{}
	}
	*r = *parsed
	return nil
}
