package graphprops

import (
	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// Meta-property fields the decoder attaches to each vertex property.
const (
	MetaIDField    = "_id"
	MetaKeyField   = "_key"
	MetaValueField = "_value"
	MetaTypeField  = "_type"

	MetaTypeSingle = "single"
	MetaTypeList   = "list"
)

// DecodedEntity is a vertex or edge with its property bag rebuilt.
type DecodedEntity struct {
	ID    value.Value
	Label string

	// OutV and InV are set for edges only.
	OutV value.Value
	InV  value.Value

	Properties value.Value

	// Meta mirrors Properties leaf for leaf with per-instance metadata.
	// It is set for vertices only.
	Meta value.Value
}

// ToValue renders the entity as {id, label, properties, _meta}. Edge
// endpoints are included when known.
func (d *DecodedEntity) ToValue() value.Value {
	if d == nil {
		return value.Null()
	}
	obj := value.NewObject().
		Set("id", d.ID).
		Set("label", value.String(d.Label))
	if !d.OutV.IsNil() {
		obj.Set("outV", d.OutV)
	}
	if !d.InV.IsNil() {
		obj.Set("inV", d.InV)
	}
	obj.Set("properties", d.Properties)
	if d.Meta.Kind() != value.KindUndefined {
		obj.Set("_meta", d.Meta)
	}
	return value.Obj(obj)
}

// MarshalJSON implements json.Marshaler.
func (d *DecodedEntity) MarshalJSON() ([]byte, error) {
	return value.Marshal(d.ToValue())
}

// DecodeVertex rebuilds a vertex's property bag and its parallel metadata
// tree. A key with several instances becomes an array; a key with one
// instance becomes a scalar. Each metadata leaf records the instance id,
// key, decoded value and cardinality, merged with the instance's own
// meta-properties. A nil record yields nil.
func (c *Codec) DecodeVertex(raw *RawVertex) *DecodedEntity {
	if raw == nil {
		return nil
	}

	dec := wireDecoder{c: c, kind: Vertex}
	props := flatpath.NewMap()
	meta := flatpath.NewMap()

	for _, g := range raw.Properties {
		switch len(g.Instances) {
		case 0:
			continue
		case 1:
			inst := g.Instances[0]
			v := dec.decode(g.Key, inst.Value)
			props.Set(g.Key, v)
			meta.Set(g.Key, value.Obj(instanceMeta(g.Key, inst, v, MetaTypeSingle)))
		default:
			values := make([]value.Value, len(g.Instances))
			metas := make([]value.Value, len(g.Instances))
			for i, inst := range g.Instances {
				values[i] = dec.decode(g.Key, inst.Value)
				metas[i] = value.Obj(instanceMeta(g.Key, inst, values[i], MetaTypeList))
			}
			props.Set(g.Key, value.List(values...))
			meta.Set(g.Key, value.List(metas...))
		}
	}
	dec.done("Codec.DecodeVertex")

	return &DecodedEntity{
		ID:         raw.ID,
		Label:      raw.Label,
		Properties: c.unflatten(props),
		Meta:       c.unflatten(meta),
	}
}

// DecodeEdge rebuilds an edge's property bag. Edges carry no metadata.
// A nil record yields nil.
func (c *Codec) DecodeEdge(raw *RawEdge) *DecodedEntity {
	if raw == nil {
		return nil
	}

	dec := wireDecoder{c: c, kind: Edge}
	props := flatpath.NewMap()
	raw.Properties.Range(func(key string, v value.Value) bool {
		props.Set(key, dec.decode(key, v))
		return true
	})
	dec.done("Codec.DecodeEdge")

	return &DecodedEntity{
		ID:         raw.ID,
		Label:      raw.Label,
		OutV:       raw.OutV,
		InV:        raw.InV,
		Properties: c.unflatten(props),
	}
}

// Sub-properties are merged last and overwrite the reserved fields in place.
func instanceMeta(key string, inst RawPropertyInstance, decoded value.Value, typ string) *value.Object {
	return value.NewObject().
		Set(MetaIDField, inst.ID).
		Set(MetaKeyField, value.String(key)).
		Set(MetaValueField, decoded).
		Set(MetaTypeField, value.String(typ)).
		Merge(inst.Properties)
}
