package graphprops

import (
	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// Aggregate assembles the live property listing of one element into a
// nested object of the form
//
//	{"_vId": id, ...properties, "_relationId": {...}}
//
// for vertices and {"_eId": id, ...properties} for edges. Instances are
// grouped by key in order of first appearance. A key with one instance maps
// to its decoded value, a key with several maps to an array. For vertices,
// "_relationId" mirrors the property tree with the instance ids.
//
// An Undefined or Null id yields Null.
func (c *Codec) Aggregate(id value.Value, kind Kind, listing []RawPropertyInstance) value.Value {
	if id.IsNil() {
		return value.Null()
	}

	var order []string
	groups := make(map[string][]RawPropertyInstance)
	for _, inst := range listing {
		if _, seen := groups[inst.Key]; !seen {
			order = append(order, inst.Key)
		}
		groups[inst.Key] = append(groups[inst.Key], inst)
	}

	dec := wireDecoder{c: c, kind: kind}
	props := flatpath.NewMap()
	rels := flatpath.NewMap()
	for _, key := range order {
		insts := groups[key]
		if len(insts) == 1 {
			props.Set(key, dec.decode(key, insts[0].Value))
			rels.Set(key, RelationID(insts[0].ID))
			continue
		}
		values := make([]value.Value, len(insts))
		ids := make([]value.Value, len(insts))
		for i, inst := range insts {
			values[i] = dec.decode(key, inst.Value)
			ids[i] = RelationID(inst.ID)
		}
		props.Set(key, value.List(values...))
		rels.Set(key, value.List(ids...))
	}
	dec.done("Codec.Aggregate")

	out := value.NewObject().Set(kind.IdentityField(), id)
	out.Merge(c.unflatten(props).Object())
	if kind == Vertex && rels.Len() > 0 {
		out.Set(RelationIDField, c.unflatten(rels))
	}
	return value.Obj(out)
}
