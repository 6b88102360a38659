package redisstore

import (
	"fmt"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/value"
)

// storedInstance is one property instance as kept in a property list.
type storedInstance struct {
	ID    string
	Value value.Value
	Meta  []graphprops.MetaPair
}

func encodeInstance(inst storedInstance) (string, error) {
	obj := value.NewObject().
		Set("id", value.String(inst.ID)).
		Set("value", inst.Value)
	if len(inst.Meta) > 0 {
		meta := value.NewObject()
		for _, p := range inst.Meta {
			meta.Set(p.Name, p.Value)
		}
		obj.Set("meta", value.Obj(meta))
	}
	b, err := value.Marshal(value.Obj(obj))
	if err != nil {
		return "", fmt.Errorf("encode property instance: %w", err)
	}
	return string(b), nil
}

func decodeInstance(data string) (storedInstance, error) {
	v, err := value.ParseJSON([]byte(data))
	if err != nil {
		return storedInstance{}, fmt.Errorf("decode property instance: %w", err)
	}
	obj := v.Object()
	if obj == nil {
		return storedInstance{}, fmt.Errorf("decode property instance: %w", graphprops.ErrMalformedRecord)
	}

	id, _ := obj.Get("id")
	val, ok := obj.Get("value")
	if id.Kind() != value.KindString || !ok {
		return storedInstance{}, fmt.Errorf("decode property instance: %w", graphprops.ErrMalformedRecord)
	}

	inst := storedInstance{ID: id.Str(), Value: val}
	if meta, ok := obj.Get("meta"); ok && meta.Object() != nil {
		meta.Object().Range(func(name string, mv value.Value) bool {
			inst.Meta = append(inst.Meta, graphprops.MetaPair{Name: name, Value: mv})
			return true
		})
	}
	return inst, nil
}

func (i storedInstance) raw(key string) graphprops.RawPropertyInstance {
	out := graphprops.RawPropertyInstance{ID: value.String(i.ID), Key: key, Value: i.Value}
	if len(i.Meta) > 0 {
		out.Properties = value.NewObject()
		for _, p := range i.Meta {
			out.Properties.Set(p.Name, p.Value)
		}
	}
	return out
}

func kindTag(kind graphprops.Kind) string {
	if kind == graphprops.Edge {
		return "e"
	}
	return "v"
}

func (s *Store) elementKey(kind graphprops.Kind, id string) string {
	return s.prefix + ":" + kindTag(kind) + ":" + id
}

func (s *Store) keysKey(kind graphprops.Kind, id string) string {
	return s.elementKey(kind, id) + ":keys"
}

func (s *Store) keysetKey(kind graphprops.Kind, id string) string {
	return s.elementKey(kind, id) + ":keyset"
}

func (s *Store) propKey(kind graphprops.Kind, id, key string) string {
	return s.elementKey(kind, id) + ":p:" + key
}

// propertyKeys returns the KEYS argument shared by the property scripts.
func (s *Store) propertyKeys(kind graphprops.Kind, id, key string) []string {
	return []string{
		s.elementKey(kind, id),
		s.keysKey(kind, id),
		s.keysetKey(kind, id),
		s.propKey(kind, id, key),
	}
}
