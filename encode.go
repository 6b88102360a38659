package graphprops

import (
	"fmt"
	"strconv"

	"github.com/zero-day-ai/graphprops/coerce"
	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// Encode converts a nested property bag, plus an optional metadata bag of
// the same shape, into the ordered list of write instructions for an element
// of the given kind.
//
// A nil (Undefined or Null) bag yields no instructions. A bag that is not an
// object is rejected with ErrInvalidProps before anything is emitted.
// Metadata fields that are not strings, numbers, booleans or dates are
// dropped.
//
// For a vertex, every element of an array becomes its own list-cardinality
// instruction and other leaves get single cardinality. For an edge, every
// leaf is a single instruction and arrays are stored as JSON text.
func (c *Codec) Encode(props, meta value.Value, kind Kind) ([]WriteInstruction, error) {
	const op = "Codec.Encode"

	if props.IsNil() {
		return nil, nil
	}
	if props.Kind() != value.KindObject {
		return nil, NewValidationError(op, fmt.Errorf("%w: got %s", ErrInvalidProps, props.Kind()))
	}
	if !kind.Valid() {
		return nil, NewValidationError(op, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind)))
	}

	e := encoder{kind: kind}
	for _, leaf := range flatpath.Flatten(props, c.flattenOptions()...).Entries() {
		e.leaf(leaf, lookupMeta(meta, leaf.Path))
	}

	c.metrics.instructionsEmitted(len(e.out), kind)
	if len(e.dropped) > 0 {
		c.metrics.metadataDropped(len(e.dropped), kind)
		c.logger.Debug("dropped metadata fields with unsupported types",
			"kind", kind.String(),
			"fields", e.dropped)
	}
	return e.out, nil
}

type encoder struct {
	kind    Kind
	out     []WriteInstruction
	dropped []string
}

func (e *encoder) leaf(leaf flatpath.Entry, meta value.Value) {
	if leaf.Value.Kind() != value.KindList {
		card := Single
		if e.kind == Edge {
			card = None
		}
		e.emit(leaf, coerce.ToWire(leaf.Value), card, meta)
		return
	}

	if e.kind == Edge {
		e.emit(leaf, listText(leaf.Value), None, meta)
		return
	}

	for i, item := range leaf.Value.Items() {
		e.emit(leaf, coerce.ToWire(item), List, elementMeta(meta, i))
	}
}

func (e *encoder) emit(leaf flatpath.Entry, v value.Value, card Cardinality, meta value.Value) {
	e.out = append(e.out, WriteInstruction{
		Key:         leaf.Key,
		Path:        leaf.Path,
		Value:       v,
		Cardinality: card,
		Meta:        e.metaPairs(leaf.Key, meta),
	})
}

func (e *encoder) metaPairs(key string, meta value.Value) []MetaPair {
	if meta.Kind() != value.KindObject && meta.Kind() != value.KindDict {
		return nil
	}
	var pairs []MetaPair
	meta.Object().Range(func(name string, v value.Value) bool {
		mv, ok := coerce.ToMeta(v)
		if !ok {
			e.dropped = append(e.dropped, key+"@"+name)
			return true
		}
		pairs = append(pairs, MetaPair{Name: name, Value: mv})
		return true
	})
	return pairs
}

// listText renders an edge array as JSON text. Top-level Dates are stored
// as epoch milliseconds first, matching scalar Date leaves.
func listText(list value.Value) value.Value {
	items := list.Items()
	out := make([]value.Value, len(items))
	for i, item := range items {
		if item.Kind() == value.KindDate {
			item = value.Int(item.Time().UnixMilli())
		}
		out[i] = item
	}
	return value.String(value.List(out...).String())
}

// lookupMeta walks the metadata tree along a leaf path.
func lookupMeta(meta value.Value, path flatpath.Path) value.Value {
	cur := meta
	for _, seg := range path {
		switch cur.Kind() {
		case value.KindObject, value.KindDict:
			next, ok := cur.Object().Get(seg.String())
			if !ok {
				return value.Undefined()
			}
			cur = next
		case value.KindList:
			if !seg.IsIndex() || seg.Int() >= cur.Len() {
				return value.Undefined()
			}
			cur = cur.Items()[seg.Int()]
		default:
			return value.Undefined()
		}
	}
	return cur
}

// elementMeta selects the metadata for array element i: meta[key] may be an
// array indexed by position or an object keyed by the position's decimal form.
func elementMeta(meta value.Value, i int) value.Value {
	switch meta.Kind() {
	case value.KindList:
		if i < meta.Len() {
			return meta.Items()[i]
		}
	case value.KindObject, value.KindDict:
		if v, ok := meta.Object().Get(strconv.Itoa(i)); ok {
			return v
		}
	}
	return value.Undefined()
}
