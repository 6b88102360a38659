package graphprops

import "github.com/zero-day-ai/graphprops/value"

// NodesFromResult shapes projected node rows into plain objects:
//
//	{"id": .., "label": .., "properties": {..}, "edges": [..]}
//
// Rows are usually dictionaries returned by a driver; "properties" is
// copied one level deep and "edges" is shaped with EdgesFromResult.
func NodesFromResult(rows []value.Value) []value.Value {
	out := make([]value.Value, 0, len(rows))
	for _, row := range rows {
		obj := row.Object()
		out = append(out, value.Obj(value.NewObject().
			Set("id", field(obj, "id")).
			Set("label", field(obj, "label")).
			Set("properties", value.Shallow(field(obj, "properties"))).
			Set("edges", value.List(EdgesFromResult(field(obj, "edges").Items())...))))
	}
	return out
}

// EdgesFromResult shapes projected edge rows into plain objects:
//
//	{"id": "..", "from": .., "to": .., "label": .., "properties": {..}}
//
// An id that is not a string, such as a composite relation id, is rendered
// as its JSON text.
func EdgesFromResult(rows []value.Value) []value.Value {
	out := make([]value.Value, 0, len(rows))
	for _, row := range rows {
		obj := row.Object()
		id := field(obj, "id")
		if id.Kind() != value.KindString && id.Kind() != value.KindUndefined {
			id = value.String(id.String())
		}
		out = append(out, value.Obj(value.NewObject().
			Set("id", id).
			Set("from", field(obj, "from")).
			Set("to", field(obj, "to")).
			Set("label", field(obj, "label")).
			Set("properties", value.Shallow(field(obj, "properties")))))
	}
	return out
}
