// Package graphprops converts between nested application property objects
// and the flat, multi-valued property model of a property-graph store.
//
// A property-graph store only holds scalar properties, but a vertex key may
// carry several property instances, each with meta-properties of its own.
// Applications work with nested, typed objects. This package bridges the two.
//
// # Writing
//
// Codec.Encode flattens a property bag into dotted keys and emits one
// WriteInstruction per stored entry. Vertex arrays become one list-cardinality
// instruction per element; edge arrays become a single JSON text value.
// A metadata bag of the same shape supplies meta-properties per leaf:
//
//	codec := graphprops.New(graphprops.WithLogger(logger))
//
//	props := value.MustParseJSON(`{"name":"Alice","tags":["a","b"]}`)
//	meta := value.MustParseJSON(`{"tags":[{"source":"import"},{"source":"ui"}]}`)
//
//	instrs, err := codec.Encode(props, meta, graphprops.Vertex)
//	if err != nil {
//	    return err
//	}
//	if err := codec.Apply(ctx, store.Properties(graphprops.Vertex, id), instrs); err != nil {
//	    return err
//	}
//
// # Reading
//
// Codec.DecodeVertex and Codec.DecodeEdge rebuild the nested bag from a raw
// query record. Vertices also get a "_meta" tree that mirrors the properties
// and records each instance's id, key, value, cardinality and
// meta-properties. Codec.Aggregate does the same for a live property
// listing and exposes the instance ids under "_relationId".
//
// # Lossy boundaries
//
// Nulls and nested objects are stored as JSON text and Dates as epoch
// milliseconds. On the way back, JSON text is parsed and strict ISO-8601
// strings become Dates. See package coerce for the exact rules.
//
// # Observability
//
// A Codec logs dropped metadata and non-JSON stored values at debug level
// through log/slog and counts them with OpenTelemetry counters. Apply runs
// inside a trace span.
package graphprops
