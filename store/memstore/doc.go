// Package memstore is an in-memory property-graph store.
//
// It implements the property semantics of a multi-valued graph: single
// cardinality replaces every instance of a key, list cardinality appends
// another instance, and each instance keeps its own id and meta-properties.
// Edge properties are single valued. The store is safe for concurrent use.
package memstore
