// Package normalize turns query results that contain dictionary values into
// plain, JSON-compatible trees.
//
// Graph drivers hand back projections as dictionaries (ordered maps that are
// not plain objects), nested to a depth that is only known at run time.
// Normalize repeatedly flattens the tree, replaces every dictionary leaf
// with a one-level object copy and rebuilds the tree, until no dictionary
// is left:
//
//	rows := normalize.Normalize(result)
//	out, err := value.Marshal(rows)
//
// The loop is bounded by the depth of the deepest dictionary chain, so it
// always terminates.
package normalize
