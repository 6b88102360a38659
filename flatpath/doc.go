// Package flatpath converts nested property values into flat, path-keyed
// maps and back.
//
// A graph store only accepts flat keys, so a bag such as
//
//	{"address": {"city": "Oslo", "zip": "0150"}, "tags": ["a", "b"]}
//
// flattens to the ordered entries
//
//	address.city = "Oslo"
//	address.zip  = "0150"
//	tags.0       = "a"
//	tags.1       = "b"
//
// or, with AtomicArrays, to address.city, address.zip and tags = ["a","b"].
// Entry order is a pre-order depth-first walk of the input and is stable
// across runs.
//
// Unflatten is the inverse. Entries produced by Flatten carry typed paths
// and rebuild the original tree exactly; entries added by key alone are
// split on the delimiter, and numeric segments that form a contiguous
// 0..n-1 set become list positions.
package flatpath
