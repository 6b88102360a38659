// Package redisstore is a property-graph store backed by Redis.
//
// Each element is a hash holding its label (and, for edges, its endpoints).
// Property keys are kept in write order in a list, and every key maps to a
// list of JSON-encoded instances:
//
//	<prefix>:v:<id>            hash   label
//	<prefix>:e:<id>            hash   label, out, in
//	<prefix>:v:<id>:keys       list   property keys in first-write order
//	<prefix>:v:<id>:keyset     set    the same keys, for membership tests
//	<prefix>:v:<id>:p:<key>    list   {"id":..,"value":..,"meta":{..}}
//
// Property writes and drops run as Lua scripts so no client observes a
// half-updated key.
package redisstore
