// Package protoconv converts between property values and protocol buffer
// types.
//
// FromMessage walks any proto message with protoreflect and returns its set
// fields as a property bag ready for graphprops.Codec.Encode. Nested
// messages become objects, repeated fields become lists, maps become objects
// with sorted keys, enums become their names and google.protobuf.Timestamp
// becomes a Date.
//
//	bag, err := protoconv.FromMessage(host, protoconv.SkipFields("id"))
//	instrs, err := codec.Encode(bag, value.Undefined(), graphprops.Vertex)
//
// ToStruct and FromStruct map values to and from google.protobuf.Value, for
// handing normalized query results to protobuf consumers. The mapping goes
// through protojson text in MarshalJSON and UnmarshalJSON.
//
// google.protobuf.Struct has no key order, so object key order is not kept
// across ToStruct; FromStruct sorts keys to stay deterministic.
package protoconv
