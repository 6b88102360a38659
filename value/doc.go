// Package value defines the property value model shared by the graphprops
// packages.
//
// A Value is a closed tagged union: Undefined, Null, Bool, Number, String,
// Date, List, Object and Dict. Every consumer dispatches on Kind; there is no
// runtime probing of arbitrary Go types outside FromAny.
//
// Objects keep insertion order. That order is the pre-order traversal used
// when a property bag is flattened, and therefore the order in which property
// writes reach the store:
//
//	props := value.Obj(value.NewObject().
//	    Set("name", value.String("Alice")).
//	    Set("born", value.Date(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC))).
//	    Set("tags", value.List(value.String("a"), value.String("b"))))
//
// Dict marks a dictionary-typed mapping produced by a graph driver. It
// marshals like an Object but is treated as an opaque leaf by path
// flattening until the normalize package converts it.
package value
