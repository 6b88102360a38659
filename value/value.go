package value

import (
	"fmt"
	"time"
)

// Kind identifies which variant of the Value union is populated.
type Kind uint8

const (
	// KindUndefined is the zero Value. It marks an absent property and is
	// treated like null by the wire coercions.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindDate
	KindList
	KindObject

	// KindDict is a dictionary-typed mapping as handed back by graph drivers
	// (the analogue of a runtime Map). It is a leaf for path flattening and is
	// converted into plain objects by the normalize package.
	KindDict
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindDate:      "date",
	KindList:      "list",
	KindObject:    "object",
	KindDict:      "dict",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a closed tagged union over the values a property bag can hold.
// The zero Value is Undefined. Values are treated as immutable once built;
// functions in this module never mutate their inputs.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	t     time.Time
	items []Value
	obj   *Object
}

// Undefined returns the zero Value.
func Undefined() Value { return Value{} }

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer as a Number.
func Int(i int64) Value { return Value{kind: KindNumber, n: float64(i)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date wraps a point in time.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// List wraps a sequence of values. A nil argument yields an empty list.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, items: items}
}

// Obj wraps an ordered object. A nil argument yields an empty object.
func Obj(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Dict wraps an ordered mapping as a dictionary-typed value.
func Dict(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindDict, obj: o}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is Undefined or Null.
func (v Value) IsNil() bool { return v.kind == KindUndefined || v.kind == KindNull }

// IsContainer reports whether v is a List, Object or Dict.
func (v Value) IsContainer() bool {
	return v.kind == KindList || v.kind == KindObject || v.kind == KindDict
}

// Bool returns the boolean payload, or false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Float returns the numeric payload, or 0 for other kinds.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// Str returns the string payload, or "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Time returns the date payload, or the zero time for other kinds.
func (v Value) Time() time.Time {
	if v.kind != KindDate {
		return time.Time{}
	}
	return v.t
}

// Items returns the elements of a List. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.items
}

// Object returns the mapping behind an Object or Dict value.
func (v Value) Object() *Object {
	if v.kind != KindObject && v.kind != KindDict {
		return nil
	}
	return v.obj
}

// Len returns the number of elements or entries of a container and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindObject, KindDict:
		return v.obj.Len()
	}
	return 0
}

// String renders v as JSON text. It is meant for logs and test failures.
func (v Value) String() string {
	b, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(b)
}

// Equal reports whether a and b are structurally equal. Dates compare by
// instant and object keys compare without regard to order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindDate:
		return a.t.Equal(b.t)
	case KindList:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject, KindDict:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Range(func(key string, av Value) bool {
			bv, ok := b.obj.Get(key)
			if !ok || !Equal(av, bv) {
				equal = false
			}
			return equal
		})
		return equal
	}
	return false
}
