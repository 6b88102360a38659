package coerce

import (
	"github.com/zero-day-ai/graphprops/value"
)

// NullText is the wire form of Null and Undefined.
const NullText = "null"

// Option configures FromWire.
type Option func(*options)

type options struct {
	dates bool
}

// WithoutDates disables the date heuristic in FromWire.
func WithoutDates() Option {
	return func(o *options) {
		o.dates = false
	}
}

// ToWire maps an application value to a value the store accepts as a
// property: Undefined and Null become the text "null", containers become
// their JSON text, Dates become epoch milliseconds and other scalars pass
// through unchanged.
func ToWire(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return value.String(NullText)
	case value.KindDate:
		return value.Int(v.Time().UnixMilli())
	case value.KindObject, value.KindDict, value.KindList:
		return value.String(v.String())
	}
	return v
}

// FromWire maps a stored property value back to an application value.
// Strings are parsed as JSON and kept verbatim when they are not JSON. A
// resulting string in strict ISO-8601 form becomes a Date. Non-string
// values pass through.
func FromWire(v value.Value, opts ...Option) value.Value {
	out, _ := FromWireChecked(v, opts...)
	return out
}

// FromWireChecked is FromWire that also reports whether a string input was
// valid JSON. A false result is not an error; the raw text is used.
func FromWireChecked(v value.Value, opts ...Option) (value.Value, bool) {
	o := options{dates: true}
	for _, opt := range opts {
		opt(&o)
	}

	if v.Kind() != value.KindString {
		return v, true
	}

	out, ok := ParseJSON(v.Str())
	if o.dates && out.Kind() == value.KindString {
		if t, isDate := ParseDate(out.Str()); isDate {
			out = value.Date(t)
		}
	}
	return out, ok
}

// ParseJSON parses s as JSON. When s is empty or not valid JSON it returns
// s itself as a String and ok is false for the invalid case.
func ParseJSON(s string) (v value.Value, ok bool) {
	if s == "" {
		return value.String(s), true
	}
	parsed, err := value.ParseJSON([]byte(s))
	if err != nil {
		return value.String(s), false
	}
	return parsed, true
}

// ToMeta filters a metadata value. Strings, Numbers and Bools pass through,
// Dates become epoch milliseconds like primary data does, and every other
// kind is rejected.
func ToMeta(v value.Value) (value.Value, bool) {
	switch v.Kind() {
	case value.KindString, value.KindNumber, value.KindBool:
		return v, true
	case value.KindDate:
		return value.Int(v.Time().UnixMilli()), true
	}
	return value.Value{}, false
}
