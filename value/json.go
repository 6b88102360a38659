package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// DateLayout is the textual form of a Date inside JSON text: UTC with
// millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Marshal renders v as compact JSON text.
//
// Objects and Dicts are written in key order. Undefined entries are skipped
// inside objects and written as null elsewhere. Dates use DateLayout and
// non-finite numbers are written as null.
func Marshal(v Value) ([]byte, error) {
	return appendJSON(nil, v)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseJSON parses a single JSON document into a Value. Object key order is
// preserved and duplicate keys keep the last value at the first position.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("invalid JSON: trailing data after value")
	}
	return v, nil
}

// MustParseJSON is like ParseJSON but panics on error. It is intended for
// literals in tests and examples.
func MustParseJSON(s string) Value {
	v, err := ParseJSON([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("value: MustParseJSON(%q): %v", s, err))
	}
	return v
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("invalid JSON: object key %v", keyTok)
				}
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Obj(obj), nil
		case '[':
			items := []Value{}
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		}
		return Value{}, fmt.Errorf("invalid JSON: unexpected delimiter %v", t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid JSON number %q: %w", t, err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("invalid JSON: unexpected token %v", tok)
}

func appendJSON(b []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindUndefined, KindNull:
		return append(b, "null"...), nil
	case KindBool:
		return strconv.AppendBool(b, v.b), nil
	case KindNumber:
		return appendNumber(b, v.n), nil
	case KindString:
		return appendString(b, v.s), nil
	case KindDate:
		return appendString(b, FormatDate(v.t)), nil
	case KindList:
		b = append(b, '[')
		for i, item := range v.items {
			if i > 0 {
				b = append(b, ',')
			}
			var err error
			if b, err = appendJSON(b, item); err != nil {
				return nil, err
			}
		}
		return append(b, ']'), nil
	case KindObject, KindDict:
		b = append(b, '{')
		first := true
		var err error
		v.obj.Range(func(key string, elem Value) bool {
			if elem.kind == KindUndefined {
				return true
			}
			if !first {
				b = append(b, ',')
			}
			first = false
			b = appendString(b, key)
			b = append(b, ':')
			b, err = appendJSON(b, elem)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return append(b, '}'), nil
	}
	return nil, fmt.Errorf("value: cannot marshal %s", v.kind)
}

// FormatDate renders t the way dates appear inside JSON text.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// appendNumber mirrors encoding/json float formatting, which matches the
// shortest round-trip form used by JSON.stringify.
func appendNumber(b []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(b, "null"...)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b
}

const hexDigits = "0123456789abcdef"

func appendString(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				b = append(b, '\\', c)
			case c == '\n':
				b = append(b, '\\', 'n')
			case c == '\r':
				b = append(b, '\\', 'r')
			case c == '\t':
				b = append(b, '\\', 't')
			case c == '\b':
				b = append(b, '\\', 'b')
			case c == '\f':
				b = append(b, '\\', 'f')
			case c < 0x20:
				b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			default:
				b = append(b, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b = append(b, "\ufffd"...)
		} else {
			b = append(b, s[i:i+size]...)
		}
		i += size
	}
	return append(b, '"')
}
