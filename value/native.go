package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// FromAny converts a native Go value into a Value.
//
// Supported inputs are nil, Value, *Object, bool, all integer and float
// types, json.Number, string, time.Time, slices and arrays, and maps with
// string keys. Go maps carry no order, so their keys are sorted to keep
// flattening deterministic. Anything else is rendered with fmt.Sprint.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Object:
		return Obj(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case time.Time:
		return Date(t)
	case *time.Time:
		if t == nil {
			return Null()
		}
		return Date(*t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return String(string(t))
		}
		return Number(f)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return List(items...)
	case map[string]any:
		obj := NewObject()
		for _, k := range sortedKeys(t) {
			obj.Set(k, FromAny(t[k]))
		}
		return Obj(obj)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return Obj(obj)
	}
	return String(fmt.Sprint(x))
}

// ToAny converts v into plain Go values: nil, bool, float64, string,
// time.Time, []any and map[string]any. Dicts become maps as well.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindDate:
		return v.t
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = ToAny(item)
		}
		return out
	case KindObject, KindDict:
		out := make(map[string]any, v.obj.Len())
		v.obj.Range(func(k string, e Value) bool {
			out[k] = ToAny(e)
			return true
		})
		return out
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
