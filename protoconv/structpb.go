package protoconv

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/graphprops/value"
)

// ToStruct converts v to a google.protobuf.Value. Undefined and Null map to
// null, Dates to their ISO-8601 text, and Objects and Dicts to Structs.
// Undefined object fields are left out.
func ToStruct(v value.Value) *structpb.Value {
	switch v.Kind() {
	case value.KindBool:
		return structpb.NewBoolValue(v.Bool())
	case value.KindNumber:
		return structpb.NewNumberValue(v.Float())
	case value.KindString:
		return structpb.NewStringValue(v.Str())
	case value.KindDate:
		return structpb.NewStringValue(value.FormatDate(v.Time()))
	case value.KindList:
		items := make([]*structpb.Value, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = ToStruct(item)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items})
	case value.KindObject, value.KindDict:
		fields := make(map[string]*structpb.Value, v.Len())
		v.Object().Range(func(k string, item value.Value) bool {
			if item.Kind() != value.KindUndefined {
				fields[k] = ToStruct(item)
			}
			return true
		})
		return structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return structpb.NewNullValue()
}

// FromStruct converts a google.protobuf.Value to a value. Struct keys are
// emitted in sorted order. A nil input yields Undefined.
func FromStruct(pv *structpb.Value) value.Value {
	if pv == nil {
		return value.Undefined()
	}
	switch k := pv.GetKind().(type) {
	case *structpb.Value_NullValue:
		return value.Null()
	case *structpb.Value_BoolValue:
		return value.Bool(k.BoolValue)
	case *structpb.Value_NumberValue:
		return value.Number(k.NumberValue)
	case *structpb.Value_StringValue:
		return value.String(k.StringValue)
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		items := make([]value.Value, len(values))
		for i, item := range values {
			items[i] = FromStruct(item)
		}
		return value.List(items...)
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		obj := value.NewObject()
		for _, key := range keys {
			obj.Set(key, FromStruct(fields[key]))
		}
		return value.Obj(obj)
	}
	return value.Undefined()
}

// MarshalJSON renders v as protojson text of a google.protobuf.Value.
func MarshalJSON(v value.Value) ([]byte, error) {
	b, err := protojson.Marshal(ToStruct(v))
	if err != nil {
		return nil, fmt.Errorf("protojson marshal: %w", err)
	}
	return b, nil
}

// UnmarshalJSON parses protojson text of a google.protobuf.Value.
func UnmarshalJSON(data []byte) (value.Value, error) {
	var pv structpb.Value
	if err := protojson.Unmarshal(data, &pv); err != nil {
		return value.Undefined(), fmt.Errorf("protojson unmarshal: %w", err)
	}
	return FromStruct(&pv), nil
}

// Marshal encodes v in the protobuf binary format of google.protobuf.Value.
func Marshal(v value.Value) ([]byte, error) {
	b, err := proto.Marshal(ToStruct(v))
	if err != nil {
		return nil, fmt.Errorf("proto marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes the protobuf binary format of google.protobuf.Value.
func Unmarshal(data []byte) (value.Value, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return value.Undefined(), fmt.Errorf("proto unmarshal: %w", err)
	}
	return FromStruct(&pv), nil
}
