package protoconv

import (
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/graphprops/value"
)

const timestampName protoreflect.FullName = "google.protobuf.Timestamp"

// Option configures FromMessage.
type Option func(*options)

type options struct {
	skip      map[string]bool
	jsonNames bool
}

// SkipFields leaves the named top-level fields out of the bag. Names are
// matched against the proto field name (snake_case).
func SkipFields(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.skip[n] = true
		}
	}
}

// JSONNames keys the bag by lowerCamelCase JSON names instead of proto
// field names.
func JSONNames() Option {
	return func(o *options) {
		o.jsonNames = true
	}
}

// FromMessage converts a proto message to a property bag. Only fields that
// are set are included, in field declaration order.
func FromMessage(msg proto.Message, opts ...Option) (value.Value, error) {
	if msg == nil {
		return value.Undefined(), fmt.Errorf("proto message is nil")
	}
	o := options{skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}
	return fromMessage(msg.ProtoReflect(), o, true)
}

func fromMessage(m protoreflect.Message, o options, top bool) (value.Value, error) {
	desc := m.Descriptor()
	if desc.FullName() == timestampName {
		return fromTimestamp(m), nil
	}
	if sv, ok := m.Interface().(*structpb.Value); ok {
		return FromStruct(sv), nil
	}
	if st, ok := m.Interface().(*structpb.Struct); ok {
		return FromStruct(structpb.NewStructValue(st)), nil
	}

	obj := value.NewObject()
	fields := desc.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		name := string(fd.Name())
		if top && o.skip[name] {
			continue
		}
		if !m.Has(fd) {
			continue
		}
		v, err := fromField(fd, m.Get(fd), o)
		if err != nil {
			return value.Undefined(), fmt.Errorf("field %s: %w", name, err)
		}
		if o.jsonNames {
			name = fd.JSONName()
		}
		obj.Set(name, v)
	}
	return value.Obj(obj), nil
}

func fromField(fd protoreflect.FieldDescriptor, v protoreflect.Value, o options) (value.Value, error) {
	switch {
	case fd.IsList():
		list := v.List()
		items := make([]value.Value, list.Len())
		for i := 0; i < list.Len(); i++ {
			item, err := fromSingular(fd, list.Get(i), o)
			if err != nil {
				return value.Undefined(), err
			}
			items[i] = item
		}
		return value.List(items...), nil

	case fd.IsMap():
		entries := make(map[string]protoreflect.Value)
		var keys []string
		v.Map().Range(func(k protoreflect.MapKey, mv protoreflect.Value) bool {
			keys = append(keys, k.String())
			entries[k.String()] = mv
			return true
		})
		sort.Strings(keys)
		obj := value.NewObject()
		for _, k := range keys {
			item, err := fromSingular(fd.MapValue(), entries[k], o)
			if err != nil {
				return value.Undefined(), err
			}
			obj.Set(k, item)
		}
		return value.Obj(obj), nil
	}
	return fromSingular(fd, v, o)
}

func fromSingular(fd protoreflect.FieldDescriptor, v protoreflect.Value, o options) (value.Value, error) {
	switch fd.Kind() {
	case protoreflect.StringKind:
		return value.String(v.String()), nil

	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return value.Int(v.Int()), nil

	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return value.Number(float64(v.Uint())), nil

	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return value.Number(v.Float()), nil

	case protoreflect.BoolKind:
		return value.Bool(v.Bool()), nil

	case protoreflect.BytesKind:
		return value.String(base64.StdEncoding.EncodeToString(v.Bytes())), nil

	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return value.String(string(ev.Name())), nil
		}
		return value.Int(int64(v.Enum())), nil

	case protoreflect.MessageKind, protoreflect.GroupKind:
		return fromMessage(v.Message(), o, false)
	}
	return value.Undefined(), fmt.Errorf("unsupported field kind %v", fd.Kind())
}

// fromTimestamp reads seconds and nanos reflectively so dynamic messages
// work as well as generated ones.
func fromTimestamp(m protoreflect.Message) value.Value {
	fields := m.Descriptor().Fields()
	var secs, nanos int64
	if fd := fields.ByName("seconds"); fd != nil {
		secs = m.Get(fd).Int()
	}
	if fd := fields.ByName("nanos"); fd != nil {
		nanos = m.Get(fd).Int()
	}
	return value.Date(time.Unix(secs, nanos).UTC())
}
