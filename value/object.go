package value

// Object is an insertion-ordered mapping from string keys to Values. Key
// order is significant: it drives flattening order and therefore the order
// in which property writes are issued.
//
// A nil *Object behaves as an empty, read-only object.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set stores v under key and returns o for chaining. A new key is appended
// to the key order; an existing key keeps its position.
func (o *Object) Set(key string, v Value) *Object {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.vals[key]; !ok {
		return false
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a shallow copy of o.
func (o *Object) Clone() *Object {
	c := NewObject()
	o.Range(func(k string, v Value) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Merge copies every entry of src into o, in src order, the way a property
// assignment would: existing keys are overwritten in place.
func (o *Object) Merge(src *Object) *Object {
	src.Range(func(k string, v Value) bool {
		o.Set(k, v)
		return true
	})
	return o
}

// Shallow returns a Dict's entries as a plain Object, copied one level deep.
// Nested Dicts stay Dicts. Any other value is returned unchanged.
func Shallow(v Value) Value {
	if v.kind != KindDict {
		return v
	}
	return Obj(v.obj.Clone())
}
