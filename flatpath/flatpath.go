package flatpath

import (
	"github.com/zero-day-ai/graphprops/value"
)

// Entry is one leaf of a flattened tree.
type Entry struct {
	// Key is the delimiter-joined path.
	Key string

	// Path holds the typed segments when the entry was produced by Flatten.
	// Entries added with Map.Set have a nil Path; their keys are split on
	// the delimiter when unflattened.
	Path Path

	Value value.Value
}

// Map is an insertion-ordered flat mapping from path keys to leaf values.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap returns an empty flat map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set stores v under key. Re-setting a key replaces its value in place.
func (m *Map) Set(key string, v value.Value) *Map {
	m.put(Entry{Key: key, Value: v})
	return m
}

func (m *Map) put(e Entry) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[e.Key]; ok {
		m.entries[i] = e
		return
	}
	m.index[e.Key] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Get returns the leaf stored under key.
func (m *Map) Get(key string) (value.Value, bool) {
	if m == nil {
		return value.Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return value.Value{}, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of leaves.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the flat keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Replace swaps the value of an existing entry, keeping its key, path and
// position. It reports whether the key was present.
func (m *Map) Replace(key string, v value.Value) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries[i].Value = v
	return true
}

// Object returns the entries as a single-level Object keyed by flat key.
func (m *Map) Object() *value.Object {
	obj := value.NewObject()
	if m == nil {
		return obj
	}
	for _, e := range m.entries {
		obj.Set(e.Key, e.Value)
	}
	return obj
}

// Flatten walks an Object or List in pre-order and returns its leaves keyed
// by path. Scalars, Dates, Dicts and empty containers are leaves; with
// AtomicArrays, nested Lists are leaves too. Any other root yields an empty
// map.
func Flatten(v value.Value, opts ...Option) *Map {
	o := newOptions(opts)
	m := NewMap()
	if v.Kind() != value.KindObject && v.Kind() != value.KindList {
		return m
	}
	walk(m, o, nil, v)
	return m
}

func walk(m *Map, o options, prefix Path, v value.Value) {
	nested := len(prefix) > 0
	switch v.Kind() {
	case value.KindObject:
		if nested && v.Len() == 0 {
			break
		}
		v.Object().Range(func(k string, e value.Value) bool {
			walk(m, o, extend(prefix, Key(k)), e)
			return true
		})
		return
	case value.KindList:
		if nested && (v.Len() == 0 || o.atomicArrays) {
			break
		}
		for i, e := range v.Items() {
			walk(m, o, extend(prefix, Index(i)), e)
		}
		return
	}
	m.put(Entry{Key: prefix.Join(o.delimiter), Path: prefix, Value: v})
}

func extend(p Path, s Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// Unflatten rebuilds a nested Object from a flat map. The root is always an
// Object. A nested node becomes a List when its child segments are exactly
// the indexes 0..n-1; otherwise it becomes an Object in first-insertion
// order.
//
// Conflicting keys resolve deterministically: a leaf written over an
// existing node replaces it in place; a key that descends through an
// Object or List leaf merges into that container; a key that descends
// through any other leaf is dropped.
func Unflatten(m *Map, opts ...Option) value.Value {
	o := newOptions(opts)
	root := newBranch(false)
	if m != nil {
		for _, e := range m.entries {
			path := e.Path
			if path == nil {
				path = Split(e.Key, o.delimiter)
			}
			root.insert(path, e.Value)
		}
	}
	return root.build(true)
}

type node struct {
	branch bool
	list   bool
	leaf   value.Value
	order  []Segment
	kids   map[Segment]*node
}

func newBranch(list bool) *node {
	return &node{branch: true, list: list, kids: make(map[Segment]*node)}
}

func (n *node) child(s Segment) (*node, bool) {
	c, ok := n.kids[s]
	return c, ok
}

func (n *node) add(s Segment, c *node) {
	if _, ok := n.kids[s]; !ok {
		n.order = append(n.order, s)
	}
	n.kids[s] = c
}

func (n *node) insert(path Path, v value.Value) {
	if len(path) == 0 {
		return
	}
	cur := n
	for i, seg := range path {
		if i == len(path)-1 {
			cur.add(seg, &node{leaf: v})
			return
		}
		next, ok := cur.child(seg)
		switch {
		case !ok:
			next = newBranch(false)
			cur.add(seg, next)
		case !next.branch:
			if !expandable(next.leaf) {
				return
			}
			*next = *expand(next.leaf)
		}
		cur = next
	}
}

func expandable(v value.Value) bool {
	return v.Kind() == value.KindObject || v.Kind() == value.KindList
}

func expand(v value.Value) *node {
	if v.Kind() == value.KindList {
		b := newBranch(true)
		for i, e := range v.Items() {
			b.add(Index(i), &node{leaf: e})
		}
		return b
	}
	b := newBranch(false)
	v.Object().Range(func(k string, e value.Value) bool {
		b.add(Key(k), &node{leaf: e})
		return true
	})
	return b
}

func (n *node) build(root bool) value.Value {
	if !n.branch {
		return n.leaf
	}
	if !root && n.isList() {
		items := make([]value.Value, len(n.order))
		for _, s := range n.order {
			items[s.Int()] = n.kids[s].build(false)
		}
		return value.List(items...)
	}
	obj := value.NewObject()
	for _, s := range n.order {
		obj.Set(s.String(), n.kids[s].build(false))
	}
	return value.Obj(obj)
}

func (n *node) isList() bool {
	if len(n.order) == 0 {
		return n.list
	}
	for _, s := range n.order {
		if !s.IsIndex() || s.Int() >= len(n.order) {
			return false
		}
	}
	return true
}
