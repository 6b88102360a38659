package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/value"
)

// Store holds vertices and edges in memory.
type Store struct {
	mu       sync.RWMutex
	vertices map[string]*element
	edges    map[string]*element
	logger   *slog.Logger
	newID    func() string
}

type element struct {
	id    string
	label string
	outV  string
	inV   string
	keys  []string
	props map[string][]instance
}

type instance struct {
	id    string
	value value.Value
	meta  *value.Object
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the random UUID generator used for element and
// property instance ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		vertices: make(map[string]*element),
		edges:    make(map[string]*element),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// AddVertex creates a vertex and returns its id.
func (s *Store) AddVertex(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.vertices[id] = newElement(id, label)
	return id, nil
}

// AddEdge creates an edge from outV to inV. Both vertices must exist.
func (s *Store) AddEdge(ctx context.Context, label, outV, inV string) (string, error) {
	const op = "memstore.AddEdge"
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, end := range []string{outV, inV} {
		if _, ok := s.vertices[end]; !ok {
			return "", notFound(op, graphprops.Vertex, end)
		}
	}

	id := s.newID()
	e := newElement(id, label)
	e.outV, e.inV = outV, inV
	s.edges[id] = e
	return id, nil
}

// Properties returns the mutator for one element. The element is looked up
// on every write, so a mutator for a missing element fails with
// graphprops.ErrElementNotFound.
func (s *Store) Properties(kind graphprops.Kind, id string) graphprops.Mutator {
	return &mutator{store: s, kind: kind, id: id}
}

type mutator struct {
	store *Store
	kind  graphprops.Kind
	id    string
}

func (m *mutator) SetProperty(ctx context.Context, key string, v value.Value, card graphprops.Cardinality, meta []graphprops.MetaPair) error {
	const op = "memstore.SetProperty"
	if err := ctx.Err(); err != nil {
		return err
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(op, m.kind, m.id)
	if err != nil {
		return err
	}

	inst := instance{id: s.newID(), value: v}
	if len(meta) > 0 {
		inst.meta = value.NewObject()
		for _, p := range meta {
			inst.meta.Set(p.Name, p.Value)
		}
	}

	if _, ok := e.props[key]; !ok {
		e.keys = append(e.keys, key)
	}
	if card == graphprops.List && m.kind == graphprops.Vertex {
		e.props[key] = append(e.props[key], inst)
	} else {
		e.props[key] = []instance{inst}
	}
	return nil
}

// ExportVertex returns the vertex in query-record form.
func (s *Store) ExportVertex(ctx context.Context, id string) (*graphprops.RawVertex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup("memstore.ExportVertex", graphprops.Vertex, id)
	if err != nil {
		return nil, err
	}

	raw := &graphprops.RawVertex{ID: value.String(e.id), Label: e.label}
	for _, key := range e.keys {
		g := graphprops.PropertyGroup{Key: key}
		for _, inst := range e.props[key] {
			g.Instances = append(g.Instances, inst.raw(key))
		}
		raw.Properties = append(raw.Properties, g)
	}
	return raw, nil
}

// ExportEdge returns the edge in query-record form. Edge properties carry
// no meta-properties in this form.
func (s *Store) ExportEdge(ctx context.Context, id string) (*graphprops.RawEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup("memstore.ExportEdge", graphprops.Edge, id)
	if err != nil {
		return nil, err
	}

	raw := &graphprops.RawEdge{
		ID:         value.String(e.id),
		Label:      e.label,
		OutV:       value.String(e.outV),
		InV:        value.String(e.inV),
		Properties: value.NewObject(),
	}
	for _, key := range e.keys {
		if insts := e.props[key]; len(insts) > 0 {
			raw.Properties.Set(key, insts[len(insts)-1].value)
		}
	}
	return raw, nil
}

// ListProperties returns every property instance of the element, grouped
// by key in first-write order.
func (s *Store) ListProperties(ctx context.Context, kind graphprops.Kind, id string) ([]graphprops.RawPropertyInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup("memstore.ListProperties", kind, id)
	if err != nil {
		return nil, err
	}

	var out []graphprops.RawPropertyInstance
	for _, key := range e.keys {
		for _, inst := range e.props[key] {
			out = append(out, inst.raw(key))
		}
	}
	return out, nil
}

// DropProperty removes every instance of key. Dropping an absent key is a
// no-op.
func (s *Store) DropProperty(ctx context.Context, kind graphprops.Kind, id, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup("memstore.DropProperty", kind, id)
	if err != nil {
		return err
	}
	e.drop(key)
	return nil
}

// DropPropertyInstance removes one property instance by id.
func (s *Store) DropPropertyInstance(ctx context.Context, kind graphprops.Kind, id, instanceID string) error {
	const op = "memstore.DropPropertyInstance"
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(op, kind, id)
	if err != nil {
		return err
	}
	for _, key := range e.keys {
		insts := e.props[key]
		for i, inst := range insts {
			if inst.id != instanceID {
				continue
			}
			if len(insts) == 1 {
				e.drop(key)
			} else {
				e.props[key] = append(insts[:i:i], insts[i+1:]...)
			}
			return nil
		}
	}
	return graphprops.NewNotFoundError(op, fmt.Errorf("%w: %s on %s %s", graphprops.ErrInstanceNotFound, instanceID, kind, id))
}

// Len returns the number of vertices and edges.
func (s *Store) Len() (vertices, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vertices), len(s.edges)
}

// Close releases nothing and exists to satisfy store interfaces.
func (s *Store) Close() error {
	s.logger.Debug("memstore closed")
	return nil
}

func (s *Store) lookup(op string, kind graphprops.Kind, id string) (*element, error) {
	var e *element
	switch kind {
	case graphprops.Vertex:
		e = s.vertices[id]
	case graphprops.Edge:
		e = s.edges[id]
	default:
		return nil, graphprops.NewValidationError(op, fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(kind)))
	}
	if e == nil {
		return nil, notFound(op, kind, id)
	}
	return e, nil
}

func notFound(op string, kind graphprops.Kind, id string) error {
	return graphprops.NewNotFoundError(op, fmt.Errorf("%w: %s %s", graphprops.ErrElementNotFound, kind, id))
}

func newElement(id, label string) *element {
	return &element{id: id, label: label, props: make(map[string][]instance)}
}

func (e *element) drop(key string) {
	if _, ok := e.props[key]; !ok {
		return
	}
	delete(e.props, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i:i], e.keys[i+1:]...)
			break
		}
	}
}

func (i instance) raw(key string) graphprops.RawPropertyInstance {
	out := graphprops.RawPropertyInstance{ID: value.String(i.id), Key: key, Value: i.value}
	if i.meta.Len() > 0 {
		out.Properties = i.meta.Clone()
	}
	return out
}
