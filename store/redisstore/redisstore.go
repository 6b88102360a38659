package redisstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/value"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "graphprops"

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0")
	URL string

	// Prefix namespaces keys. Defaults to DefaultPrefix.
	Prefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// Logger receives store lifecycle records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store implements a property-graph store on go-redis/v9.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	newID  func() string
}

// New connects to Redis and verifies the connection with PING.
func New(opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if opts.TLS != nil {
		redisOpts.TLSConfig = opts.TLS
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewFromClient(client, opts.Prefix, opts.Logger)
	s.logger.Info("connected to redis store", "addr", redisOpts.Addr, "prefix", s.prefix)
	return s, nil
}

// NewFromClient wraps an existing client. The store takes ownership of it
// and closes it in Close.
func NewFromClient(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, prefix: prefix, logger: logger, newID: uuid.NewString}
}

// AddVertex creates a vertex and returns its id.
func (s *Store) AddVertex(ctx context.Context, label string) (string, error) {
	id := s.newID()
	if err := s.client.HSet(ctx, s.elementKey(graphprops.Vertex, id), "label", label).Err(); err != nil {
		return "", graphprops.NewStorageError("redisstore.AddVertex", fmt.Errorf("failed to create vertex: %w", err))
	}
	return id, nil
}

// AddEdge creates an edge from outV to inV. Both vertices must exist.
func (s *Store) AddEdge(ctx context.Context, label, outV, inV string) (string, error) {
	const op = "redisstore.AddEdge"
	for _, end := range []string{outV, inV} {
		if err := s.mustExist(ctx, op, graphprops.Vertex, end); err != nil {
			return "", err
		}
	}

	id := s.newID()
	if err := s.client.HSet(ctx, s.elementKey(graphprops.Edge, id), "label", label, "out", outV, "in", inV).Err(); err != nil {
		return "", graphprops.NewStorageError(op, fmt.Errorf("failed to create edge: %w", err))
	}
	return id, nil
}

// setPropertyScript appends an instance to a property list, clearing the
// list first when ARGV[3] is "replace". It returns 0 when the element does
// not exist.
//
// KEYS: element hash, key list, key set, property list.
// ARGV: property key, instance JSON, mode.
var setPropertyScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
if redis.call('SADD', KEYS[3], ARGV[1]) == 1 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
end
if ARGV[3] == 'replace' then
  redis.call('DEL', KEYS[4])
end
redis.call('RPUSH', KEYS[4], ARGV[2])
return 1
`)

// dropPropertyScript removes a key and all its instances. It returns -1
// when the element does not exist.
//
// KEYS: element hash, key list, key set, property list.
// ARGV: property key.
var dropPropertyScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
redis.call('SREM', KEYS[3], ARGV[1])
redis.call('LREM', KEYS[2], 0, ARGV[1])
return redis.call('DEL', KEYS[4])
`)

// Properties returns the mutator for one element.
func (s *Store) Properties(kind graphprops.Kind, id string) graphprops.Mutator {
	return &mutator{store: s, kind: kind, id: id}
}

type mutator struct {
	store *Store
	kind  graphprops.Kind
	id    string
}

func (m *mutator) SetProperty(ctx context.Context, key string, v value.Value, card graphprops.Cardinality, meta []graphprops.MetaPair) error {
	const op = "redisstore.SetProperty"
	s := m.store
	if !m.kind.Valid() {
		return graphprops.NewValidationError(op, fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(m.kind)))
	}

	data, err := encodeInstance(storedInstance{ID: s.newID(), Value: v, Meta: meta})
	if err != nil {
		return graphprops.NewValidationError(op, err)
	}

	mode := "replace"
	if card == graphprops.List && m.kind == graphprops.Vertex {
		mode = "append"
	}

	keys := s.propertyKeys(m.kind, m.id, key)
	res, err := setPropertyScript.Run(ctx, s.client, keys, key, data, mode).Int()
	if err != nil {
		return graphprops.NewStorageError(op, fmt.Errorf("failed to set property %s: %w", key, err))
	}
	if res == 0 {
		return notFound(op, m.kind, m.id)
	}
	return nil
}

// ExportVertex returns the vertex in query-record form.
func (s *Store) ExportVertex(ctx context.Context, id string) (*graphprops.RawVertex, error) {
	const op = "redisstore.ExportVertex"
	label, err := s.label(ctx, op, graphprops.Vertex, id)
	if err != nil {
		return nil, err
	}
	groups, err := s.loadGroups(ctx, op, graphprops.Vertex, id)
	if err != nil {
		return nil, err
	}

	raw := &graphprops.RawVertex{ID: value.String(id), Label: label}
	for _, g := range groups {
		pg := graphprops.PropertyGroup{Key: g.key}
		for _, inst := range g.instances {
			pg.Instances = append(pg.Instances, inst.raw(g.key))
		}
		raw.Properties = append(raw.Properties, pg)
	}
	return raw, nil
}

// ExportEdge returns the edge in query-record form.
func (s *Store) ExportEdge(ctx context.Context, id string) (*graphprops.RawEdge, error) {
	const op = "redisstore.ExportEdge"
	fields, err := s.client.HGetAll(ctx, s.elementKey(graphprops.Edge, id)).Result()
	if err != nil {
		return nil, graphprops.NewStorageError(op, fmt.Errorf("failed to read edge: %w", err))
	}
	if len(fields) == 0 {
		return nil, notFound(op, graphprops.Edge, id)
	}
	groups, err := s.loadGroups(ctx, op, graphprops.Edge, id)
	if err != nil {
		return nil, err
	}

	raw := &graphprops.RawEdge{
		ID:         value.String(id),
		Label:      fields["label"],
		OutV:       value.String(fields["out"]),
		InV:        value.String(fields["in"]),
		Properties: value.NewObject(),
	}
	for _, g := range groups {
		if n := len(g.instances); n > 0 {
			raw.Properties.Set(g.key, g.instances[n-1].Value)
		}
	}
	return raw, nil
}

// ListProperties returns every property instance of the element, grouped
// by key in first-write order.
func (s *Store) ListProperties(ctx context.Context, kind graphprops.Kind, id string) ([]graphprops.RawPropertyInstance, error) {
	const op = "redisstore.ListProperties"
	if err := s.mustExist(ctx, op, kind, id); err != nil {
		return nil, err
	}
	groups, err := s.loadGroups(ctx, op, kind, id)
	if err != nil {
		return nil, err
	}

	var out []graphprops.RawPropertyInstance
	for _, g := range groups {
		for _, inst := range g.instances {
			out = append(out, inst.raw(g.key))
		}
	}
	return out, nil
}

// DropProperty removes every instance of key. Dropping an absent key is a
// no-op.
func (s *Store) DropProperty(ctx context.Context, kind graphprops.Kind, id, key string) error {
	const op = "redisstore.DropProperty"
	if !kind.Valid() {
		return graphprops.NewValidationError(op, fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(kind)))
	}
	res, err := dropPropertyScript.Run(ctx, s.client, s.propertyKeys(kind, id, key), key).Int()
	if err != nil {
		return graphprops.NewStorageError(op, fmt.Errorf("failed to drop property %s: %w", key, err))
	}
	if res < 0 {
		return notFound(op, kind, id)
	}
	return nil
}

// dropInstanceScript removes the instance whose id is ARGV[1] and drops its
// key from the key list and key set once the property list is empty. It
// returns -1 when the element does not exist and 0 when no instance matches.
// Property lists are addressed as ARGV[2] .. key, so the script assumes a
// single Redis node.
//
// KEYS: element hash, key list, key set.
// ARGV: instance id, property list prefix.
var dropInstanceScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
for _, key in ipairs(redis.call('LRANGE', KEYS[2], 0, -1)) do
  local plist = ARGV[2] .. key
  for _, item in ipairs(redis.call('LRANGE', plist, 0, -1)) do
    local ok, inst = pcall(cjson.decode, item)
    if ok and type(inst) == 'table' and inst['id'] == ARGV[1] then
      redis.call('LREM', plist, 1, item)
      if redis.call('LLEN', plist) == 0 then
        redis.call('SREM', KEYS[3], key)
        redis.call('LREM', KEYS[2], 0, key)
      end
      return 1
    end
  end
end
return 0
`)

// DropPropertyInstance removes one property instance by id. The lookup and
// removal run in one script, so a concurrent write to the same key is either
// seen by the drop or lands after it.
func (s *Store) DropPropertyInstance(ctx context.Context, kind graphprops.Kind, id, instanceID string) error {
	const op = "redisstore.DropPropertyInstance"
	if !kind.Valid() {
		return graphprops.NewValidationError(op, fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(kind)))
	}

	keys := []string{s.elementKey(kind, id), s.keysKey(kind, id), s.keysetKey(kind, id)}
	res, err := dropInstanceScript.Run(ctx, s.client, keys, instanceID, s.propKey(kind, id, "")).Int()
	if err != nil {
		return graphprops.NewStorageError(op, fmt.Errorf("failed to drop instance %s: %w", instanceID, err))
	}
	switch res {
	case -1:
		return notFound(op, kind, id)
	case 0:
		return graphprops.NewNotFoundError(op,
			fmt.Errorf("%w: %s on %s %s", graphprops.ErrInstanceNotFound, instanceID, kind, id))
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	s.logger.Info("closing redis store", "prefix", s.prefix)
	return s.client.Close()
}

type group struct {
	key       string
	instances []storedInstance
}

func (s *Store) loadGroups(ctx context.Context, op string, kind graphprops.Kind, id string) ([]group, error) {
	keys, err := s.client.LRange(ctx, s.keysKey(kind, id), 0, -1).Result()
	if err != nil {
		return nil, graphprops.NewStorageError(op, fmt.Errorf("failed to read property keys: %w", err))
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringSliceCmd, len(keys))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = p.LRange(ctx, s.propKey(kind, id, key), 0, -1)
		}
		return nil
	})
	if err != nil {
		return nil, graphprops.NewStorageError(op, fmt.Errorf("failed to read properties: %w", err))
	}

	groups := make([]group, 0, len(keys))
	for i, key := range keys {
		g := group{key: key}
		for _, item := range cmds[i].Val() {
			inst, err := decodeInstance(item)
			if err != nil {
				s.logger.Warn("skipping unreadable property instance",
					"kind", kind.String(),
					"id", id,
					"key", key,
					"error", err)
				continue
			}
			g.instances = append(g.instances, inst)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *Store) label(ctx context.Context, op string, kind graphprops.Kind, id string) (string, error) {
	label, err := s.client.HGet(ctx, s.elementKey(kind, id), "label").Result()
	if errors.Is(err, redis.Nil) {
		return "", notFound(op, kind, id)
	}
	if err != nil {
		return "", graphprops.NewStorageError(op, fmt.Errorf("failed to read %s: %w", kind, err))
	}
	return label, nil
}

func (s *Store) mustExist(ctx context.Context, op string, kind graphprops.Kind, id string) error {
	if !kind.Valid() {
		return graphprops.NewValidationError(op, fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(kind)))
	}
	n, err := s.client.Exists(ctx, s.elementKey(kind, id)).Result()
	if err != nil {
		return graphprops.NewStorageError(op, fmt.Errorf("failed to check %s %s: %w", kind, id, err))
	}
	if n == 0 {
		return notFound(op, kind, id)
	}
	return nil
}

func notFound(op string, kind graphprops.Kind, id string) error {
	return graphprops.NewNotFoundError(op, fmt.Errorf("%w: %s %s", graphprops.ErrElementNotFound, kind, id))
}
