package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/proto"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/protoconv"
	"github.com/zero-day-ai/graphprops/value"
)

const tracerName = "github.com/zero-day-ai/graphprops/graph"

// ErrNilStore is returned by NewClient when no store is given.
var ErrNilStore = errors.New("store is nil")

// Client reads and writes element properties through a Store.
type Client struct {
	store  Store
	codec  *graphprops.Codec
	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCodec sets the codec. If not provided, graphprops.New() is used with
// the client's logger.
func WithCodec(codec *graphprops.Codec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// WithLogger sets the logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the tracer for client spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// NewClient creates a Client over store.
func NewClient(store Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, graphprops.NewValidationError("graph.NewClient", ErrNilStore)
	}

	c := &Client{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.codec == nil {
		c.codec = graphprops.New(graphprops.WithLogger(c.logger), graphprops.WithTracer(c.tracer))
	}
	return c, nil
}

// Codec returns the codec used by the client.
func (c *Client) Codec() *graphprops.Codec { return c.codec }

// CreateVertex creates a vertex labelled VertexLabel(label) and writes props
// with their metadata. Invalid props are rejected before the vertex is
// created.
func (c *Client) CreateVertex(ctx context.Context, label string, props, meta value.Value) (id string, err error) {
	const op = "graph.CreateVertex"
	ctx, span := c.start(ctx, "CreateVertex", graphprops.Vertex)
	defer func() { finish(span, err) }()

	if label == "" {
		return "", graphprops.NewValidationError(op, errors.New("label is required"))
	}
	instrs, err := c.codec.Encode(props, meta, graphprops.Vertex)
	if err != nil {
		return "", err
	}

	id, err = c.store.AddVertex(ctx, VertexLabel(label))
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("graph.id", id))

	if err := c.codec.Apply(ctx, c.store.Properties(graphprops.Vertex, id), instrs); err != nil {
		return id, err
	}
	c.logger.Debug("vertex created", "id", id, "label", VertexLabel(label), "properties", len(instrs))
	return id, nil
}

// CreateEdge creates an edge labelled EdgeLabel(label) from outV to inV and
// writes props with their metadata.
func (c *Client) CreateEdge(ctx context.Context, label, outV, inV string, props, meta value.Value) (id string, err error) {
	const op = "graph.CreateEdge"
	ctx, span := c.start(ctx, "CreateEdge", graphprops.Edge)
	defer func() { finish(span, err) }()

	if label == "" {
		return "", graphprops.NewValidationError(op, errors.New("label is required"))
	}
	instrs, err := c.codec.Encode(props, meta, graphprops.Edge)
	if err != nil {
		return "", err
	}

	id, err = c.store.AddEdge(ctx, EdgeLabel(label), outV, inV)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("graph.id", id))

	if err := c.codec.Apply(ctx, c.store.Properties(graphprops.Edge, id), instrs); err != nil {
		return id, err
	}
	c.logger.Debug("edge created", "id", id, "label", EdgeLabel(label), "out", outV, "in", inV)
	return id, nil
}

// CreateVertexFromMessage creates a vertex whose properties are the fields
// of msg.
func (c *Client) CreateVertexFromMessage(ctx context.Context, label string, msg proto.Message, opts ...protoconv.Option) (string, error) {
	props, err := protoconv.FromMessage(msg, opts...)
	if err != nil {
		return "", graphprops.NewValidationError("graph.CreateVertexFromMessage", err)
	}
	return c.CreateVertex(ctx, label, props, value.Undefined())
}

// UpdateProps writes props onto an existing element. Props must be an
// object; Undefined and Null props are a no-op.
func (c *Client) UpdateProps(ctx context.Context, kind graphprops.Kind, id string, props, meta value.Value) (err error) {
	ctx, span := c.start(ctx, "UpdateProps", kind)
	defer func() { finish(span, err) }()

	instrs, err := c.codec.Encode(props, meta, kind)
	if err != nil {
		return err
	}
	return c.codec.Apply(ctx, c.store.Properties(kind, id), instrs)
}

// RemoveProps drops each key in turn, stopping at the first error. Keys are
// flattened keys as stored, such as "address.city".
func (c *Client) RemoveProps(ctx context.Context, kind graphprops.Kind, id string, keys ...string) (err error) {
	ctx, span := c.start(ctx, "RemoveProps", kind)
	defer func() { finish(span, err) }()

	for _, key := range keys {
		if err := c.store.DropProperty(ctx, kind, id, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

// GetJSONByID exports an element and decodes it. A missing element yields
// an error matching graphprops.ErrElementNotFound.
func (c *Client) GetJSONByID(ctx context.Context, kind graphprops.Kind, id string) (entity *graphprops.DecodedEntity, err error) {
	ctx, span := c.start(ctx, "GetJSONByID", kind)
	defer func() { finish(span, err) }()

	switch kind {
	case graphprops.Vertex:
		raw, err := c.store.ExportVertex(ctx, id)
		if err != nil {
			return nil, err
		}
		return c.codec.DecodeVertex(raw), nil
	case graphprops.Edge:
		raw, err := c.store.ExportEdge(ctx, id)
		if err != nil {
			return nil, err
		}
		return c.codec.DecodeEdge(raw), nil
	}
	return nil, graphprops.NewValidationError("graph.GetJSONByID", fmt.Errorf("%w: %d", graphprops.ErrUnknownKind, uint8(kind)))
}

// GetProps lists the element's property instances and aggregates them into
// a nested object keyed by its identity field.
func (c *Client) GetProps(ctx context.Context, kind graphprops.Kind, id string) (props value.Value, err error) {
	ctx, span := c.start(ctx, "GetProps", kind)
	defer func() { finish(span, err) }()

	listing, err := c.store.ListProperties(ctx, kind, id)
	if err != nil {
		return value.Undefined(), err
	}
	return c.codec.Aggregate(value.String(id), kind, listing), nil
}

// GetPropsMany runs GetProps for each id in order.
func (c *Client) GetPropsMany(ctx context.Context, kind graphprops.Kind, ids []string) ([]value.Value, error) {
	out := make([]value.Value, 0, len(ids))
	for _, id := range ids {
		props, err := c.GetProps(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		out = append(out, props)
	}
	return out, nil
}

// Close closes the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}

func (c *Client) start(ctx context.Context, name string, kind graphprops.Kind) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "graph.Client."+name,
		trace.WithAttributes(attribute.String("graph.kind", kind.String())))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
