package graphprops

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/graphprops/coerce"
	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// Codec converts property bags to write instructions and raw query records
// back to property bags. A Codec is immutable after New and safe for
// concurrent use.
type Codec struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *codecMetrics
	delimiter   string
	detectDates bool
}

// New creates a Codec.
//
// Example:
//
//	codec := graphprops.New(
//	    graphprops.WithLogger(logger),
//	    graphprops.WithMeter(meterProvider.Meter("graphprops")),
//	)
func New(opts ...Option) *Codec {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(instrumentationName)
	}
	if cfg.meter == nil {
		cfg.meter = otel.Meter(instrumentationName)
	}

	metrics, err := newCodecMetrics(cfg.meter)
	if err != nil {
		// Counters are optional; the codec works without them.
		cfg.logger.Warn("failed to create codec metrics", "error", err)
	}

	return &Codec{
		logger:      cfg.logger,
		tracer:      cfg.tracer,
		metrics:     metrics,
		delimiter:   cfg.delimiter,
		detectDates: cfg.detectDates,
	}
}

// Delimiter returns the key delimiter used for flattening.
func (c *Codec) Delimiter() string { return c.delimiter }

// Apply submits instructions to m in order, stopping at the first error.
// The whole submission runs inside a "graphprops.Apply" span.
func (c *Codec) Apply(ctx context.Context, m Mutator, instrs []WriteInstruction) error {
	const op = "Codec.Apply"
	if m == nil {
		return NewValidationError(op, ErrNilMutator)
	}

	ctx, span := c.tracer.Start(ctx, "graphprops.Apply",
		trace.WithAttributes(attribute.Int("graphprops.instructions", len(instrs))))
	defer span.End()

	for i, in := range instrs {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if err := m.SetProperty(ctx, in.Key, in.Value, in.Cardinality, in.Meta); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return NewStorageError(op, fmt.Errorf("instruction %d (%s): %w", i, in.Key, err))
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Codec) flattenOptions() []flatpath.Option {
	return []flatpath.Option{flatpath.Delimiter(c.delimiter), flatpath.AtomicArrays()}
}

func (c *Codec) unflatten(m *flatpath.Map) value.Value {
	return flatpath.Unflatten(m, flatpath.Delimiter(c.delimiter))
}

// fromWire decodes one stored value. Malformed JSON text is kept verbatim
// and reported through the returned flag.
func (c *Codec) fromWire(v value.Value) (value.Value, bool) {
	if c.detectDates {
		return coerce.FromWireChecked(v)
	}
	return coerce.FromWireChecked(v, coerce.WithoutDates())
}

// wireDecoder accumulates malformed-value counts over one decode call.
type wireDecoder struct {
	c         *Codec
	kind      Kind
	malformed []string
}

func (d *wireDecoder) decode(key string, v value.Value) value.Value {
	out, ok := d.c.fromWire(v)
	if !ok {
		d.malformed = append(d.malformed, key)
	}
	return out
}

func (d *wireDecoder) done(op string) {
	if len(d.malformed) == 0 {
		return
	}
	d.c.metrics.wireMalformed(len(d.malformed), d.kind)
	d.c.logger.Debug("stored values are not valid JSON; kept as text",
		"op", op,
		"kind", d.kind.String(),
		"keys", d.malformed)
}
