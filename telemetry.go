package graphprops

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zero-day-ai/graphprops"

// Metric names.
const (
	MetricInstructionsEmitted = "graphprops.instructions.emitted"
	MetricMetadataDropped     = "graphprops.metadata.dropped"
	MetricWireMalformed       = "graphprops.wire.malformed"
)

// codecMetrics holds the OpenTelemetry instruments for a Codec.
// They are created once in New and shared by every call.
type codecMetrics struct {
	// emitted counts write instructions produced by Encode
	emitted metric.Int64Counter

	// dropped counts metadata fields rejected by the meta filter
	dropped metric.Int64Counter

	// malformed counts wire strings that were not valid JSON
	malformed metric.Int64Counter
}

func newCodecMetrics(meter metric.Meter) (*codecMetrics, error) {
	if meter == nil {
		return nil, nil
	}

	m := &codecMetrics{}
	var err error

	m.emitted, err = meter.Int64Counter(
		MetricInstructionsEmitted,
		metric.WithDescription("Number of property write instructions produced by Encode"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create emitted counter: %w", err)
	}

	m.dropped, err = meter.Int64Counter(
		MetricMetadataDropped,
		metric.WithDescription("Number of metadata fields dropped because their type is not storable"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create dropped counter: %w", err)
	}

	m.malformed, err = meter.Int64Counter(
		MetricWireMalformed,
		metric.WithDescription("Number of stored strings that were not valid JSON on decode"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create malformed counter: %w", err)
	}

	return m, nil
}

func (m *codecMetrics) instructionsEmitted(n int, kind Kind) {
	if m != nil {
		count(m.emitted, n, kind)
	}
}

func (m *codecMetrics) metadataDropped(n int, kind Kind) {
	if m != nil {
		count(m.dropped, n, kind)
	}
}

func (m *codecMetrics) wireMalformed(n int, kind Kind) {
	if m != nil {
		count(m.malformed, n, kind)
	}
}

// The codec API is synchronous and takes no context, so counters are
// recorded against the background context.
func count(c metric.Int64Counter, n int, kind Kind) {
	if c == nil || n == 0 {
		return
	}
	c.Add(context.Background(), int64(n), metric.WithAttributes(
		attribute.String("graphprops.kind", kind.String()),
	))
}
