package graphprops

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/graphprops/flatpath"
)

// Option configures a Codec.
type Option func(*codecConfig)

// codecConfig holds configuration for a Codec instance.
type codecConfig struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	delimiter   string
	detectDates bool
}

func defaultConfig() codecConfig {
	return codecConfig{
		delimiter:   flatpath.DefaultDelimiter,
		detectDates: true,
	}
}

// WithLogger sets the logger for debug records about dropped metadata and
// malformed wire values. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *codecConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for Apply spans.
// If not provided, the global tracer provider is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *codecConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for the codec counters.
// If not provided, the global meter provider is used.
func WithMeter(meter metric.Meter) Option {
	return func(c *codecConfig) {
		c.meter = meter
	}
}

// WithDelimiter sets the string joining path segments in flattened keys.
// The default is ".". An empty delimiter is ignored.
func WithDelimiter(delim string) Option {
	return func(c *codecConfig) {
		if delim != "" {
			c.delimiter = delim
		}
	}
}

// WithDateDetection turns the ISO-8601 date heuristic on decode on or off.
// It is on by default.
func WithDateDetection(enabled bool) Option {
	return func(c *codecConfig) {
		c.detectDates = enabled
	}
}
