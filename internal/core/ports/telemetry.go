package ports

import (
	"context"
	"io"
)

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals the steps the pipeline is about to run.
	EmitPlan(ctx context.Context, steps []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Parallel marks spans that run alongside their siblings.
	Parallel bool
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithParallel marks a span as running concurrently with its siblings.
func WithParallel() SpanOption {
	return func(c *SpanConfig) {
		c.Parallel = true
	}
}
