package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/freightpress/freightpress"

// Emitter starts trace spans for named operations through the globally
// registered tracer provider. When tracing is not configured the spans
// are no-ops, so callers never need to guard emission.
type Emitter struct {
	tracer trace.Tracer
}

// NewEmitter creates a new span emitter.
func NewEmitter() *Emitter {
	return &Emitter{tracer: otel.Tracer(tracerName)}
}

// Span starts a span named after the operation and returns the derived
// context plus a finish function. The finish function records the
// operation error, if any, and ends the span. It is a no-op when the
// emitter is nil.
func (e *Emitter) Span(ctx context.Context, operation string) (context.Context, func(err error)) {
	if e == nil || e.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := e.tracer.Start(ctx, operation)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
