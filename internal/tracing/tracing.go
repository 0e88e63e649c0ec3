// Package tracing wraps go.opentelemetry.io/otel span creation. Its one
// caller in this module is pipeline tick execution (one span per
// Pipeline.Execute call); flowtree ticks and spatial world queries create no
// spans.
//
// Tracing is opt-in: when disabled, Start creates no span and returns ctx
// unchanged with a no-op end function.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ridgeline-games/enginecore"

// Tracer wraps an otel tracer plus an enabled flag so callers can skip the
// span-creation call entirely when tracing is off, rather than merely
// getting a no-op span back.
type Tracer struct {
	enabled bool
	tracer  trace.Tracer
}

// New constructs a Tracer. When enabled is false, Start is a cheap no-op.
func New(enabled bool) *Tracer {
	return &Tracer{enabled: enabled, tracer: otel.Tracer(instrumentationName)}
}

// Start begins a span named name if tracing is enabled, returning a context
// carrying it and a function that must be called to end it. When disabled,
// it returns ctx unchanged and a no-op end function.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...trace.SpanStartOption) (context.Context, func()) {
	if t == nil || !t.enabled {
		return ctx, func() {}
	}
	spanCtx, span := t.tracer.Start(ctx, name, attrs...)
	return spanCtx, func() { span.End() }
}

// Enabled reports whether this tracer will actually produce spans.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}
