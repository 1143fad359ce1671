// Package tracing starts child spans for the API and usecase layers.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationPrefix = "github.com/riskibarqy/race-predictor/internal/"

// Tracer returns the tracer for an internal package, e.g. Tracer("usecase").
func Tracer(pkg string) trace.Tracer {
	return otel.Tracer(instrumentationPrefix + pkg)
}

// Child starts a span under the one already in ctx. Without a recording
// parent it returns ctx unchanged and a no-op span, so untraced requests and
// background jobs outside a job span never produce orphan root spans.
func Child(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return tracer.Start(ctx, name, opts...)
}

// Root always starts a span. Scheduled jobs use it to open a trace per run.
func Root(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, append(opts, trace.WithNewRoot())...)
}
