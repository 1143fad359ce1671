package usecase

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = tracing.Tracer("usecase")

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracing.Child(ctx, usecaseTracer, name)
}
