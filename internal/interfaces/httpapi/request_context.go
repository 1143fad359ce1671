package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/race-predictor/internal/domain/user"
	"github.com/riskibarqy/race-predictor/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = tracing.Tracer("interfaces/httpapi")

// startSpan opens a span for handler entry points only. Helpers and
// middleware run inside the otelhttp server span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracing.Child(ctx, apiTracer, name)
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
