package httpapi

import (
	"net/http"

	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

// RouterConfig carries the transport-level settings for NewRouter.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	profiles ProfileEnsurer,
	cfg RouterConfig,
	logger *logging.Logger,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	authed := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, EnsureProfile(profiles, logger, next))
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg)
	registerPublicDomainRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, authed)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
