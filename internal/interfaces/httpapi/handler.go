package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// Services groups the use cases the HTTP layer calls into. Any of them may
// be nil; the matching routes then answer UNAVAILABLE.
type Services struct {
	Seasons      *usecase.SeasonService
	Drivers      *usecase.DriverService
	Users        *usecase.UserService
	Rooms        *usecase.RoomService
	Predictions  *usecase.PredictionService
	Scoring      *usecase.ScoringService
	ResultSync   *usecase.ResultSyncService
	Poller       *usecase.PollerService
	ScheduleSync *usecase.ScheduleSyncService
	Leaderboards *usecase.LeaderboardService
	Stats        *usecase.StatsService
	Dashboard    *usecase.DashboardService
}

type Handler struct {
	seasonService       *usecase.SeasonService
	driverService       *usecase.DriverService
	userService         *usecase.UserService
	roomService         *usecase.RoomService
	predictionService   *usecase.PredictionService
	scoringService      *usecase.ScoringService
	resultSyncService   *usecase.ResultSyncService
	pollerService       *usecase.PollerService
	scheduleSyncService *usecase.ScheduleSyncService
	leaderboardService  *usecase.LeaderboardService
	statsService        *usecase.StatsService
	dashboardService    *usecase.DashboardService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:       services.Seasons,
		driverService:       services.Drivers,
		userService:         services.Users,
		roomService:         services.Rooms,
		predictionService:   services.Predictions,
		scoringService:      services.Scoring,
		resultSyncService:   services.ResultSync,
		pollerService:       services.Poller,
		scheduleSyncService: services.ScheduleSync,
		leaderboardService:  services.Leaderboards,
		statsService:        services.Stats,
		dashboardService:    services.Dashboard,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// An empty body decodes as an empty object.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, maxRequestBodyBytes)
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := sonic.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
		}
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func unavailable(name string) error {
	return fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name)
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
