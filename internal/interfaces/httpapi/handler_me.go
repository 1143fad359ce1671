package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.userService == nil {
		writeError(ctx, w, unavailable("user service"))
		return
	}

	// The profile row is created on first sight, so Ensure doubles as a read.
	profile, err := h.userService.Ensure(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(profile))
}

func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStats")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.statsService == nil || h.seasonService == nil {
		writeError(ctx, w, unavailable("stats service"))
		return
	}

	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))
	if seasonID == "" {
		current, err := h.seasonService.CurrentSeason(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		seasonID = current.ID
	}

	stats, err := h.statsService.UserSeasonStats(ctx, principal.UserID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user stats failed", "user_id", principal.UserID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyDashboard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.dashboardService == nil {
		writeError(ctx, w, unavailable("dashboard service"))
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get dashboard failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}
