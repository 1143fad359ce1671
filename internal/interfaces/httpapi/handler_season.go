package httpapi

import (
	"net/http"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	if h.seasonService == nil {
		writeError(ctx, w, unavailable("season service"))
		return
	}

	items, err := h.seasonService.ListSeasons(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]seasonDTO, 0, len(items))
	for _, item := range items {
		out = append(out, seasonToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CurrentSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CurrentSeason")
	defer span.End()

	if h.seasonService == nil {
		writeError(ctx, w, unavailable("season service"))
		return
	}

	current, err := h.seasonService.CurrentSeason(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(current))
}

func (h *Handler) ListSeasonRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonRaces")
	defer span.End()

	if h.seasonService == nil {
		writeError(ctx, w, unavailable("season service"))
		return
	}
	seasonID := pathValue(r, "seasonID")

	items, err := h.seasonService.ListRaces(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season races failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, racesToDTO(items))
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	if h.seasonService == nil {
		writeError(ctx, w, unavailable("season service"))
		return
	}
	raceID := pathValue(r, "raceID")

	item, err := h.seasonService.GetRace(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(item))
}

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrivers")
	defer span.End()

	if h.driverService == nil {
		writeError(ctx, w, unavailable("driver service"))
		return
	}

	items, err := h.driverService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list drivers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]driverDTO, 0, len(items))
	for _, item := range items {
		out = append(out, driverToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
