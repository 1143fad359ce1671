package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
)

// RunPollJob runs one poller pass. Called by the external cron when the
// in-process scheduler is disabled.
func (h *Handler) RunPollJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPollJob")
	defer span.End()

	if h.pollerService == nil {
		writeError(ctx, w, unavailable("poller"))
		return
	}

	result, err := h.pollerService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run poll job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncRaceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRaceJob")
	defer span.End()

	if h.resultSyncService == nil {
		writeError(ctx, w, unavailable("result sync"))
		return
	}

	var req syncRaceJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	trigger := syncrun.TriggerJob
	if t := syncrun.Trigger(strings.TrimSpace(req.Trigger)); t != "" {
		trigger = t
	}

	result, err := h.resultSyncService.SyncRace(ctx, req.RaceID, trigger)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync race job failed", "race_id", req.RaceID, "trigger", trigger, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleJob")
	defer span.End()

	if h.scheduleSyncService == nil {
		writeError(ctx, w, unavailable("schedule sync"))
		return
	}

	var req syncScheduleJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleSyncService.SyncSchedule(ctx, req.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync schedule job failed", "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	if h.resultSyncService == nil {
		writeError(ctx, w, unavailable("result sync"))
		return
	}
	runID := pathValue(r, "runID")

	run, err := h.resultSyncService.GetRun(ctx, runID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) ListRaceSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaceSyncRuns")
	defer span.End()

	if h.resultSyncService == nil {
		writeError(ctx, w, unavailable("result sync"))
		return
	}
	raceID := pathValue(r, "raceID")
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.resultSyncService.ListRuns(ctx, raceID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// SyncRoomRace lets a room host force a result sync for one race.
func (h *Handler) SyncRoomRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncRoomRace")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.resultSyncService == nil {
		writeError(ctx, w, unavailable("result sync"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	result, err := h.resultSyncService.SyncRaceAsHost(ctx, principal.UserID, roomID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "host race sync failed", "user_id", principal.UserID, "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncRoomSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncRoomSeason")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.resultSyncService == nil {
		writeError(ctx, w, unavailable("result sync"))
		return
	}
	roomID := pathValue(r, "roomID")

	result, err := h.resultSyncService.SyncSeason(ctx, principal.UserID, roomID)
	if err != nil {
		h.logger.WarnContext(ctx, "host season sync failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Queued > 0 {
		status = http.StatusAccepted
	}
	writeSuccess(ctx, w, status, result)
}
