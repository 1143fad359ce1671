package httpapi

import (
	"net/http"
)

func (h *Handler) GetRoomLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoomLeaderboard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.leaderboardService == nil {
		writeError(ctx, w, unavailable("leaderboard service"))
		return
	}
	roomID := pathValue(r, "roomID")

	rows, err := h.leaderboardService.RoomLeaderboard(ctx, principal.UserID, roomID)
	if err != nil {
		h.logger.WarnContext(ctx, "get room leaderboard failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(rows))
}

func (h *Handler) GetRaceLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRaceLeaderboard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.leaderboardService == nil {
		writeError(ctx, w, unavailable("leaderboard service"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	rows, err := h.leaderboardService.RaceLeaderboard(ctx, principal.UserID, roomID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race leaderboard failed", "user_id", principal.UserID, "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(rows))
}

func (h *Handler) ScoreRoomRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreRoomRace")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.scoringService == nil {
		writeError(ctx, w, unavailable("scoring service"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	result, err := h.scoringService.ScoreRoomRace(ctx, principal.UserID, roomID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "score room race failed", "user_id", principal.UserID, "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
