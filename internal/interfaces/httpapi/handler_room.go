package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRoom")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}

	var req createRoomRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	lockoutCfg, err := decodeLockout(req.Lockout)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roomService.Create(ctx, usecase.CreateRoomInput{
		HostID:   principal.UserID,
		SeasonID: req.SeasonID,
		Name:     req.Name,
		Lockout:  lockoutCfg,
		Scoring:  scoringFromRequest(req.Scoring),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create room failed", "user_id", principal.UserID, "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roomToDTO(created))
}

func (h *Handler) ListMyRooms(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyRooms")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}

	rooms, err := h.roomService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my rooms failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]roomDTO, 0, len(rooms))
	for _, item := range rooms {
		out = append(out, roomToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinRoom")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}

	var req joinRoomRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.roomService.Join(ctx, principal.UserID, req.JoinCode)
	if err != nil {
		h.logger.WarnContext(ctx, "join room failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roomToDTO(joined))
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoom")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}
	roomID := pathValue(r, "roomID")

	item, err := h.roomService.Get(ctx, principal.UserID, roomID)
	if err != nil {
		h.logger.WarnContext(ctx, "get room failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roomToDTO(item))
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRoom")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}
	roomID := pathValue(r, "roomID")

	var req updateRoomRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	lockoutCfg, err := decodeLockout(req.Lockout)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roomService.UpdateSettings(ctx, usecase.UpdateRoomSettingsInput{
		ActorID: principal.UserID,
		RoomID:  roomID,
		Name:    req.Name,
		Lockout: lockoutCfg,
		Scoring: scoringFromRequest(req.Scoring),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update room failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roomToDTO(updated))
}

func (h *Handler) SetRoomStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetRoomStatus")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}
	roomID := pathValue(r, "roomID")

	var req roomStatusRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	next, err := room.ParseStatus(req.Status)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err))
		return
	}

	updated, err := h.roomService.TransitionStatus(ctx, principal.UserID, roomID, next)
	if err != nil {
		h.logger.WarnContext(ctx, "set room status failed", "user_id", principal.UserID, "room_id", roomID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roomToDTO(updated))
}

func (h *Handler) LockRoom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockRoom")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}
	roomID := pathValue(r, "roomID")

	updated, err := h.roomService.Lock(ctx, principal.UserID, roomID)
	if err != nil {
		h.logger.WarnContext(ctx, "lock room failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roomToDTO(updated))
}

func (h *Handler) ListRoomParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoomParticipants")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.roomService == nil {
		writeError(ctx, w, unavailable("room service"))
		return
	}
	roomID := pathValue(r, "roomID")

	items, err := h.roomService.ListParticipants(ctx, principal.UserID, roomID)
	if err != nil {
		h.logger.WarnContext(ctx, "list room participants failed", "user_id", principal.UserID, "room_id", roomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]participantDTO, 0, len(items))
	for _, item := range items {
		out = append(out, participantToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetRaceLockout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRaceLockout")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.seasonService == nil || h.roomService == nil {
		writeError(ctx, w, unavailable("season service"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	// Membership check; lockout details are only shown to the room.
	if _, err := h.roomService.Get(ctx, principal.UserID, roomID); err != nil {
		writeError(ctx, w, err)
		return
	}

	evaluation, err := h.seasonService.RaceLockout(ctx, roomID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race lockout failed", "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockoutEvaluationToDTO(evaluation))
}

func scoringFromRequest(dto *scoringConfigDTO) *scoring.Config {
	if dto == nil {
		return nil
	}
	cfg := dto.toDomain()
	return &cfg
}
