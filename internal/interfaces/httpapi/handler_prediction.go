package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

type predictionWriter func(ctx context.Context, input usecase.SubmitPredictionInput) (prediction.Prediction, error)

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, unavailable("prediction service"))
		return
	}
	h.writePrediction(ctx, w, r, "submit prediction failed", h.predictionService.Submit)
}

func (h *Handler) UpdatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePrediction")
	defer span.End()

	if h.predictionService == nil {
		writeError(ctx, w, unavailable("prediction service"))
		return
	}
	h.writePrediction(ctx, w, r, "update prediction failed", h.predictionService.Update)
}

func (h *Handler) writePrediction(ctx context.Context, w http.ResponseWriter, r *http.Request, failMsg string, write predictionWriter) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	var req predictionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := write(ctx, req.toInput(principal.UserID, roomID, raceID))
	if err != nil {
		h.logger.WarnContext(ctx, failMsg, "user_id", principal.UserID, "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(saved))
}

func (h *Handler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPrediction")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.predictionService == nil {
		writeError(ctx, w, unavailable("prediction service"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	item, err := h.predictionService.GetMine(ctx, principal.UserID, roomID, raceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) ListRacePredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRacePredictions")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.predictionService == nil {
		writeError(ctx, w, unavailable("prediction service"))
		return
	}
	roomID := pathValue(r, "roomID")
	raceID := pathValue(r, "raceID")

	items, err := h.predictionService.ListForRace(ctx, principal.UserID, roomID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "list race predictions failed", "user_id", principal.UserID, "room_id", roomID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
