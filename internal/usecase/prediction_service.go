package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/lockout"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

type SubmitPredictionInput struct {
	UserID           string
	RoomID           string
	RaceID           string
	Picks            []prediction.Pick
	PoleDriver       *int
	FastestLapDriver *int
	DNFDrivers       []int
}

type PredictionService struct {
	roomRepo       room.Repository
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	roomRepo room.Repository,
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		roomRepo:       roomRepo,
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit creates or replaces the caller's prediction while the race is
// still open in the room. The first submission time is preserved.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	return s.write(ctx, input, false)
}

// Update replaces an existing prediction owned by the caller.
func (s *PredictionService) Update(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Update")
	defer span.End()

	return s.write(ctx, input, true)
}

func (s *PredictionService) write(ctx context.Context, input SubmitPredictionInput, mustExist bool) (prediction.Prediction, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	rm, rc, err := s.loadRoomRace(ctx, input.RoomID, input.RaceID)
	if err != nil {
		return prediction.Prediction{}, err
	}

	now := s.now().UTC()
	if eval := lockout.Calculate(rm, &rc, now); eval.Locked {
		if eval.Reason == lockout.ReasonRoomStatus {
			return prediction.Prediction{}, fmt.Errorf("%w: room is not accepting predictions", ErrLocked)
		}
		return prediction.Prediction{}, fmt.Errorf("%w: prediction lockout time has passed", ErrLocked)
	}

	if _, member, err := s.roomRepo.GetParticipant(ctx, rm.ID, userID); err != nil {
		return prediction.Prediction{}, fmt.Errorf("get participant: %w", err)
	} else if !member {
		return prediction.Prediction{}, fmt.Errorf("%w: you must join the room before submitting a prediction", ErrForbidden)
	}

	existing, exists, err := s.predictionRepo.Get(ctx, rm.ID, rc.ID, userID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if mustExist {
		if !exists {
			return prediction.Prediction{}, fmt.Errorf("%w: no prediction to update for race %s", ErrNotFound, rc.ID)
		}
		if existing.UserID != userID {
			return prediction.Prediction{}, fmt.Errorf("%w: prediction belongs to another user", ErrForbidden)
		}
	}

	next := prediction.Prediction{
		RoomID:           rm.ID,
		RaceID:           rc.ID,
		UserID:           userID,
		Picks:            slices.Clone(input.Picks),
		PoleDriver:       input.PoleDriver,
		FastestLapDriver: input.FastestLapDriver,
		DNFDrivers:       slices.Clone(input.DNFDrivers),
		SubmittedAt:      now,
		UpdatedAt:        now,
	}
	if exists {
		next.SubmittedAt = existing.SubmittedAt
	}
	if err := next.Validate(); err != nil {
		return prediction.Prediction{}, invalid(err)
	}

	saved, err := s.predictionRepo.Upsert(ctx, next)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	s.logger.InfoContext(ctx, "prediction saved",
		"room_id", rm.ID,
		"race_id", rc.ID,
		"user_id", userID,
		"picks", len(next.Picks),
		"updated", exists,
	)
	return saved, nil
}

// GetMine returns the caller's prediction for a race.
func (s *PredictionService) GetMine(ctx context.Context, userID, roomID, raceID string) (prediction.Prediction, error) {
	if _, err := requireParticipant(ctx, s.roomRepo, roomID, userID); err != nil {
		return prediction.Prediction{}, err
	}
	p, exists, err := s.predictionRepo.Get(ctx, roomID, raceID, userID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: no prediction for race %s", ErrNotFound, raceID)
	}
	return p, nil
}

// ListForRace returns every prediction of the race in the room. Before the
// race locks, only the caller's own prediction is visible.
func (s *PredictionService) ListForRace(ctx context.Context, userID, roomID, raceID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListForRace")
	defer span.End()

	rm, rc, err := s.loadRoomRace(ctx, roomID, raceID)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(ctx, s.roomRepo, rm.ID, userID); err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByRoomRace(ctx, rm.ID, rc.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	if lockout.Calculate(rm, &rc, s.now().UTC()).Locked {
		return items, nil
	}
	own := items[:0:0]
	for _, p := range items {
		if p.UserID == userID {
			own = append(own, p)
		}
	}
	return own, nil
}

func (s *PredictionService) loadRoomRace(ctx context.Context, roomID, raceID string) (room.Room, race.Race, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return room.Room{}, race.Race{}, err
	}
	rc, err := loadRace(ctx, s.raceRepo, raceID)
	if err != nil {
		return room.Room{}, race.Race{}, err
	}
	if err := checkRaceInRoomSeason(rm, rc); err != nil {
		return room.Room{}, race.Race{}, err
	}
	return rm, rc, nil
}
