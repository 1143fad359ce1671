package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"golang.org/x/sync/singleflight"
)

// ApplyResult counts the score rows written for one (room, race).
type ApplyResult struct {
	RoomID      string `json:"room_id"`
	RaceID      string `json:"race_id"`
	Predictions int    `json:"predictions"`
	Created     int    `json:"created"`
	Updated     int    `json:"updated"`
}

type ScoringService struct {
	roomRepo       room.Repository
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	scoreRepo      scoring.Repository
	metrics        SyncMetrics
	now            func() time.Time
	flight         singleflight.Group
}

func NewScoringService(
	roomRepo room.Repository,
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	scoreRepo scoring.Repository,
	metrics SyncMetrics,
) *ScoringService {
	if metrics == nil {
		metrics = NewNoopSyncMetrics()
	}
	return &ScoringService{
		roomRepo:       roomRepo,
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		scoreRepo:      scoreRepo,
		metrics:        metrics,
		now:            time.Now,
	}
}

// ApplyRoom scores every prediction of the race in the room and upserts the
// rows. Concurrent calls for the same pair share one execution.
func (s *ScoringService) ApplyRoom(ctx context.Context, roomID, raceID string) (ApplyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ApplyRoom")
	defer span.End()

	v, err, _ := s.flight.Do(roomID+"::"+raceID, func() (any, error) {
		return s.applyRoom(ctx, roomID, raceID)
	})
	if err != nil {
		return ApplyResult{}, err
	}
	return v.(ApplyResult), nil
}

// ScoreRoomRace is the host-triggered variant of ApplyRoom.
func (s *ScoringService) ScoreRoomRace(ctx context.Context, actorID, roomID, raceID string) (ApplyResult, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return ApplyResult{}, err
	}
	if !rm.IsHost(actorID) {
		return ApplyResult{}, fmt.Errorf("%w: only the room host can trigger scoring", ErrForbidden)
	}
	return s.ApplyRoom(ctx, rm.ID, raceID)
}

func (s *ScoringService) applyRoom(ctx context.Context, roomID, raceID string) (ApplyResult, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return ApplyResult{}, err
	}
	rc, err := loadRace(ctx, s.raceRepo, raceID)
	if err != nil {
		return ApplyResult{}, err
	}
	if !rc.HasResult() {
		return ApplyResult{}, fmt.Errorf("%w: race %s has no official result yet", ErrNotReady, rc.ID)
	}
	if err := checkRaceInRoomSeason(rm, rc); err != nil {
		return ApplyResult{}, err
	}

	preds, err := s.predictionRepo.ListByRoomRace(ctx, rm.ID, rc.ID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("list predictions: %w", err)
	}

	out := ApplyResult{RoomID: rm.ID, RaceID: rc.ID, Predictions: len(preds)}
	now := s.now().UTC()
	for _, p := range preds {
		b := scoring.Calculate(p, *rc.Result, rm.Scoring)
		created, err := s.scoreRepo.Upsert(ctx, scoring.Score{
			RoomID:                rm.ID,
			RaceID:                rc.ID,
			UserID:                p.UserID,
			Points:                b.Total,
			Breakdown:             b,
			PredictionSubmittedAt: p.SubmittedAt,
			CalculatedAt:          now,
		})
		if err != nil {
			return out, fmt.Errorf("upsert score user=%s: %w", p.UserID, err)
		}
		if created {
			out.Created++
		} else {
			out.Updated++
		}
	}
	s.metrics.ObserveRoomScored(out.Created, out.Updated)
	return out, nil
}
