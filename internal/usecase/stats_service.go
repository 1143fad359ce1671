package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/sourcegraph/conc/pool"
)

const statsMaxGoroutines = 4

type UserSeasonStats struct {
	UserID            string  `json:"user_id"`
	SeasonID          string  `json:"season_id"`
	TotalPoints       float64 `json:"total_points"`
	AveragePoints     float64 `json:"average_points"`
	BestRacePoints    float64 `json:"best_race_points"`
	RacesScored       int     `json:"races_scored"`
	RoomsParticipated int     `json:"rooms_participated"`
	TotalRooms        int     `json:"total_rooms"`
}

type StatsService struct {
	roomRepo  room.Repository
	scoreRepo scoring.Repository
}

func NewStatsService(roomRepo room.Repository, scoreRepo scoring.Repository) *StatsService {
	return &StatsService{roomRepo: roomRepo, scoreRepo: scoreRepo}
}

// UserSeasonStats aggregates the user's scores across every room of the
// season they belong to.
func (s *StatsService) UserSeasonStats(ctx context.Context, userID, seasonID string) (UserSeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.UserSeasonStats")
	defer span.End()

	userID = strings.TrimSpace(userID)
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return UserSeasonStats{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	rooms, err := s.roomRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return UserSeasonStats{}, fmt.Errorf("list rooms by participant: %w", err)
	}

	out := UserSeasonStats{UserID: userID, SeasonID: seasonID}
	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(statsMaxGoroutines).WithContext(ctx).WithCancelOnError()
	for _, rm := range rooms {
		if rm.SeasonID != seasonID {
			continue
		}
		out.TotalRooms++
		roomID := rm.ID
		p.Go(func(ctx context.Context) error {
			scores, err := s.scoreRepo.ListByRoomUser(ctx, roomID, userID)
			if err != nil {
				return fmt.Errorf("list scores room=%s: %w", roomID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if len(scores) > 0 {
				out.RoomsParticipated++
			}
			for _, sc := range scores {
				out.TotalPoints += sc.Points
				out.RacesScored++
				out.BestRacePoints = max(out.BestRacePoints, sc.Points)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return UserSeasonStats{}, err
	}

	if out.RacesScored > 0 {
		out.AveragePoints = out.TotalPoints / float64(out.RacesScored)
	}
	return out, nil
}
