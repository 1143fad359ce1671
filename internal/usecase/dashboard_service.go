package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/lockout"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
)

// Dashboard is the signed-in home view: the next race and, for each of the
// user's rooms in the current season, whether a prediction is still due.
type Dashboard struct {
	Season      season.Season
	NextRace    *race.Race
	TotalPoints float64
	Rooms       []DashboardRoom
}

type DashboardRoom struct {
	Room          room.Room
	Lockout       lockout.Evaluation
	HasPrediction bool
}

type DashboardService struct {
	seasons        *SeasonService
	raceRepo       race.Repository
	roomRepo       room.Repository
	predictionRepo prediction.Repository
	stats          *StatsService
	now            func() time.Time
}

func NewDashboardService(
	seasons *SeasonService,
	raceRepo race.Repository,
	roomRepo room.Repository,
	predictionRepo prediction.Repository,
	stats *StatsService,
) *DashboardService {
	return &DashboardService{
		seasons:        seasons,
		raceRepo:       raceRepo,
		roomRepo:       roomRepo,
		predictionRepo: predictionRepo,
		stats:          stats,
		now:            time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	current, err := s.seasons.CurrentSeason(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	races, err := s.raceRepo.ListBySeason(ctx, current.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list races: %w", err)
	}

	now := s.now().UTC()
	out := Dashboard{Season: current, Rooms: []DashboardRoom{}}
	out.NextRace = nextRace(races, now)

	stats, err := s.stats.UserSeasonStats(ctx, userID, current.ID)
	if err != nil {
		return Dashboard{}, err
	}
	out.TotalPoints = stats.TotalPoints

	rooms, err := s.roomRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list rooms by participant: %w", err)
	}
	for _, rm := range rooms {
		if rm.SeasonID != current.ID {
			continue
		}
		item := DashboardRoom{Room: rm, Lockout: lockout.Calculate(rm, out.NextRace, now)}
		if out.NextRace != nil {
			_, exists, err := s.predictionRepo.Get(ctx, rm.ID, out.NextRace.ID, userID)
			if err != nil {
				return Dashboard{}, fmt.Errorf("get prediction: %w", err)
			}
			item.HasPrediction = exists
		}
		out.Rooms = append(out.Rooms, item)
	}
	return out, nil
}

// nextRace returns the first race that has not produced a result, preferring
// races still to start.
func nextRace(races []race.Race, now time.Time) *race.Race {
	sorted := append([]race.Race(nil), races...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Round < sorted[j].Round })
	for i := range sorted {
		if !sorted[i].HasResult() && !sorted[i].Started(now) {
			return &sorted[i]
		}
	}
	for i := range sorted {
		if !sorted[i].HasResult() {
			return &sorted[i]
		}
	}
	return nil
}
