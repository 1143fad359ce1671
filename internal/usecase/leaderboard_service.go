package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/race-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
)

// LeaderboardRow is a ranked entry with the user's public profile.
type LeaderboardRow struct {
	leaderboard.Entry
	Username  string
	AvatarURL string
}

type LeaderboardService struct {
	roomRepo  room.Repository
	raceRepo  race.Repository
	scoreRepo scoring.Repository
	userRepo  user.Repository
}

func NewLeaderboardService(
	roomRepo room.Repository,
	raceRepo race.Repository,
	scoreRepo scoring.Repository,
	userRepo user.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		roomRepo:  roomRepo,
		raceRepo:  raceRepo,
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
	}
}

func (s *LeaderboardService) RaceLeaderboard(ctx context.Context, userID, roomID, raceID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RaceLeaderboard")
	defer span.End()

	rm, err := s.loadForMember(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	rc, err := loadRace(ctx, s.raceRepo, raceID)
	if err != nil {
		return nil, err
	}
	if err := checkRaceInRoomSeason(rm, rc); err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.ListByRoomRace(ctx, rm.ID, rc.ID)
	if err != nil {
		return nil, fmt.Errorf("list scores by room race: %w", err)
	}
	return s.withProfiles(ctx, leaderboard.ForRace(scores))
}

func (s *LeaderboardService) RoomLeaderboard(ctx context.Context, userID, roomID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RoomLeaderboard")
	defer span.End()

	rm, err := s.loadForMember(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListByRoom(ctx, rm.ID)
	if err != nil {
		return nil, fmt.Errorf("list scores by room: %w", err)
	}
	return s.withProfiles(ctx, leaderboard.Cumulative(scores))
}

func (s *LeaderboardService) loadForMember(ctx context.Context, userID, roomID string) (room.Room, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return room.Room{}, err
	}
	if _, err := requireParticipant(ctx, s.roomRepo, rm.ID, userID); err != nil {
		return room.Room{}, err
	}
	return rm, nil
}

func (s *LeaderboardService) withProfiles(ctx context.Context, entries []leaderboard.Entry) ([]LeaderboardRow, error) {
	rows := make([]LeaderboardRow, 0, len(entries))
	if len(entries) == 0 {
		return rows, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, e := range entries {
		row := LeaderboardRow{Entry: e}
		if u, ok := byID[e.UserID]; ok {
			row.Username = u.Username
			row.AvatarURL = u.AvatarURL
		}
		rows = append(rows, row)
	}
	return rows, nil
}
