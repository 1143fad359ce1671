package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	racemock "github.com/riskibarqy/race-predictor/internal/mocks/domain/race"
	roommock "github.com/riskibarqy/race-predictor/internal/mocks/domain/room"
	scoringmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/scoring"
	usermock "github.com/riskibarqy/race-predictor/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
)

func TestLeaderboardService_RoomLeaderboard_RanksWithProfiles(t *testing.T) {
	t.Parallel()

	rooms := roommock.NewRepository(t)
	scores := scoringmock.NewRepository(t)
	users := usermock.NewRepository(t)
	rm := testRoom("room-a", "season-2026")
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	rooms.On("GetByID", anyCtx, rm.ID).Return(rm, true, nil).Once()
	rooms.On("GetParticipant", anyCtx, rm.ID, "user-1").Return(room.Participant{}, true, nil).Once()
	scores.On("ListByRoom", anyCtx, rm.ID).Return([]scoring.Score{
		{RoomID: rm.ID, RaceID: "race-2026-01", UserID: "user-2", Points: 20, PredictionSubmittedAt: base.Add(time.Hour)},
		{RoomID: rm.ID, RaceID: "race-2026-01", UserID: "user-1", Points: 12, PredictionSubmittedAt: base},
		{RoomID: rm.ID, RaceID: "race-2026-02", UserID: "user-1", Points: 8, PredictionSubmittedAt: base.Add(48 * time.Hour)},
		{RoomID: rm.ID, RaceID: "race-2026-01", UserID: "user-3", Points: 5, PredictionSubmittedAt: base},
	}, nil).Once()
	users.On("ListByIDs", anyCtx, mock.Anything).Return([]user.User{
		{ID: "user-1", Username: "lando"},
		{ID: "user-2", Username: "oscar"},
	}, nil).Once()

	svc := NewLeaderboardService(rooms, racemock.NewRepository(t), scores, users)
	got, err := svc.RoomLeaderboard(context.Background(), "user-1", rm.ID)
	if err != nil {
		t.Fatalf("room leaderboard: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	// user-1 and user-2 tie on 20; user-1 submitted first.
	if got[0].UserID != "user-1" || got[0].Username != "lando" || got[0].Rank != 1 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].UserID != "user-2" || got[1].Rank != 1 {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
	if got[2].UserID != "user-3" || got[2].Rank != 2 || got[2].Username != "" {
		t.Fatalf("unexpected third row: %+v", got[2])
	}
}

func TestLeaderboardService_RaceLeaderboard_RequiresMembership(t *testing.T) {
	t.Parallel()

	rooms := roommock.NewRepository(t)
	rm := testRoom("room-a", "season-2026")
	rooms.On("GetByID", anyCtx, rm.ID).Return(rm, true, nil).Once()
	rooms.On("GetParticipant", anyCtx, rm.ID, "stranger").Return(room.Participant{}, false, nil).Once()

	svc := NewLeaderboardService(rooms, racemock.NewRepository(t), scoringmock.NewRepository(t), usermock.NewRepository(t))
	_, err := svc.RaceLeaderboard(context.Background(), "stranger", rm.ID, "race-2026-01")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
