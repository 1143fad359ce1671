package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	roommock "github.com/riskibarqy/race-predictor/internal/mocks/domain/room"
	scoringmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/scoring"
)

func TestStatsService_UserSeasonStats(t *testing.T) {
	t.Parallel()

	rooms := roommock.NewRepository(t)
	scores := scoringmock.NewRepository(t)

	rooms.On("ListByParticipant", anyCtx, "user-1").Return([]room.Room{
		testRoom("room-a", "season-2026"),
		testRoom("room-b", "season-2026"),
		testRoom("room-old", "season-2025"),
	}, nil).Once()
	scores.On("ListByRoomUser", anyCtx, "room-a", "user-1").Return([]scoring.Score{
		{Points: 30}, {Points: 10},
	}, nil).Once()
	scores.On("ListByRoomUser", anyCtx, "room-b", "user-1").Return([]scoring.Score{}, nil).Once()

	svc := NewStatsService(rooms, scores)
	got, err := svc.UserSeasonStats(context.Background(), "user-1", "season-2026")
	if err != nil {
		t.Fatalf("user season stats: %v", err)
	}
	if got.TotalRooms != 2 || got.RoomsParticipated != 1 {
		t.Fatalf("unexpected room counts: %+v", got)
	}
	if got.TotalPoints != 40 || got.RacesScored != 2 || got.AveragePoints != 20 || got.BestRacePoints != 30 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestStatsService_UserSeasonStats_RequiresSeason(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(roommock.NewRepository(t), scoringmock.NewRepository(t))
	_, err := svc.UserSeasonStats(context.Background(), "user-1", " ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
