package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	predictionmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/prediction"
	racemock "github.com/riskibarqy/race-predictor/internal/mocks/domain/race"
	roommock "github.com/riskibarqy/race-predictor/internal/mocks/domain/room"
	"github.com/stretchr/testify/mock"
)

type predictionFixture struct {
	rooms       *roommock.Repository
	races       *racemock.Repository
	predictions *predictionmock.Repository
	svc         *PredictionService
	now         time.Time
	room        room.Room
	race        race.Race
}

func newPredictionFixture(t *testing.T) *predictionFixture {
	t.Helper()

	now := time.Date(2026, time.February, 27, 12, 0, 0, 0, time.UTC)
	f := &predictionFixture{
		rooms:       roommock.NewRepository(t),
		races:       racemock.NewRepository(t),
		predictions: predictionmock.NewRepository(t),
		now:         now,
		room:        testRoom("room-a", "season-2026"),
		// qualifying starts 25h before the race, so the default lockout is
		// two days away.
		race: testRace("race-2026-01", "season-2026", now.Add(73*time.Hour)),
	}
	f.svc = NewPredictionService(f.rooms, f.races, f.predictions, nil)
	f.svc.now = fixedClock(now)
	return f
}

func (f *predictionFixture) input(userID string) SubmitPredictionInput {
	return SubmitPredictionInput{
		UserID: userID,
		RoomID: f.room.ID,
		RaceID: f.race.ID,
		Picks: []prediction.Pick{
			{Position: 1, DriverNumber: 1},
			{Position: 2, DriverNumber: 44},
		},
		PoleDriver: intPtr(1),
	}
}

func TestPredictionService_Submit_CreatesPrediction(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "user-1").
		Return(room.Participant{RoomID: f.room.ID, UserID: "user-1", Role: room.RoleParticipant}, true, nil).
		Once()
	f.predictions.On("Get", anyCtx, f.room.ID, f.race.ID, "user-1").Return(prediction.Prediction{}, false, nil).Once()
	f.predictions.On("Upsert", anyCtx, mock.MatchedBy(func(p prediction.Prediction) bool {
		return p.UserID == "user-1" && p.SubmittedAt.Equal(f.now) && len(p.Picks) == 2
	})).Return(func(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
		return p, nil
	}).Once()

	got, err := f.svc.Submit(context.Background(), f.input("user-1"))
	if err != nil {
		t.Fatalf("submit prediction: %v", err)
	}
	if !got.SubmittedAt.Equal(f.now) {
		t.Fatalf("unexpected submitted at: %s", got.SubmittedAt)
	}
}

func TestPredictionService_Submit_KeepsFirstSubmissionTime(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	first := f.now.Add(-24 * time.Hour)
	existing := testPrediction(f.room.ID, f.race.ID, "user-1", first)

	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "user-1").Return(room.Participant{}, true, nil).Once()
	f.predictions.On("Get", anyCtx, f.room.ID, f.race.ID, "user-1").Return(existing, true, nil).Once()
	f.predictions.On("Upsert", anyCtx, mock.MatchedBy(func(p prediction.Prediction) bool {
		return p.SubmittedAt.Equal(first) && p.UpdatedAt.Equal(f.now)
	})).Return(func(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
		return p, nil
	}).Once()

	got, err := f.svc.Update(context.Background(), f.input("user-1"))
	if err != nil {
		t.Fatalf("update prediction: %v", err)
	}
	if !got.SubmittedAt.Equal(first) {
		t.Fatalf("submission time should be kept: got=%s want=%s", got.SubmittedAt, first)
	}
}

func TestPredictionService_Submit_RejectsAfterLockout(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.race = testRace("race-2026-01", "season-2026", f.now.Add(2*time.Hour))

	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()

	_, err := f.svc.Submit(context.Background(), f.input("user-1"))
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestPredictionService_Submit_RejectsWhenRoomLocked(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.room.Status = room.StatusLocked

	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()

	_, err := f.svc.Submit(context.Background(), f.input("user-1"))
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestPredictionService_Submit_RequiresMembership(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "stranger").Return(room.Participant{}, false, nil).Once()

	_, err := f.svc.Submit(context.Background(), f.input("stranger"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPredictionService_Submit_RejectsInvalidPicks(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "user-1").Return(room.Participant{}, true, nil).Once()
	f.predictions.On("Get", anyCtx, f.room.ID, f.race.ID, "user-1").Return(prediction.Prediction{}, false, nil).Once()

	in := f.input("user-1")
	in.Picks = append(in.Picks, prediction.Pick{Position: 3, DriverNumber: 44})

	_, err := f.svc.Submit(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !errors.Is(err, prediction.ErrDuplicateDriver) {
		t.Fatalf("expected duplicate driver cause, got %v", err)
	}
}

func TestPredictionService_Submit_RejectsRaceFromOtherSeason(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	other := testRace("race-2025-01", "season-2025", f.now.Add(72*time.Hour))
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, other.ID).Return(other, true, nil).Once()

	in := f.input("user-1")
	in.RaceID = other.ID
	_, err := f.svc.Submit(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_Update_RequiresExisting(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "user-1").Return(room.Participant{}, true, nil).Once()
	f.predictions.On("Get", anyCtx, f.room.ID, f.race.ID, "user-1").Return(prediction.Prediction{}, false, nil).Once()

	_, err := f.svc.Update(context.Background(), f.input("user-1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPredictionService_ListForRace_HidesOthersBeforeLock(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(t)
	items := []prediction.Prediction{
		testPrediction(f.room.ID, f.race.ID, "user-1", f.now),
		testPrediction(f.room.ID, f.race.ID, "user-2", f.now),
	}
	f.rooms.On("GetByID", anyCtx, f.room.ID).Return(f.room, true, nil).Once()
	f.races.On("GetByID", anyCtx, f.race.ID).Return(f.race, true, nil).Once()
	f.rooms.On("GetParticipant", anyCtx, f.room.ID, "user-1").Return(room.Participant{}, true, nil).Once()
	f.predictions.On("ListByRoomRace", anyCtx, f.room.ID, f.race.ID).Return(items, nil).Once()

	got, err := f.svc.ListForRace(context.Background(), "user-1", f.room.ID, f.race.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "user-1" {
		t.Fatalf("expected only own prediction, got %+v", got)
	}
}
