package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/stretchr/testify/mock"
)

var anyCtx = mock.Anything

func intPtr(v int) *int { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testRoom(id, seasonID string) room.Room {
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	return room.Room{
		ID:        id,
		HostID:    "host-1",
		SeasonID:  seasonID,
		Name:      "Paddock Club",
		Lockout:   room.DefaultLockout(),
		Scoring:   scoring.DefaultConfig(),
		Status:    room.StatusOpen,
		JoinCode:  "ABC234",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testRace(id, seasonID string, startsAt time.Time) race.Race {
	quali := race.SessionWindow{Start: startsAt.Add(-25 * time.Hour), End: startsAt.Add(-24 * time.Hour)}
	return race.Race{
		ID:       id,
		SeasonID: seasonID,
		Round:    1,
		Name:     "Bahrain Grand Prix",
		StartsAt: startsAt,
		Sessions: &race.SessionTimes{Qualifying: &quali},
	}
}

func testResult() race.OfficialResult {
	return race.OfficialResult{
		Positions: []race.ResultPosition{
			{Position: 1, DriverNumber: 44},
			{Position: 2, DriverNumber: 16},
			{Position: 3, DriverNumber: 1},
		},
		FastestLapDriver: intPtr(16),
		PoleDriver:       intPtr(44),
		RecordedAt:       time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC),
	}
}

func testPrediction(roomID, raceID, userID string, submittedAt time.Time) prediction.Prediction {
	return prediction.Prediction{
		RoomID: roomID,
		RaceID: raceID,
		UserID: userID,
		Picks: []prediction.Pick{
			{Position: 1, DriverNumber: 44},
			{Position: 2, DriverNumber: 1},
		},
		PoleDriver:  intPtr(44),
		SubmittedAt: submittedAt,
		UpdatedAt:   submittedAt,
	}
}

type stubProvider struct {
	result  race.OfficialResult
	err     error
	calls   int
	races   []ExternalRace
	drivers []driver.Driver
}

func (p *stubProvider) FetchRaceResult(_ context.Context, _ race.Race) (race.OfficialResult, error) {
	p.calls++
	return p.result, p.err
}

func (p *stubProvider) FetchSeasonSchedule(_ context.Context, _ int) ([]ExternalRace, error) {
	return p.races, p.err
}

func (p *stubProvider) FetchDrivers(_ context.Context) ([]driver.Driver, error) {
	return p.drivers, p.err
}

type recordedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type recordingQueue struct {
	jobs []recordedJob
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, recordedJob{path: path, payload: payload, delay: delay, dedupID: dedupID})
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }
