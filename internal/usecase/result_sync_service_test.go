package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/race-predictor/internal/platform/id"
	predictionmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/prediction"
	racemock "github.com/riskibarqy/race-predictor/internal/mocks/domain/race"
	roommock "github.com/riskibarqy/race-predictor/internal/mocks/domain/room"
	scoringmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/scoring"
	seasonmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/season"
	syncrunmock "github.com/riskibarqy/race-predictor/internal/mocks/domain/syncrun"
	"github.com/stretchr/testify/mock"
)

type syncFixture struct {
	races       *racemock.Repository
	seasons     *seasonmock.Repository
	rooms       *roommock.Repository
	predictions *predictionmock.Repository
	scores      *scoringmock.Repository
	runs        *syncrunmock.Repository
	provider    *stubProvider
	queue       *recordingQueue
	svc         *ResultSyncService
}

func newSyncFixture(t *testing.T, cfg ResultSyncConfig) *syncFixture {
	t.Helper()

	f := &syncFixture{
		races:       racemock.NewRepository(t),
		seasons:     seasonmock.NewRepository(t),
		rooms:       roommock.NewRepository(t),
		predictions: predictionmock.NewRepository(t),
		scores:      scoringmock.NewRepository(t),
		runs:        syncrunmock.NewRepository(t),
		provider:    &stubProvider{},
		queue:       &recordingQueue{},
	}
	scorer := NewScoringService(f.rooms, f.races, f.predictions, f.scores, nil)
	f.svc = NewResultSyncService(
		f.races, f.seasons, f.rooms, f.predictions, f.scores, f.runs,
		scorer, f.provider, f.queue, nil, &id.Sequence{Prefix: "run"}, cfg, nil,
	)
	f.svc.sleep = noSleep
	return f
}

func TestResultSyncService_SyncRace_SkipsRoomsAlreadyScored(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rc := testRace("race-2026-01", "season-2026", time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC))
	result := testResult()
	rc.Result = &result

	scored := testRoom("room-a", "season-2026")
	pending := testRoom("room-b", "season-2026")

	f.races.On("GetByID", anyCtx, rc.ID).Return(rc, true, nil)
	f.seasons.On("GetByID", anyCtx, "season-2026").Return(season.Season{ID: "season-2026", Year: 2026}, true, nil).Once()
	f.rooms.On("ListBySeason", anyCtx, "season-2026").Return([]room.Room{pending, scored}, nil).Once()

	f.scores.On("CountByRoomRace", anyCtx, "room-a", rc.ID).Return(2, nil).Once()
	f.predictions.On("CountByRoomRace", anyCtx, "room-a", rc.ID).Return(2, nil).Once()

	f.scores.On("CountByRoomRace", anyCtx, "room-b", rc.ID).Return(0, nil).Once()
	f.predictions.On("CountByRoomRace", anyCtx, "room-b", rc.ID).Return(1, nil).Once()
	f.rooms.On("GetByID", anyCtx, "room-b").Return(pending, true, nil).Once()
	submitted := time.Date(2026, time.February, 27, 10, 0, 0, 0, time.UTC)
	f.predictions.On("ListByRoomRace", anyCtx, "room-b", rc.ID).
		Return([]prediction.Prediction{testPrediction("room-b", rc.ID, "user-1", submitted)}, nil).
		Once()
	f.scores.On("Upsert", anyCtx, mock.MatchedBy(func(s scoring.Score) bool {
		return s.RoomID == "room-b" && s.UserID == "user-1" && s.PredictionSubmittedAt.Equal(submitted)
	})).Return(true, nil).Once()
	f.runs.On("Save", anyCtx, mock.MatchedBy(func(run syncrun.Run) bool {
		return run.Status == syncrun.StatusSucceeded && run.RoomsScored == 1
	})).Return(nil).Once()

	got, err := f.svc.SyncRace(context.Background(), rc.ID, syncrun.TriggerPoller)
	if err != nil {
		t.Fatalf("sync race: %v", err)
	}
	if f.provider.calls != 0 {
		t.Fatalf("provider should not be called when a result is stored, calls=%d", f.provider.calls)
	}
	if got.RoomsProcessed != 2 || got.RoomsScored != 1 || got.ScoresCreated != 1 {
		t.Fatalf("unexpected sync result: %+v", got)
	}
	if !got.Success || len(got.Errors) != 0 {
		t.Fatalf("expected clean success, got %+v", got)
	}
	if got.RunID != "run-1" {
		t.Fatalf("unexpected run id: %s", got.RunID)
	}
}

func TestResultSyncService_SyncRace_RoomWithoutPredictionsIsApplied(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rc := testRace("race-2026-01", "season-2026", time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC))
	result := testResult()
	rc.Result = &result
	rm := testRoom("room-a", "season-2026")

	f.races.On("GetByID", anyCtx, rc.ID).Return(rc, true, nil)
	f.seasons.On("GetByID", anyCtx, "season-2026").Return(season.Season{ID: "season-2026"}, true, nil).Once()
	f.rooms.On("ListBySeason", anyCtx, "season-2026").Return([]room.Room{rm}, nil).Once()
	f.scores.On("CountByRoomRace", anyCtx, "room-a", rc.ID).Return(0, nil).Once()
	f.predictions.On("CountByRoomRace", anyCtx, "room-a", rc.ID).Return(0, nil).Once()
	f.rooms.On("GetByID", anyCtx, "room-a").Return(rm, true, nil).Once()
	f.predictions.On("ListByRoomRace", anyCtx, "room-a", rc.ID).Return([]prediction.Prediction{}, nil).Once()
	f.runs.On("Save", anyCtx, mock.Anything).Return(nil).Once()

	got, err := f.svc.SyncRace(context.Background(), rc.ID, syncrun.TriggerHost)
	if err != nil {
		t.Fatalf("sync race: %v", err)
	}
	if got.RoomsProcessed != 1 || got.RoomsScored != 1 || got.ScoresCreated != 0 {
		t.Fatalf("unexpected sync result: %+v", got)
	}
}

func TestResultSyncService_SyncRace_RerunKeepsScoresStable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC)
	rc := testRace("race-2026-01", "season-2026", start)
	result := testResult()
	rc.Result = &result
	rm := testRoom("room-a", "season-2026")

	races := memory.NewRaceRepository([]race.Race{rc})
	seasons := memory.NewSeasonRepository([]season.Season{{ID: "season-2026", Year: 2026}})
	rooms := memory.NewRoomRepository()
	predictions := memory.NewPredictionRepository()
	scores := memory.NewScoreRepository()
	runs := memory.NewSyncRunRepository()

	if err := rooms.Create(ctx, rm, room.Participant{RoomID: rm.ID, UserID: rm.HostID, Role: room.RoleHost, JoinedAt: start}); err != nil {
		t.Fatalf("create room: %v", err)
	}
	for i, userID := range []string{"user-1", "user-2"} {
		p := testPrediction(rm.ID, rc.ID, userID, start.Add(-time.Duration(48+i)*time.Hour))
		if _, err := predictions.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert prediction: %v", err)
		}
	}

	scorer := NewScoringService(rooms, races, predictions, scores, nil)
	svc := NewResultSyncService(
		races, seasons, rooms, predictions, scores, runs,
		scorer, &stubProvider{}, nil, nil, &id.Sequence{Prefix: "run"}, ResultSyncConfig{}, nil,
	)
	svc.sleep = noSleep

	snapshot := func() map[string]float64 {
		t.Helper()
		rows, err := scores.ListByRoomRace(ctx, rm.ID, rc.ID)
		if err != nil {
			t.Fatalf("list scores: %v", err)
		}
		out := make(map[string]float64, len(rows))
		for _, row := range rows {
			if _, dup := out[row.UserID]; dup {
				t.Fatalf("duplicate score row for %s", row.UserID)
			}
			out[row.UserID] = row.Points
		}
		return out
	}

	first, err := svc.SyncRace(ctx, rc.ID, syncrun.TriggerPoller)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.RoomsScored != 1 || first.ScoresCreated != 2 {
		t.Fatalf("unexpected first sync: %+v", first)
	}
	before := snapshot()

	second, err := svc.SyncRace(ctx, rc.ID, syncrun.TriggerPoller)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.RoomsScored != 0 || second.ScoresCreated != 0 {
		t.Fatalf("rerun should not rescore: %+v", second)
	}
	after := snapshot()

	if len(before) != 2 || len(after) != len(before) {
		t.Fatalf("score rows changed: before=%v after=%v", before, after)
	}
	for userID, pts := range before {
		if after[userID] != pts {
			t.Fatalf("%s total changed: %v -> %v", userID, pts, after[userID])
		}
	}
}

func TestResultSyncService_SyncRace_IsolatesRoomFailures(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rc := testRace("race-2026-01", "season-2026", time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC))
	f.provider.result = testResult()

	broken := testRoom("room-a", "season-2026")
	healthy := testRoom("room-b", "season-2026")

	stored := rc
	res := testResult()
	stored.Result = &res
	f.races.On("GetByID", anyCtx, rc.ID).Return(rc, true, nil).Once()
	f.races.On("GetByID", anyCtx, rc.ID).Return(stored, true, nil).Once()
	f.races.On("SetOfficialResult", anyCtx, rc.ID, mock.Anything).Return(nil).Once()
	f.seasons.On("GetByID", anyCtx, "season-2026").Return(season.Season{ID: "season-2026"}, true, nil).Once()
	f.rooms.On("ListBySeason", anyCtx, "season-2026").Return([]room.Room{healthy, broken}, nil).Once()

	f.scores.On("CountByRoomRace", anyCtx, "room-a", rc.ID).Return(0, errors.New("connection reset")).Once()

	f.scores.On("CountByRoomRace", anyCtx, "room-b", rc.ID).Return(0, nil).Once()
	f.predictions.On("CountByRoomRace", anyCtx, "room-b", rc.ID).Return(1, nil).Once()
	f.rooms.On("GetByID", anyCtx, "room-b").Return(healthy, true, nil).Once()
	f.predictions.On("ListByRoomRace", anyCtx, "room-b", rc.ID).
		Return([]prediction.Prediction{testPrediction("room-b", rc.ID, "user-1", time.Now())}, nil).
		Once()
	f.scores.On("Upsert", anyCtx, mock.Anything).Return(false, nil).Once()
	f.runs.On("Save", anyCtx, mock.MatchedBy(func(run syncrun.Run) bool {
		return run.Status == syncrun.StatusPartial
	})).Return(nil).Once()

	got, err := f.svc.SyncRace(context.Background(), rc.ID, syncrun.TriggerPoller)
	if err != nil {
		t.Fatalf("room failures must not fail the race sync: %v", err)
	}
	if f.provider.calls != 1 {
		t.Fatalf("expected one provider fetch, got %d", f.provider.calls)
	}
	if got.RoomsProcessed != 2 || got.RoomsScored != 1 || got.ScoresUpdated != 1 {
		t.Fatalf("unexpected sync result: %+v", got)
	}
	if len(got.Errors) != 1 || !strings.Contains(got.Errors[0], "room-a") {
		t.Fatalf("expected one error for room-a, got %v", got.Errors)
	}
	if !got.Success {
		t.Fatalf("partial run should still report success")
	}
}

func TestResultSyncService_SyncRace_ResultNotPublished(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rc := testRace("race-2026-01", "season-2026", time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC))
	f.provider.err = ErrNotReady

	f.races.On("GetByID", anyCtx, rc.ID).Return(rc, true, nil).Once()
	f.runs.On("Save", anyCtx, mock.MatchedBy(func(run syncrun.Run) bool {
		return run.Status == syncrun.StatusFailed && run.FinishedAt != nil
	})).Return(nil).Once()

	got, err := f.svc.SyncRace(context.Background(), rc.ID, syncrun.TriggerPoller)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if got.Success {
		t.Fatalf("failed run must not report success")
	}
}

func TestResultSyncService_SyncRace_ProviderErrorBecomesDependencyUnavailable(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rc := testRace("race-2026-01", "season-2026", time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC))
	f.provider.err = errors.New("dial tcp: i/o timeout")

	f.races.On("GetByID", anyCtx, rc.ID).Return(rc, true, nil).Once()
	f.runs.On("Save", anyCtx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := f.svc.SyncRace(context.Background(), rc.ID, syncrun.TriggerPoller)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestResultSyncService_SyncRace_UnknownRace(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	f.races.On("GetByID", anyCtx, "race-missing").Return(race.Race{}, false, nil).Once()
	f.runs.On("Save", anyCtx, mock.Anything).Return(nil).Once()

	_, err := f.svc.SyncRace(context.Background(), "race-missing", syncrun.TriggerJob)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResultSyncService_SyncSeason_QueuesStartedRaces(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{UseJobQueue: true, InterRaceDelay: 5 * time.Second})
	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = fixedClock(now)

	rm := testRoom("room-a", "season-2026")
	first := testRace("race-2026-01", "season-2026", now.Add(-30*24*time.Hour))
	second := testRace("race-2026-02", "season-2026", now.Add(-7*24*time.Hour))
	second.Round = 2
	future := testRace("race-2026-03", "season-2026", now.Add(7*24*time.Hour))
	future.Round = 3

	f.rooms.On("GetByID", anyCtx, rm.ID).Return(rm, true, nil).Once()
	f.races.On("ListBySeason", anyCtx, "season-2026").Return([]race.Race{future, second, first}, nil).Once()

	got, err := f.svc.SyncSeason(context.Background(), "host-1", rm.ID)
	if err != nil {
		t.Fatalf("sync season: %v", err)
	}
	if got.Mode != "queued" || got.Queued != 2 {
		t.Fatalf("unexpected season sync: %+v", got)
	}
	if len(f.queue.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(f.queue.jobs))
	}
	if f.queue.jobs[0].delay != 0 || f.queue.jobs[1].delay != 5*time.Second {
		t.Fatalf("expected staggered delays, got %v and %v", f.queue.jobs[0].delay, f.queue.jobs[1].delay)
	}
	payload, ok := f.queue.jobs[0].payload.(SyncRaceJobPayload)
	if !ok || payload.RaceID != first.ID {
		t.Fatalf("first job should target round 1, got %+v", f.queue.jobs[0].payload)
	}
	if f.queue.jobs[0].path != SyncRaceJobPath || f.queue.jobs[0].dedupID == "" {
		t.Fatalf("unexpected job metadata: %+v", f.queue.jobs[0])
	}
}

func TestResultSyncService_SyncSeason_RequiresHost(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t, ResultSyncConfig{})
	rm := testRoom("room-a", "season-2026")
	f.rooms.On("GetByID", anyCtx, rm.ID).Return(rm, true, nil).Once()

	_, err := f.svc.SyncSeason(context.Background(), "user-2", rm.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSyncDedupID_StableWithinHour(t *testing.T) {
	t.Parallel()

	a := syncDedupID("race-2026-01", time.Date(2026, time.March, 1, 15, 5, 0, 0, time.UTC))
	b := syncDedupID("race-2026-01", time.Date(2026, time.March, 1, 15, 55, 0, 0, time.UTC))
	c := syncDedupID("race-2026-01", time.Date(2026, time.March, 1, 16, 5, 0, 0, time.UTC))
	if a != b {
		t.Fatalf("expected same id within the hour: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("expected different id across hours: %s", a)
	}
}
