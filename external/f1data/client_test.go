package f1data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg ClientConfig) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.HTTPClient = srv.Client()
	cfg.ResultsBaseURL = srv.URL
	cfg.ScheduleBaseURL = srv.URL + "/calendar"
	cfg.RetryBackoff = time.Millisecond
	cfg.Logger = logging.NewNop()
	client := NewClient(cfg)
	client.now = func() time.Time { return time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC) }
	return client
}

func testRace() race.Race {
	return race.Race{ID: "race-2026-01", StartsAt: time.Date(2026, time.March, 8, 4, 0, 0, 0, time.UTC)}
}

func TestClient_FetchRaceResult(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.RawQuery
		switch {
		case r.URL.Path == "/sessions" && strings.Contains(q, "session_type=Race"):
			_, _ = w.Write([]byte(`[{"session_key": 9001, "session_name": "Race", "date_start": "2026-03-08T04:00:00+00:00"}]`))
		case r.URL.Path == "/sessions" && strings.Contains(q, "session_type=Qualifying"):
			_, _ = w.Write([]byte(`[
				{"session_key": 8999, "session_name": "Sprint Qualifying", "date_start": "2026-03-06T07:30:00+00:00"},
				{"session_key": 9000, "session_name": "Qualifying", "date_start": "2026-03-07T05:00:00+00:00"}
			]`))
		case r.URL.Path == "/position" && q == "session_key=9001":
			_, _ = w.Write([]byte(`[
				{"date": "2026-03-08T04:00:00", "driver_number": 1, "position": 1},
				{"date": "2026-03-08T04:00:00", "driver_number": 44, "position": 2},
				{"date": "2026-03-08T04:00:00", "driver_number": "16", "position": 3},
				{"date": "2026-03-08T05:30:00", "driver_number": 44, "position": 1},
				{"date": "2026-03-08T05:30:00", "driver_number": 1, "position": 2}
			]`))
		case r.URL.Path == "/position" && q == "session_key=9000":
			_, _ = w.Write([]byte(`[{"date": "2026-03-07T06:00:00", "driver_number": 16, "position": 1}]`))
		case r.URL.Path == "/laps":
			_, _ = w.Write([]byte(`[
				{"driver_number": 1, "lap_duration": 81.2},
				{"driver_number": 16, "lap_duration": 80.9},
				{"driver_number": 44, "lap_duration": null}
			]`))
		case r.URL.Path == "/session_result":
			_, _ = w.Write([]byte(`[{"driver_number": 16, "dnf": true}, {"driver_number": 1, "dnf": false}]`))
		default:
			http.NotFound(w, r)
		}
	}, ClientConfig{})

	got, err := client.FetchRaceResult(context.Background(), testRace())
	if err != nil {
		t.Fatalf("fetch race result: %v", err)
	}
	if len(got.Positions) != 3 {
		t.Fatalf("expected 3 classified drivers, got %+v", got.Positions)
	}
	want := []int{44, 1, 16}
	for i, p := range got.Positions {
		if p.DriverNumber != want[i] || p.Position != i+1 {
			t.Fatalf("unexpected position %d: %+v", i, p)
		}
	}
	if got.Positions[0].Points != 25 || got.Positions[2].Points != 15 {
		t.Fatalf("unexpected points: %+v", got.Positions)
	}
	if got.FastestLapDriver == nil || *got.FastestLapDriver != 16 {
		t.Fatalf("unexpected fastest lap: %v", got.FastestLapDriver)
	}
	if got.PoleDriver == nil || *got.PoleDriver != 16 {
		t.Fatalf("unexpected pole: %v", got.PoleDriver)
	}
	if len(got.DNFDrivers) != 1 || got.DNFDrivers[0] != 16 {
		t.Fatalf("unexpected dnf list: %v", got.DNFDrivers)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("result should validate: %v", err)
	}
}

func TestClient_FetchRaceResult_NotReadyWithoutSession(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, ClientConfig{})

	_, err := client.FetchRaceResult(context.Background(), testRace())
	if !errors.Is(err, usecase.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestClient_RetriesThenReportsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, ClientConfig{MaxRetries: 2})

	_, err := client.FetchDrivers(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, ClientConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}})

	for range 3 {
		if _, err := client.FetchDrivers(context.Background()); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("open breaker should short-circuit the third call, got %d requests", got)
	}
}

func TestClient_FetchDrivers_AcceptsWrappedShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bare array":  `[{"driver_number": 44, "full_name": "Lewis HAMILTON"}, {"driver_number": 1, "name_acronym": "VER"}]`,
		"drivers key": `{"drivers": [{"number": "44"}, {"number": 1}]}`,
		"driver key":  `{"driver": [{"driverNumber": 1}, {"driverNumber": "44"}, {"driverNumber": 44}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}, ClientConfig{})

			got, err := client.FetchDrivers(context.Background())
			if err != nil {
				t.Fatalf("fetch drivers: %v", err)
			}
			if len(got) != 2 || got[0].Number != 1 || got[1].Number != 44 {
				t.Fatalf("unexpected drivers: %+v", got)
			}
		})
	}
}

func TestClient_FetchSeasonSchedule(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar/2026" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"races": [
			{"round": 1, "raceName": "Australian Grand Prix",
			 "circuit": {"circuitName": "Albert Park", "city": "Melbourne", "country": "Australia"},
			 "schedule": {
				"fp1": {"date": "2026-03-06", "time": "01:30:00Z"},
				"qualy": {"date": "2026-03-07", "time": "05:00:00Z"},
				"race": {"date": "2026-03-08", "time": "04:00:00Z"}
			 }},
			{"round": "2", "raceName": "Chinese Grand Prix", "schedule": {"race": {"date": "2026-03-15", "time": null}}},
			{"round": 3, "raceName": "TBC", "schedule": {"race": {"date": null, "time": null}}}
		]}`))
	}, ClientConfig{})

	got, err := client.FetchSeasonSchedule(context.Background(), 2026)
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the undated round to be skipped, got %d races", len(got))
	}

	first := got[0]
	if !first.StartsAt.Equal(time.Date(2026, time.March, 8, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected race start: %s", first.StartsAt)
	}
	if first.Sessions.Qualifying == nil || first.Sessions.Qualifying.End.Sub(first.Sessions.Qualifying.Start) != 2*time.Hour {
		t.Fatalf("unexpected qualifying window: %+v", first.Sessions.Qualifying)
	}
	if first.Sessions.FP2 != nil {
		t.Fatalf("missing session should stay unknown")
	}

	second := got[1]
	if second.Round != 2 || second.StartsAt.Hour() != 12 {
		t.Fatalf("expected noon fallback for undated race time, got round=%d start=%s", second.Round, second.StartsAt)
	}
	if second.Sessions.Race != nil {
		t.Fatalf("race window needs an explicit time")
	}
}
