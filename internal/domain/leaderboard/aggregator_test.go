package leaderboard

import (
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func score(user, raceID string, points float64, submittedAfter time.Duration) scoring.Score {
	return scoring.Score{
		RoomID:                "room-1",
		RaceID:                raceID,
		UserID:                user,
		Points:                points,
		Breakdown:             scoring.Breakdown{PositionPoints: points, Total: points},
		PredictionSubmittedAt: t0.Add(submittedAfter),
	}
}

func TestForRace_OrdersAndBreaksTies(t *testing.T) {
	t.Parallel()

	entries := ForRace([]scoring.Score{
		score("carol", "r1", 18, 3*time.Hour),
		score("alice", "r1", 25, 2*time.Hour),
		score("bob", "r1", 18, time.Hour),
		score("dave", "r1", 18, time.Hour),
		score("erin", "r1", 4, 0),
	})

	wantOrder := []string{"alice", "bob", "dave", "carol", "erin"}
	wantRank := []int{1, 2, 2, 2, 3}
	for i, e := range entries {
		if e.UserID != wantOrder[i] || e.Rank != wantRank[i] {
			t.Fatalf("position %d: got %s rank %d, want %s rank %d", i, e.UserID, e.Rank, wantOrder[i], wantRank[i])
		}
	}
}

func TestCumulative_SumsPerUser(t *testing.T) {
	t.Parallel()

	scores := []scoring.Score{
		score("alice", "r1", 10, 5*time.Hour),
		score("bob", "r1", 20, 2*time.Hour),
		score("alice", "r2", 15, time.Hour),
		score("bob", "r2", 5, 6*time.Hour),
		score("carol", "r2", 30, 0),
	}
	entries := Cumulative(scores)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// carol 30 (submitted t0), alice 25 (earliest t0+1h), bob 25 (earliest t0+2h)
	want := []struct {
		user  string
		pts   float64
		rank  int
		races int
	}{
		{"carol", 30, 1, 1},
		{"alice", 25, 2, 2},
		{"bob", 25, 2, 2},
	}
	for i, w := range want {
		e := entries[i]
		if e.UserID != w.user || e.Points != w.pts || e.Rank != w.rank || e.RacesScored != w.races {
			t.Fatalf("entry %d: got %+v want %+v", i, e, w)
		}
	}
	if entries[1].Breakdown.Total != 25 {
		t.Fatalf("summed breakdown not kept: %+v", entries[1].Breakdown)
	}
}

func TestCumulative_DeterministicForShuffledInput(t *testing.T) {
	t.Parallel()

	a := Cumulative([]scoring.Score{score("x", "r1", 5, 0), score("y", "r1", 5, 0), score("z", "r1", 5, 0)})
	b := Cumulative([]scoring.Score{score("z", "r1", 5, 0), score("x", "r1", 5, 0), score("y", "r1", 5, 0)})
	for i := range a {
		if a[i].UserID != b[i].UserID {
			t.Fatalf("order depends on input: %v vs %v", a, b)
		}
	}
	if a[0].UserID != "x" {
		t.Fatalf("user id should break full ties, got %s first", a[0].UserID)
	}
}
