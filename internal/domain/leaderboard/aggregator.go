package leaderboard

import (
	"sort"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

// Entry is one ranked row. Breakdown is set for per-race boards and holds
// summed components for cumulative boards.
type Entry struct {
	Rank        int
	UserID      string
	Points      float64
	Breakdown   scoring.Breakdown
	RacesScored int
	SubmittedAt time.Time
}

// ForRace ranks the scores of a single race.
func ForRace(scores []scoring.Score) []Entry {
	entries := make([]Entry, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, Entry{
			UserID:      s.UserID,
			Points:      s.Points,
			Breakdown:   s.Breakdown,
			RacesScored: 1,
			SubmittedAt: s.PredictionSubmittedAt,
		})
	}
	rank(entries)
	return entries
}

// Cumulative sums scores per user across races and ranks the totals. The
// tie-break timestamp is the user's earliest prediction submission.
func Cumulative(scores []scoring.Score) []Entry {
	byUser := make(map[string]*Entry)
	order := make([]string, 0)
	for _, s := range scores {
		e, ok := byUser[s.UserID]
		if !ok {
			e = &Entry{UserID: s.UserID, SubmittedAt: s.PredictionSubmittedAt}
			byUser[s.UserID] = e
			order = append(order, s.UserID)
		}
		e.Points += s.Points
		e.RacesScored++
		e.Breakdown.PositionPoints += s.Breakdown.PositionPoints
		e.Breakdown.FastestLapPoints += s.Breakdown.FastestLapPoints
		e.Breakdown.PolePositionPoints += s.Breakdown.PolePositionPoints
		e.Breakdown.DNFPenalty += s.Breakdown.DNFPenalty
		e.Breakdown.Total += s.Breakdown.Total
		if earlier(s.PredictionSubmittedAt, e.SubmittedAt) {
			e.SubmittedAt = s.PredictionSubmittedAt
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byUser[id])
	}
	rank(entries)
	return entries
}

// rank orders entries by points descending, then earliest submission, then
// user id, and assigns dense ranks: equal points share a rank.
func rank(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return earlier(a.SubmittedAt, b.SubmittedAt)
		}
		return a.UserID < b.UserID
	})

	current := 0
	for i := range entries {
		if i == 0 || entries[i].Points != entries[i-1].Points {
			current++
		}
		entries[i].Rank = current
	}
}

// earlier treats a zero time as later than any real submission.
func earlier(a, b time.Time) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a.Before(b)
	}
}
