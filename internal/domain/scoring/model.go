package scoring

import "time"

// Score is the persisted outcome of scoring one prediction.
// PredictionSubmittedAt is carried for leaderboard tie-breaks.
type Score struct {
	RoomID                string
	RaceID                string
	UserID                string
	Points                float64
	Breakdown             Breakdown
	PredictionSubmittedAt time.Time
	CalculatedAt          time.Time
}
