package syncrun

import "time"

type Trigger string

const (
	TriggerPoller Trigger = "poller"
	TriggerHost   Trigger = "host"
	TriggerJob    Trigger = "job"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Run records one race-sync attempt: how many rooms were visited and scored,
// and the per-room errors collected along the way.
type Run struct {
	ID             string
	RaceID         string
	Trigger        Trigger
	Status         Status
	RoomsProcessed int
	RoomsScored    int
	ScoresCreated  int
	ScoresUpdated  int
	Errors         []string
	Message        string
	StartedAt      time.Time
	FinishedAt     *time.Time
	TraceID        string
}

// Finish stamps the terminal status derived from the collected outcome.
func (r *Run) Finish(fatal error, now time.Time) {
	r.FinishedAt = &now
	switch {
	case fatal != nil:
		r.Status = StatusFailed
		r.Message = fatal.Error()
	case len(r.Errors) > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSucceeded
	}
}
