package lockout

import (
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
)

type Reason string

const (
	ReasonOpen            Reason = "open"
	ReasonDeadlinePassed  Reason = "deadline_passed"
	ReasonRoomStatus      Reason = "room_status"
	ReasonDeadlineUnknown Reason = "deadline_unknown"
)

// Evaluation is the lockout state of one race in one room at an instant.
// LockoutAt is nil when the deadline cannot be computed yet.
type Evaluation struct {
	LockoutAt     *time.Time
	Locked        bool
	TimeRemaining *time.Duration
	Reason        Reason
}

// Calculate evaluates the room's lockout rule for rc at now. A nil race or
// missing session timing yields "not locked" rather than an error. Season
// ownership is not checked here.
func Calculate(rm room.Room, rc *race.Race, now time.Time) Evaluation {
	deadline := Deadline(rm.Lockout, rc)

	if rm.Status.ForcesLock() {
		return Evaluation{LockoutAt: deadline, Locked: true, Reason: ReasonRoomStatus}
	}
	if deadline == nil {
		return Evaluation{Reason: ReasonDeadlineUnknown}
	}
	if !now.Before(*deadline) {
		return Evaluation{LockoutAt: deadline, Locked: true, Reason: ReasonDeadlinePassed}
	}
	remaining := deadline.Sub(now)
	return Evaluation{LockoutAt: deadline, TimeRemaining: &remaining, Reason: ReasonOpen}
}

// Deadline resolves the lockout instant for cfg against rc. Without a race
// there is nothing to lock, whatever the config.
func Deadline(cfg room.LockoutConfig, rc *race.Race) *time.Time {
	if cfg == nil || rc == nil {
		return nil
	}
	switch c := cfg.(type) {
	case room.CustomTimestamp:
		if c.At.IsZero() {
			return nil
		}
		return timePtr(c.At)
	case room.HoursBeforeRace:
		if rc.StartsAt.IsZero() {
			return nil
		}
		return timePtr(rc.StartsAt.Add(-time.Duration(c.Hours * float64(time.Hour))))
	case room.BeforeSession:
		w, ok := rc.Sessions.Lookup(c.Session)
		if !ok || w.Start.IsZero() {
			return nil
		}
		return timePtr(w.Start)
	case room.BeforeSessionEnd:
		w, ok := rc.Sessions.Lookup(c.Session)
		if !ok || w.End.IsZero() {
			return nil
		}
		return timePtr(w.End)
	default:
		return nil
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
