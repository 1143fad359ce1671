package room

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTransition = errors.New("invalid room status transition")

type Status string

const (
	StatusOpen     Status = "open"
	StatusLocked   Status = "locked"
	StatusScored   Status = "scored"
	StatusArchived Status = "archived"
)

var transitions = map[Status][]Status{
	StatusOpen:   {StatusLocked, StatusArchived},
	StatusLocked: {StatusScored},
	StatusScored: {StatusArchived},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusOpen, StatusLocked, StatusScored, StatusArchived:
		return s, nil
	default:
		return "", fmt.Errorf("unknown room status %q", raw)
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ForcesLock reports whether predictions are closed regardless of deadlines.
func (s Status) ForcesLock() bool {
	return s != StatusOpen
}

// AcceptsMembers reports whether new participants may join.
func (s Status) AcceptsMembers() bool {
	return s == StatusOpen
}
