package race

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownSession = errors.New("unknown session")

// SessionName identifies one timed session of a race weekend.
type SessionName string

const (
	SessionFP1        SessionName = "fp1"
	SessionFP2        SessionName = "fp2"
	SessionFP3        SessionName = "fp3"
	SessionQualifying SessionName = "qualifying"
	SessionRace       SessionName = "race"
)

// Sessions lists every session in weekend order.
var Sessions = []SessionName{SessionFP1, SessionFP2, SessionFP3, SessionQualifying, SessionRace}

func ParseSessionName(raw string) (SessionName, error) {
	name := SessionName(strings.ToLower(strings.TrimSpace(raw)))
	if !name.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSession, raw)
	}
	return name, nil
}

func (n SessionName) Valid() bool {
	switch n {
	case SessionFP1, SessionFP2, SessionFP3, SessionQualifying, SessionRace:
		return true
	default:
		return false
	}
}

// SessionWindow is the scheduled start and end of one session.
type SessionWindow struct {
	Start time.Time
	End   time.Time
}

func (w SessionWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("session start and end are required")
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("session end %s is before start %s", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// SessionTimes holds the optional schedule of each session. A nil window
// means the timing is unknown, which callers must treat as "no deadline".
type SessionTimes struct {
	FP1        *SessionWindow
	FP2        *SessionWindow
	FP3        *SessionWindow
	Qualifying *SessionWindow
	Race       *SessionWindow
}

// Lookup returns the window for name and whether it is known.
func (s *SessionTimes) Lookup(name SessionName) (SessionWindow, bool) {
	if s == nil {
		return SessionWindow{}, false
	}
	var w *SessionWindow
	switch name {
	case SessionFP1:
		w = s.FP1
	case SessionFP2:
		w = s.FP2
	case SessionFP3:
		w = s.FP3
	case SessionQualifying:
		w = s.Qualifying
	case SessionRace:
		w = s.Race
	}
	if w == nil {
		return SessionWindow{}, false
	}
	return *w, true
}

// Set stores w under name. Unknown names are rejected.
func (s *SessionTimes) Set(name SessionName, w SessionWindow) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	cp := w
	switch name {
	case SessionFP1:
		s.FP1 = &cp
	case SessionFP2:
		s.FP2 = &cp
	case SessionFP3:
		s.FP3 = &cp
	case SessionQualifying:
		s.Qualifying = &cp
	case SessionRace:
		s.Race = &cp
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSession, name)
	}
	return nil
}

func (s *SessionTimes) Validate() error {
	if s == nil {
		return nil
	}
	for _, name := range Sessions {
		if w, ok := s.Lookup(name); ok {
			if err := w.Validate(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}
