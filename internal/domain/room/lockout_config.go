package room

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

var ErrInvalidLockout = errors.New("invalid lockout config")

// LockoutConfig selects when a room stops accepting predictions for a race.
// The set of implementations is closed: CustomTimestamp, HoursBeforeRace,
// BeforeSession and BeforeSessionEnd.
type LockoutConfig interface {
	Kind() LockoutKind
	Validate() error
	sealed()
}

type LockoutKind string

const (
	LockoutCustom           LockoutKind = "custom"
	LockoutBeforeSession    LockoutKind = "before_session"
	LockoutBeforeSessionEnd LockoutKind = "before_session_end"
)

// MaxHoursBeforeRace caps custom hour offsets at one year.
const MaxHoursBeforeRace = 24 * 366

// CustomTimestamp locks at a fixed instant.
type CustomTimestamp struct {
	At time.Time
}

// HoursBeforeRace locks a fixed number of hours before the race start.
type HoursBeforeRace struct {
	Hours float64
}

// BeforeSession locks when the named session starts.
type BeforeSession struct {
	Session race.SessionName
}

// BeforeSessionEnd locks when the named session ends. The race session
// itself is not allowed.
type BeforeSessionEnd struct {
	Session race.SessionName
}

func (CustomTimestamp) Kind() LockoutKind  { return LockoutCustom }
func (HoursBeforeRace) Kind() LockoutKind  { return LockoutCustom }
func (BeforeSession) Kind() LockoutKind    { return LockoutBeforeSession }
func (BeforeSessionEnd) Kind() LockoutKind { return LockoutBeforeSessionEnd }

func (CustomTimestamp) sealed()  {}
func (HoursBeforeRace) sealed()  {}
func (BeforeSession) sealed()    {}
func (BeforeSessionEnd) sealed() {}

func (c CustomTimestamp) Validate() error {
	if c.At.IsZero() {
		return fmt.Errorf("%w: custom timestamp is required", ErrInvalidLockout)
	}
	return nil
}

func (c HoursBeforeRace) Validate() error {
	if !(c.Hours > 0) || math.IsInf(c.Hours, 0) {
		return fmt.Errorf("%w: hours before race must be > 0, got %v", ErrInvalidLockout, c.Hours)
	}
	if c.Hours > MaxHoursBeforeRace {
		return fmt.Errorf("%w: hours before race must be <= %d, got %v", ErrInvalidLockout, MaxHoursBeforeRace, c.Hours)
	}
	return nil
}

func (c BeforeSession) Validate() error {
	if !c.Session.Valid() {
		return fmt.Errorf("%w: unknown session %q", ErrInvalidLockout, c.Session)
	}
	return nil
}

func (c BeforeSessionEnd) Validate() error {
	if !c.Session.Valid() {
		return fmt.Errorf("%w: unknown session %q", ErrInvalidLockout, c.Session)
	}
	if c.Session == race.SessionRace {
		return fmt.Errorf("%w: cannot lock at the end of the race session", ErrInvalidLockout)
	}
	return nil
}

// DefaultLockout locks when qualifying starts.
func DefaultLockout() LockoutConfig {
	return BeforeSession{Session: race.SessionQualifying}
}

// LockoutDocument is the storage and API representation of a LockoutConfig.
// Timestamp is milliseconds since the Unix epoch.
type LockoutDocument struct {
	Type            string   `json:"type"`
	Timestamp       *int64   `json:"timestamp,omitempty"`
	HoursBeforeRace *float64 `json:"hoursBeforeRace,omitempty"`
	Session         string   `json:"session,omitempty"`
}

func EncodeLockout(cfg LockoutConfig) LockoutDocument {
	switch c := cfg.(type) {
	case CustomTimestamp:
		ms := c.At.UnixMilli()
		return LockoutDocument{Type: string(LockoutCustom), Timestamp: &ms}
	case HoursBeforeRace:
		h := c.Hours
		return LockoutDocument{Type: string(LockoutCustom), HoursBeforeRace: &h}
	case BeforeSession:
		return LockoutDocument{Type: string(LockoutBeforeSession), Session: string(c.Session)}
	case BeforeSessionEnd:
		return LockoutDocument{Type: string(LockoutBeforeSessionEnd), Session: string(c.Session)}
	default:
		return LockoutDocument{}
	}
}

// DecodeLockout converts a document into a validated LockoutConfig.
func DecodeLockout(doc LockoutDocument) (LockoutConfig, error) {
	var cfg LockoutConfig
	kind := LockoutKind(strings.TrimSpace(doc.Type))
	switch kind {
	case LockoutCustom:
		switch {
		case doc.Timestamp != nil && doc.HoursBeforeRace != nil:
			return nil, fmt.Errorf("%w: custom lockout takes either timestamp or hoursBeforeRace", ErrInvalidLockout)
		case doc.Timestamp != nil:
			cfg = CustomTimestamp{At: time.UnixMilli(*doc.Timestamp).UTC()}
		case doc.HoursBeforeRace != nil:
			cfg = HoursBeforeRace{Hours: *doc.HoursBeforeRace}
		default:
			return nil, fmt.Errorf("%w: custom lockout needs timestamp or hoursBeforeRace", ErrInvalidLockout)
		}
	case LockoutBeforeSession, LockoutBeforeSessionEnd:
		session, err := race.ParseSessionName(doc.Session)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLockout, err)
		}
		if kind == LockoutBeforeSession {
			cfg = BeforeSession{Session: session}
		} else {
			cfg = BeforeSessionEnd{Session: session}
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidLockout, doc.Type)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
