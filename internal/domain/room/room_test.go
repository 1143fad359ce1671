package room

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

func TestStatus_TransitionTable(t *testing.T) {
	t.Parallel()

	allowed := map[[2]Status]bool{
		{StatusOpen, StatusLocked}:     true,
		{StatusOpen, StatusArchived}:   true,
		{StatusLocked, StatusScored}:   true,
		{StatusScored, StatusArchived}: true,
	}
	all := []Status{StatusOpen, StatusLocked, StatusScored, StatusArchived}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: got %v want %v", from, to, got, want)
			}
		}
	}

	if StatusOpen.ForcesLock() {
		t.Fatalf("open must not force a lock")
	}
	for _, s := range all[1:] {
		if !s.ForcesLock() {
			t.Fatalf("%s must force a lock", s)
		}
	}
}

func TestRoom_Transition(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	r := Room{Status: StatusLocked}
	if err := r.Transition(StatusArchived, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := r.Transition(StatusScored, now); err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if r.Status != StatusScored || !r.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected room after transition: %+v", r)
	}
}

func TestLockoutConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := []LockoutConfig{
		CustomTimestamp{At: time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)},
		HoursBeforeRace{Hours: 0.5},
		BeforeSession{Session: race.SessionRace},
		BeforeSessionEnd{Session: race.SessionFP3},
		DefaultLockout(),
	}
	for _, cfg := range valid {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%T: unexpected error: %v", cfg, err)
		}
	}

	invalid := []LockoutConfig{
		CustomTimestamp{},
		HoursBeforeRace{Hours: 0},
		HoursBeforeRace{Hours: -2},
		HoursBeforeRace{Hours: MaxHoursBeforeRace + 1},
		HoursBeforeRace{Hours: 3e6},
		BeforeSession{Session: "sprint"},
		BeforeSessionEnd{Session: race.SessionRace},
	}
	for _, cfg := range invalid {
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidLockout) {
			t.Fatalf("%T %+v: expected ErrInvalidLockout, got %v", cfg, cfg, err)
		}
	}
}

func TestLockoutDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)
	configs := []LockoutConfig{
		CustomTimestamp{At: at},
		HoursBeforeRace{Hours: 24},
		BeforeSession{Session: race.SessionQualifying},
		BeforeSessionEnd{Session: race.SessionFP2},
	}
	for _, cfg := range configs {
		got, err := DecodeLockout(EncodeLockout(cfg))
		if err != nil {
			t.Fatalf("%T: decode error: %v", cfg, err)
		}
		if got != cfg {
			t.Fatalf("round trip mismatch: want %+v got %+v", cfg, got)
		}
	}
}

func TestDecodeLockout_TrimsType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  LockoutDocument
		want LockoutConfig
	}{
		{doc: LockoutDocument{Type: " before_session", Session: "qualifying"}, want: BeforeSession{Session: race.SessionQualifying}},
		{doc: LockoutDocument{Type: "before_session \t", Session: "fp1"}, want: BeforeSession{Session: race.SessionFP1}},
		{doc: LockoutDocument{Type: "  before_session_end ", Session: "fp3"}, want: BeforeSessionEnd{Session: race.SessionFP3}},
	}
	for _, tc := range tests {
		got, err := DecodeLockout(tc.doc)
		if err != nil {
			t.Fatalf("%q: decode error: %v", tc.doc.Type, err)
		}
		if got != tc.want {
			t.Fatalf("%q: want %+v (%s) got %+v (%s)", tc.doc.Type, tc.want, tc.want.Kind(), got, got.Kind())
		}
	}
}

func TestDecodeLockout_Rejects(t *testing.T) {
	t.Parallel()

	ms := int64(1)
	hours := 3.0
	tooMany := float64(MaxHoursBeforeRace) * 2
	docs := []LockoutDocument{
		{Type: "weekly"},
		{Type: "custom"},
		{Type: "custom", Timestamp: &ms, HoursBeforeRace: &hours},
		{Type: "before_session", Session: "sprint"},
		{Type: "before_session_end", Session: "race"},
		{Type: "custom", HoursBeforeRace: &tooMany},
	}
	for _, doc := range docs {
		if _, err := DecodeLockout(doc); !errors.Is(err, ErrInvalidLockout) {
			t.Fatalf("%+v: expected ErrInvalidLockout, got %v", doc, err)
		}
	}
}

func TestJoinCodes(t *testing.T) {
	t.Parallel()

	code, err := RandomJoinCodes{}.NewJoinCode()
	if err != nil {
		t.Fatalf("NewJoinCode error: %v", err)
	}
	if !ValidJoinCode(code) {
		t.Fatalf("generated invalid code %q", code)
	}
	for _, bad := range []string{"", "ABC", "ABCDE0", "abcdef", "ABCDEFG"} {
		if ValidJoinCode(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

func TestRoom_Validate(t *testing.T) {
	t.Parallel()

	r := Room{
		ID:       "room-1",
		HostID:   "user-1",
		SeasonID: "season-2025",
		Lockout:  DefaultLockout(),
		Scoring:  scoring.DefaultConfig(),
		Status:   StatusOpen,
		JoinCode: "ABC234",
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Scoring = scoring.Config{}
	if err := r.Validate(); !errors.Is(err, scoring.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
