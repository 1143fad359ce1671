package race

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Race is one round of a season.
type Race struct {
	ID       string
	SeasonID string
	Round    int
	Name     string
	StartsAt time.Time
	Circuit  string
	Location string
	Country  string
	Sessions *SessionTimes
	Result   *OfficialResult
}

func (r Race) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("race id is required")
	}
	if strings.TrimSpace(r.SeasonID) == "" {
		return fmt.Errorf("race season id is required")
	}
	if r.Round < 1 {
		return fmt.Errorf("race round must be >= 1, got %d", r.Round)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("race name is required")
	}
	if r.StartsAt.IsZero() {
		return fmt.Errorf("race start time is required")
	}
	if err := r.Sessions.Validate(); err != nil {
		return fmt.Errorf("race sessions: %w", err)
	}
	if r.Result != nil {
		if err := r.Result.Validate(); err != nil {
			return fmt.Errorf("race result: %w", err)
		}
	}
	return nil
}

// HasResult reports whether the official classification has been recorded.
func (r Race) HasResult() bool {
	return r.Result != nil && len(r.Result.Positions) > 0
}

// Started reports whether the race start time is before now.
func (r Race) Started(now time.Time) bool {
	return !r.StartsAt.IsZero() && r.StartsAt.Before(now)
}

// ResultPosition is one classified finisher.
type ResultPosition struct {
	Position     int
	DriverNumber int
	Points       float64
}

// OfficialResult is the provider's classification for a race.
type OfficialResult struct {
	Positions        []ResultPosition
	FastestLapDriver *int
	PoleDriver       *int
	DNFDrivers       []int
	RecordedAt       time.Time
}

func (r OfficialResult) Validate() error {
	if len(r.Positions) == 0 {
		return fmt.Errorf("result positions are required")
	}
	seenPos := make(map[int]struct{}, len(r.Positions))
	seenDriver := make(map[int]struct{}, len(r.Positions))
	for _, p := range r.Positions {
		if p.Position < 1 {
			return fmt.Errorf("result position must be >= 1, got %d", p.Position)
		}
		if p.DriverNumber < 1 {
			return fmt.Errorf("result driver number must be >= 1, got %d", p.DriverNumber)
		}
		if _, ok := seenPos[p.Position]; ok {
			return fmt.Errorf("duplicate result position %d", p.Position)
		}
		if _, ok := seenDriver[p.DriverNumber]; ok {
			return fmt.Errorf("duplicate result driver %d", p.DriverNumber)
		}
		seenPos[p.Position] = struct{}{}
		seenDriver[p.DriverNumber] = struct{}{}
	}
	return nil
}

// PositionOf returns the finishing position of a driver.
func (r OfficialResult) PositionOf(driverNumber int) (int, bool) {
	for _, p := range r.Positions {
		if p.DriverNumber == driverNumber {
			return p.Position, true
		}
	}
	return 0, false
}

func (r OfficialResult) IsDNF(driverNumber int) bool {
	return slices.Contains(r.DNFDrivers, driverNumber)
}

// Clone returns a deep copy.
func (r *OfficialResult) Clone() *OfficialResult {
	if r == nil {
		return nil
	}
	out := &OfficialResult{
		Positions:  slices.Clone(r.Positions),
		DNFDrivers: slices.Clone(r.DNFDrivers),
		RecordedAt: r.RecordedAt,
	}
	if r.FastestLapDriver != nil {
		v := *r.FastestLapDriver
		out.FastestLapDriver = &v
	}
	if r.PoleDriver != nil {
		v := *r.PoleDriver
		out.PoleDriver = &v
	}
	return out
}
