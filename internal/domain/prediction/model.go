package prediction

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrNoPicks            = errors.New("at least one position pick is required")
	ErrInvalidPosition    = errors.New("invalid predicted position")
	ErrInvalidDriver      = errors.New("invalid driver number")
	ErrDuplicatePosition  = errors.New("duplicate predicted position")
	ErrDuplicateDriver    = errors.New("driver picked more than once")
	ErrDuplicateDNFDriver = errors.New("duplicate dnf driver")
)

// Pick places a driver at a finishing position.
type Pick struct {
	Position     int
	DriverNumber int
}

// Prediction is one user's forecast for one race inside one room.
type Prediction struct {
	RoomID           string
	RaceID           string
	UserID           string
	Picks            []Pick
	PoleDriver       *int
	FastestLapDriver *int
	DNFDrivers       []int
	SubmittedAt      time.Time
	UpdatedAt        time.Time
}

func (p Prediction) Validate() error {
	if strings.TrimSpace(p.RoomID) == "" || strings.TrimSpace(p.RaceID) == "" || strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("room id, race id and user id are required")
	}
	if len(p.Picks) == 0 {
		return ErrNoPicks
	}

	positions := make(map[int]struct{}, len(p.Picks))
	drivers := make(map[int]struct{}, len(p.Picks))
	for _, pick := range p.Picks {
		if pick.Position < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, pick.Position)
		}
		if pick.DriverNumber < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDriver, pick.DriverNumber)
		}
		if _, ok := positions[pick.Position]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicatePosition, pick.Position)
		}
		if _, ok := drivers[pick.DriverNumber]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateDriver, pick.DriverNumber)
		}
		positions[pick.Position] = struct{}{}
		drivers[pick.DriverNumber] = struct{}{}
	}

	for _, ref := range []*int{p.PoleDriver, p.FastestLapDriver} {
		if ref != nil && *ref < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDriver, *ref)
		}
	}

	dnf := make(map[int]struct{}, len(p.DNFDrivers))
	for _, d := range p.DNFDrivers {
		if d < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDriver, d)
		}
		if _, ok := dnf[d]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateDNFDriver, d)
		}
		dnf[d] = struct{}{}
	}
	return nil
}

// SortedPicks returns the picks ordered by position.
func (p Prediction) SortedPicks() []Pick {
	out := slices.Clone(p.Picks)
	slices.SortFunc(out, func(a, b Pick) int { return a.Position - b.Position })
	return out
}
