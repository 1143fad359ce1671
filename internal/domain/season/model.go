package season

import (
	"fmt"
	"strings"
)

// Season is one championship year.
type Season struct {
	ID           string
	Year         int
	TotalRaces   int
	CurrentRound int
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Year < 1950 {
		return fmt.Errorf("season year must be >= 1950, got %d", s.Year)
	}
	if s.TotalRaces < 0 {
		return fmt.Errorf("season total races must be >= 0")
	}
	if s.CurrentRound < 0 || (s.TotalRaces > 0 && s.CurrentRound > s.TotalRaces) {
		return fmt.Errorf("season current round %d out of range", s.CurrentRound)
	}
	return nil
}
