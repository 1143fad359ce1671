package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
)

const SeasonID2026 = "season-2026"

func SeedSeasons() []season.Season {
	return []season.Season{
		{ID: SeasonID2026, Year: 2026, TotalRaces: 24, CurrentRound: 1},
	}
}

// SeedRaces returns the opening rounds of the 2026 calendar so a local
// instance without a database has something to predict on.
func SeedRaces() []race.Race {
	type round struct {
		name, circuit, location, country string
		start                            time.Time
	}
	rounds := []round{
		{"Australian Grand Prix", "Albert Park", "Melbourne", "AUS", time.Date(2026, time.March, 8, 4, 0, 0, 0, time.UTC)},
		{"Chinese Grand Prix", "Shanghai International Circuit", "Shanghai", "CHN", time.Date(2026, time.March, 15, 7, 0, 0, 0, time.UTC)},
		{"Japanese Grand Prix", "Suzuka", "Suzuka", "JPN", time.Date(2026, time.March, 29, 5, 0, 0, 0, time.UTC)},
		{"Bahrain Grand Prix", "Bahrain International Circuit", "Sakhir", "BHR", time.Date(2026, time.April, 12, 15, 0, 0, 0, time.UTC)},
		{"Saudi Arabian Grand Prix", "Jeddah Corniche Circuit", "Jeddah", "SAU", time.Date(2026, time.April, 19, 17, 0, 0, 0, time.UTC)},
	}

	out := make([]race.Race, 0, len(rounds))
	for i, r := range rounds {
		out = append(out, race.Race{
			ID:       fmt.Sprintf("race-2026-%02d", i+1),
			SeasonID: SeasonID2026,
			Round:    i + 1,
			Name:     r.name,
			StartsAt: r.start,
			Circuit:  r.circuit,
			Location: r.location,
			Country:  r.country,
			Sessions: weekend(r.start),
		})
	}
	return out
}

// weekend lays out a standard Friday-to-Sunday schedule around the race.
func weekend(raceStart time.Time) *race.SessionTimes {
	window := func(offset, length time.Duration) *race.SessionWindow {
		start := raceStart.Add(offset)
		return &race.SessionWindow{Start: start, End: start.Add(length)}
	}
	return &race.SessionTimes{
		FP1:        window(-50*time.Hour-30*time.Minute, time.Hour),
		FP2:        window(-47*time.Hour, time.Hour),
		FP3:        window(-26*time.Hour-30*time.Minute, time.Hour),
		Qualifying: window(-23*time.Hour, time.Hour),
		Race:       window(0, 2*time.Hour),
	}
}
