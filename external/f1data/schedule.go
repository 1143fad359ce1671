package f1data

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

// sessionDuration is the assumed length of every session; the calendar feed
// only publishes start times.
const sessionDuration = 2 * time.Hour

type scheduleRace struct {
	Round    flexInt         `json:"round"`
	RaceName string          `json:"raceName"`
	Circuit  scheduleCircuit `json:"circuit"`
	Schedule struct {
		FP1   scheduleSlot `json:"fp1"`
		FP2   scheduleSlot `json:"fp2"`
		FP3   scheduleSlot `json:"fp3"`
		Qualy scheduleSlot `json:"qualy"`
		Race  scheduleSlot `json:"race"`
	} `json:"schedule"`
}

type scheduleCircuit struct {
	CircuitName string `json:"circuitName"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type scheduleSlot struct {
	Date *string `json:"date"`
	Time *string `json:"time"`
}

// start combines date and time. A slot without a time only resolves when
// fallbackTime is given.
func (s scheduleSlot) start(fallbackTime string) (time.Time, bool) {
	if s.Date == nil || strings.TrimSpace(*s.Date) == "" {
		return time.Time{}, false
	}
	clock := fallbackTime
	if s.Time != nil && strings.TrimSpace(*s.Time) != "" {
		clock = strings.TrimSpace(*s.Time)
	}
	if clock == "" {
		return time.Time{}, false
	}
	if !strings.HasSuffix(clock, "Z") && !strings.ContainsAny(clock, "+-") {
		clock += "Z"
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s.Date)+"T"+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (s scheduleSlot) window() *race.SessionWindow {
	start, ok := s.start("")
	if !ok {
		return nil
	}
	return &race.SessionWindow{Start: start, End: start.Add(sessionDuration)}
}

// FetchSeasonSchedule returns the calendar for year. Entries without a race
// date are skipped.
func (c *Client) FetchSeasonSchedule(ctx context.Context, year int) ([]usecase.ExternalRace, error) {
	raw, err := c.getRaw(ctx, c.scheduleBaseURL, "/"+strconv.Itoa(year), "")
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: no calendar published for %d", usecase.ErrNotFound, year)
		}
		return nil, fmt.Errorf("fetch schedule year=%d: %w", year, err)
	}

	items, err := listOrWrapped[scheduleRace](raw, "races")
	if err != nil {
		return nil, fmt.Errorf("decode schedule year=%d: %w", year, err)
	}

	out := make([]usecase.ExternalRace, 0, len(items))
	for _, item := range items {
		startsAt, ok := item.Schedule.Race.start("12:00:00Z")
		if !ok {
			c.logger.WarnContext(ctx, "skip calendar entry without race date", "year", year, "round", int(item.Round), "name", item.RaceName)
			continue
		}
		out = append(out, usecase.ExternalRace{
			Round:    int(item.Round),
			Name:     strings.TrimSpace(item.RaceName),
			Circuit:  strings.TrimSpace(item.Circuit.CircuitName),
			Location: strings.TrimSpace(item.Circuit.City),
			Country:  strings.TrimSpace(item.Circuit.Country),
			StartsAt: startsAt,
			Sessions: &race.SessionTimes{
				FP1:        item.Schedule.FP1.window(),
				FP2:        item.Schedule.FP2.window(),
				FP3:        item.Schedule.FP3.window(),
				Qualifying: item.Schedule.Qualy.window(),
				Race:       item.Schedule.Race.window(),
			},
		})
	}
	return out, nil
}
