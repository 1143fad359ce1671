package f1data

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
)

type driverItem struct {
	DriverNumber    flexInt `json:"driver_number"`
	Number          flexInt `json:"number"`
	DriverNumberAlt flexInt `json:"driverNumber"`
	NameAcronym     string  `json:"name_acronym"`
	FullName        string  `json:"full_name"`
	TeamName        string  `json:"team_name"`
	TeamColour      string  `json:"team_colour"`
	HeadshotURL     string  `json:"headshot_url"`
	CountryCode     string  `json:"country_code"`
}

func (d driverItem) number() int {
	for _, n := range []flexInt{d.DriverNumber, d.Number, d.DriverNumberAlt} {
		if n > 0 {
			return int(n)
		}
	}
	return 0
}

// FetchDrivers lists the entrants of the latest session ordered by number.
func (c *Client) FetchDrivers(ctx context.Context) ([]driver.Driver, error) {
	raw, err := c.getRaw(ctx, c.resultsBaseURL, "/drivers", "session_key=latest")
	if err != nil {
		return nil, fmt.Errorf("fetch drivers: %w", err)
	}
	items, err := listOrWrapped[driverItem](raw, "drivers", "driver")
	if err != nil {
		return nil, fmt.Errorf("decode drivers: %w", err)
	}

	byNumber := make(map[int]driver.Driver, len(items))
	for _, item := range items {
		n := item.number()
		if n <= 0 {
			continue
		}
		byNumber[n] = driver.Driver{
			Number:      n,
			Acronym:     strings.TrimSpace(item.NameAcronym),
			FullName:    strings.TrimSpace(item.FullName),
			TeamName:    strings.TrimSpace(item.TeamName),
			TeamColour:  strings.TrimSpace(item.TeamColour),
			HeadshotURL: strings.TrimSpace(item.HeadshotURL),
			CountryCode: strings.TrimSpace(item.CountryCode),
		}
	}

	out := make([]driver.Driver, 0, len(byNumber))
	for _, d := range byNumber {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
