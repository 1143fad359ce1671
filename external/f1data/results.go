package f1data

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

// StandardPoints is the championship points table for a full-distance race.
var StandardPoints = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

type sessionItem struct {
	SessionKey  flexInt `json:"session_key"`
	SessionName string  `json:"session_name"`
	SessionType string  `json:"session_type"`
	DateStart   string  `json:"date_start"`
}

type positionItem struct {
	Date         string  `json:"date"`
	DriverNumber flexInt `json:"driver_number"`
	Position     flexInt `json:"position"`
}

type lapItem struct {
	DriverNumber flexInt  `json:"driver_number"`
	LapDuration  *float64 `json:"lap_duration"`
}

type sessionResultItem struct {
	DriverNumber flexInt `json:"driver_number"`
	DNF          bool    `json:"dnf"`
	DNS          bool    `json:"dns"`
	DSQ          bool    `json:"dsq"`
}

// FetchRaceResult builds the official classification of rc from OpenF1.
// Pole, fastest lap and retirements are best effort; a missing race session
// or an empty classification is reported as not ready.
func (c *Client) FetchRaceResult(ctx context.Context, rc race.Race) (race.OfficialResult, error) {
	day := rc.StartsAt.UTC().Truncate(24 * time.Hour)

	session, ok, err := c.findRaceSession(ctx, day)
	if err != nil {
		return race.OfficialResult{}, fmt.Errorf("find race session race=%s: %w", rc.ID, err)
	}
	if !ok {
		return race.OfficialResult{}, fmt.Errorf("%w: no race session published for %s", usecase.ErrNotReady, day.Format(time.DateOnly))
	}

	order, err := c.finalOrder(ctx, int(session.SessionKey))
	if err != nil {
		return race.OfficialResult{}, fmt.Errorf("fetch race positions race=%s: %w", rc.ID, err)
	}
	if len(order) == 0 {
		return race.OfficialResult{}, fmt.Errorf("%w: no classified positions for session %d", usecase.ErrNotReady, session.SessionKey)
	}

	result := race.OfficialResult{
		Positions:  make([]race.ResultPosition, 0, len(order)),
		DNFDrivers: []int{},
		RecordedAt: c.now().UTC(),
	}
	for i, driverNumber := range order {
		result.Positions = append(result.Positions, race.ResultPosition{
			Position:     i + 1,
			DriverNumber: driverNumber,
			Points:       pointsFor(i + 1),
		})
	}

	if driverNumber, ok, err := c.fastestLap(ctx, int(session.SessionKey)); err != nil {
		c.logger.WarnContext(ctx, "fetch fastest lap failed", "race_id", rc.ID, "session_key", int(session.SessionKey), "error", err)
	} else if ok {
		result.FastestLapDriver = &driverNumber
	}

	if driverNumber, ok, err := c.poleSitter(ctx, rc.StartsAt.UTC(), day); err != nil {
		c.logger.WarnContext(ctx, "fetch pole position failed", "race_id", rc.ID, "error", err)
	} else if ok {
		result.PoleDriver = &driverNumber
	}

	if dnf, err := c.retirements(ctx, int(session.SessionKey)); err != nil {
		c.logger.WarnContext(ctx, "fetch session result failed", "race_id", rc.ID, "session_key", int(session.SessionKey), "error", err)
	} else {
		result.DNFDrivers = dnf
	}

	return result, nil
}

func (c *Client) findRaceSession(ctx context.Context, day time.Time) (sessionItem, bool, error) {
	sessions, err := c.sessions(ctx, dayRangeQuery(day, day.Add(24*time.Hour), "Race"))
	if err != nil {
		return sessionItem{}, false, err
	}
	if len(sessions) == 0 {
		sessions, err = c.sessions(ctx, "date="+day.Format(time.DateOnly)+"&session_type=Race")
		if err != nil {
			return sessionItem{}, false, err
		}
	}
	for _, s := range sessions {
		if s.SessionKey > 0 && !strings.EqualFold(strings.TrimSpace(s.SessionName), "Sprint") {
			return s, true, nil
		}
	}
	return sessionItem{}, false, nil
}

// poleSitter reads the qualifying classification of the same weekend. Sprint
// qualifying shares the session type and is skipped by name.
func (c *Client) poleSitter(ctx context.Context, raceStart, day time.Time) (int, bool, error) {
	sessions, err := c.sessions(ctx, dayRangeQuery(day.AddDate(0, 0, -3), day.Add(24*time.Hour), "Qualifying"))
	if err != nil {
		return 0, false, err
	}

	var chosen sessionItem
	var chosenAt time.Time
	for _, s := range sessions {
		if s.SessionKey <= 0 || !strings.EqualFold(strings.TrimSpace(s.SessionName), "Qualifying") {
			continue
		}
		at, ok := parseTimestamp(s.DateStart)
		if !ok || at.After(raceStart) {
			continue
		}
		if chosen.SessionKey == 0 || at.After(chosenAt) {
			chosen, chosenAt = s, at
		}
	}
	if chosen.SessionKey == 0 {
		return 0, false, nil
	}

	order, err := c.finalOrder(ctx, int(chosen.SessionKey))
	if err != nil || len(order) == 0 {
		return 0, false, err
	}
	return order[0], true, nil
}

func (c *Client) fastestLap(ctx context.Context, sessionKey int) (int, bool, error) {
	var laps []lapItem
	if err := c.getJSON(ctx, c.resultsBaseURL, "/laps", "session_key="+strconv.Itoa(sessionKey), &laps); err != nil {
		return 0, false, err
	}
	best, driver := 0.0, 0
	for _, lap := range laps {
		if lap.LapDuration == nil || *lap.LapDuration <= 0 || lap.DriverNumber <= 0 {
			continue
		}
		if driver == 0 || *lap.LapDuration < best {
			best, driver = *lap.LapDuration, int(lap.DriverNumber)
		}
	}
	return driver, driver > 0, nil
}

// retirements returns drivers flagged dnf, dns or dsq. Older sessions have no
// session_result feed; a 404 there means no retirements are known.
func (c *Client) retirements(ctx context.Context, sessionKey int) ([]int, error) {
	var items []sessionResultItem
	err := c.getJSON(ctx, c.resultsBaseURL, "/session_result", "session_key="+strconv.Itoa(sessionKey), &items)
	if isStatus(err, http.StatusNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := []int{}
	seen := map[int]struct{}{}
	for _, item := range items {
		n := int(item.DriverNumber)
		if n <= 0 || !(item.DNF || item.DNS || item.DSQ) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

func (c *Client) sessions(ctx context.Context, rawQuery string) ([]sessionItem, error) {
	var items []sessionItem
	err := c.getJSON(ctx, c.resultsBaseURL, "/sessions", rawQuery, &items)
	if isStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	return items, err
}

// finalOrder reduces the position stream of a session to the classification:
// the latest reported position of each driver, renumbered 1..n.
func (c *Client) finalOrder(ctx context.Context, sessionKey int) ([]int, error) {
	var items []positionItem
	err := c.getJSON(ctx, c.resultsBaseURL, "/position", "session_key="+strconv.Itoa(sessionKey), &items)
	if isStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return classify(items), nil
}

func classify(items []positionItem) []int {
	type latest struct {
		driver   int
		position int
		at       time.Time
		seq      int
	}
	byDriver := make(map[int]latest, 24)
	for i, item := range items {
		d, p := int(item.DriverNumber), int(item.Position)
		if d <= 0 || p <= 0 {
			continue
		}
		at, _ := parseTimestamp(item.Date)
		prev, ok := byDriver[d]
		if ok && (at.Before(prev.at) || (at.Equal(prev.at) && i < prev.seq)) {
			continue
		}
		byDriver[d] = latest{driver: d, position: p, at: at, seq: i}
	}

	rows := make([]latest, 0, len(byDriver))
	for _, row := range byDriver {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].position != rows[j].position {
			return rows[i].position < rows[j].position
		}
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.After(rows[j].at)
		}
		return rows[i].driver < rows[j].driver
	})

	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.driver)
	}
	return out
}

func pointsFor(position int) float64 {
	if position < 1 || position > len(StandardPoints) {
		return 0
	}
	return StandardPoints[position-1]
}

func dayRangeQuery(from, to time.Time, sessionType string) string {
	return "date_start>=" + from.Format(time.DateOnly) +
		"&date_start<" + to.Format(time.DateOnly) +
		"&session_type=" + sessionType
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
