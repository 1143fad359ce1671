package httpapi

import (
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
	"github.com/riskibarqy/race-predictor/internal/domain/lockout"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

type scoringConfigDTO struct {
	PositionPoints     []float64 `json:"position_points" validate:"required,min=1,max=20"`
	FastestLapPoints   float64   `json:"fastest_lap_points" validate:"gte=0"`
	PolePositionPoints float64   `json:"pole_position_points" validate:"gte=0"`
	DNFPenalty         float64   `json:"dnf_penalty" validate:"gte=0"`
}

func (d scoringConfigDTO) toDomain() scoring.Config {
	return scoring.Config{
		PositionPoints:     append([]float64(nil), d.PositionPoints...),
		FastestLapPoints:   d.FastestLapPoints,
		PolePositionPoints: d.PolePositionPoints,
		DNFPenalty:         d.DNFPenalty,
	}
}

func scoringConfigToDTO(c scoring.Config) scoringConfigDTO {
	return scoringConfigDTO{
		PositionPoints:     append([]float64(nil), c.PositionPoints...),
		FastestLapPoints:   c.FastestLapPoints,
		PolePositionPoints: c.PolePositionPoints,
		DNFPenalty:         c.DNFPenalty,
	}
}

type createRoomRequest struct {
	SeasonID string                `json:"season_id" validate:"required"`
	Name     string                `json:"name" validate:"max=80"`
	Lockout  *room.LockoutDocument `json:"lockout"`
	Scoring  *scoringConfigDTO     `json:"scoring"`
}

type updateRoomRequest struct {
	Name    *string               `json:"name" validate:"omitempty,max=80"`
	Lockout *room.LockoutDocument `json:"lockout"`
	Scoring *scoringConfigDTO     `json:"scoring"`
}

type joinRoomRequest struct {
	JoinCode string `json:"join_code" validate:"required"`
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open locked scored archived"`
}

type pickDTO struct {
	Position     int `json:"position" validate:"min=1"`
	DriverNumber int `json:"driver_number" validate:"min=1"`
}

type predictionRequest struct {
	Picks            []pickDTO `json:"picks" validate:"required,min=1,max=20,dive"`
	PoleDriver       *int      `json:"pole_driver" validate:"omitempty,min=1"`
	FastestLapDriver *int      `json:"fastest_lap_driver" validate:"omitempty,min=1"`
	DNFDrivers       []int     `json:"dnf_drivers" validate:"max=20,dive,min=1"`
}

type syncRaceJobRequest struct {
	RaceID  string `json:"race_id" validate:"required"`
	Trigger string `json:"trigger" validate:"omitempty,oneof=poller host job"`
}

type syncScheduleJobRequest struct {
	Year int `json:"year" validate:"required,min=1950,max=2100"`
}

// decodeLockout converts an optional wire document into a lockout config.
func decodeLockout(doc *room.LockoutDocument) (room.LockoutConfig, error) {
	if doc == nil {
		return nil, nil
	}
	cfg, err := room.DecodeLockout(*doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
	}
	return cfg, nil
}

type sessionWindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type sessionTimesDTO struct {
	FP1        *sessionWindowDTO `json:"fp1"`
	FP2        *sessionWindowDTO `json:"fp2"`
	FP3        *sessionWindowDTO `json:"fp3"`
	Qualifying *sessionWindowDTO `json:"qualifying"`
	Race       *sessionWindowDTO `json:"race"`
}

type resultPositionDTO struct {
	Position     int     `json:"position"`
	DriverNumber int     `json:"driver_number"`
	Points       float64 `json:"points"`
}

type officialResultDTO struct {
	Positions        []resultPositionDTO `json:"positions"`
	FastestLapDriver *int                `json:"fastest_lap_driver"`
	PoleDriver       *int                `json:"pole_driver"`
	DNFDrivers       []int               `json:"dnf_drivers"`
	RecordedAt       string              `json:"recorded_at"`
}

type raceDTO struct {
	ID        string             `json:"id"`
	SeasonID  string             `json:"season_id"`
	Round     int                `json:"round"`
	Name      string             `json:"name"`
	StartsAt  string             `json:"starts_at"`
	Circuit   string             `json:"circuit"`
	Location  string             `json:"location"`
	Country   string             `json:"country"`
	Sessions  *sessionTimesDTO   `json:"sessions"`
	HasResult bool               `json:"has_result"`
	Result    *officialResultDTO `json:"result"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	out := formatTime(*t)
	return &out
}

func sessionWindowToDTO(w *race.SessionWindow) *sessionWindowDTO {
	if w == nil {
		return nil
	}
	return &sessionWindowDTO{Start: formatTime(w.Start), End: formatTime(w.End)}
}

func raceToDTO(rc race.Race) raceDTO {
	out := raceDTO{
		ID:        rc.ID,
		SeasonID:  rc.SeasonID,
		Round:     rc.Round,
		Name:      rc.Name,
		StartsAt:  formatTime(rc.StartsAt),
		Circuit:   rc.Circuit,
		Location:  rc.Location,
		Country:   rc.Country,
		HasResult: rc.HasResult(),
	}
	if rc.Sessions != nil {
		out.Sessions = &sessionTimesDTO{
			FP1:        sessionWindowToDTO(rc.Sessions.FP1),
			FP2:        sessionWindowToDTO(rc.Sessions.FP2),
			FP3:        sessionWindowToDTO(rc.Sessions.FP3),
			Qualifying: sessionWindowToDTO(rc.Sessions.Qualifying),
			Race:       sessionWindowToDTO(rc.Sessions.Race),
		}
	}
	if rc.Result != nil {
		positions := make([]resultPositionDTO, 0, len(rc.Result.Positions))
		for _, p := range rc.Result.Positions {
			positions = append(positions, resultPositionDTO{Position: p.Position, DriverNumber: p.DriverNumber, Points: p.Points})
		}
		out.Result = &officialResultDTO{
			Positions:        positions,
			FastestLapDriver: rc.Result.FastestLapDriver,
			PoleDriver:       rc.Result.PoleDriver,
			DNFDrivers:       append([]int{}, rc.Result.DNFDrivers...),
			RecordedAt:       formatTime(rc.Result.RecordedAt),
		}
	}
	return out
}

func racesToDTO(items []race.Race) []raceDTO {
	out := make([]raceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, raceToDTO(item))
	}
	return out
}

type seasonDTO struct {
	ID           string `json:"id"`
	Year         int    `json:"year"`
	TotalRaces   int    `json:"total_races"`
	CurrentRound int    `json:"current_round"`
}

func seasonToDTO(s season.Season) seasonDTO {
	return seasonDTO{ID: s.ID, Year: s.Year, TotalRaces: s.TotalRaces, CurrentRound: s.CurrentRound}
}

type driverDTO struct {
	Number      int    `json:"number"`
	Acronym     string `json:"acronym"`
	FullName    string `json:"full_name"`
	TeamName    string `json:"team_name"`
	TeamColour  string `json:"team_colour"`
	HeadshotURL string `json:"headshot_url"`
	CountryCode string `json:"country_code"`
}

func driverToDTO(d driver.Driver) driverDTO {
	return driverDTO{
		Number:      d.Number,
		Acronym:     d.Acronym,
		FullName:    d.FullName,
		TeamName:    d.TeamName,
		TeamColour:  d.TeamColour,
		HeadshotURL: d.HeadshotURL,
		CountryCode: d.CountryCode,
	}
}

type userDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Email: u.Email, AvatarURL: u.AvatarURL, CreatedAt: formatTime(u.CreatedAt)}
}

type roomDTO struct {
	ID        string               `json:"id"`
	HostID    string               `json:"host_id"`
	SeasonID  string               `json:"season_id"`
	Name      string               `json:"name"`
	Lockout   room.LockoutDocument `json:"lockout"`
	Scoring   scoringConfigDTO     `json:"scoring"`
	Status    string               `json:"status"`
	JoinCode  string               `json:"join_code"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

func roomToDTO(rm room.Room) roomDTO {
	return roomDTO{
		ID:        rm.ID,
		HostID:    rm.HostID,
		SeasonID:  rm.SeasonID,
		Name:      rm.Name,
		Lockout:   room.EncodeLockout(rm.Lockout),
		Scoring:   scoringConfigToDTO(rm.Scoring),
		Status:    string(rm.Status),
		JoinCode:  rm.JoinCode,
		CreatedAt: formatTime(rm.CreatedAt),
		UpdatedAt: formatTime(rm.UpdatedAt),
	}
}

type participantDTO struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

func participantToDTO(p room.Participant) participantDTO {
	return participantDTO{UserID: p.UserID, Role: string(p.Role), JoinedAt: formatTime(p.JoinedAt)}
}

type predictionDTO struct {
	RoomID           string    `json:"room_id"`
	RaceID           string    `json:"race_id"`
	UserID           string    `json:"user_id"`
	Picks            []pickDTO `json:"picks"`
	PoleDriver       *int      `json:"pole_driver"`
	FastestLapDriver *int      `json:"fastest_lap_driver"`
	DNFDrivers       []int     `json:"dnf_drivers"`
	SubmittedAt      string    `json:"submitted_at"`
	UpdatedAt        string    `json:"updated_at"`
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	picks := make([]pickDTO, 0, len(p.Picks))
	for _, pick := range p.SortedPicks() {
		picks = append(picks, pickDTO{Position: pick.Position, DriverNumber: pick.DriverNumber})
	}
	return predictionDTO{
		RoomID:           p.RoomID,
		RaceID:           p.RaceID,
		UserID:           p.UserID,
		Picks:            picks,
		PoleDriver:       p.PoleDriver,
		FastestLapDriver: p.FastestLapDriver,
		DNFDrivers:       append([]int{}, p.DNFDrivers...),
		SubmittedAt:      formatTime(p.SubmittedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
	}
}

func (r predictionRequest) toInput(userID, roomID, raceID string) usecase.SubmitPredictionInput {
	picks := make([]prediction.Pick, 0, len(r.Picks))
	for _, p := range r.Picks {
		picks = append(picks, prediction.Pick{Position: p.Position, DriverNumber: p.DriverNumber})
	}
	return usecase.SubmitPredictionInput{
		UserID:           userID,
		RoomID:           roomID,
		RaceID:           raceID,
		Picks:            picks,
		PoleDriver:       r.PoleDriver,
		FastestLapDriver: r.FastestLapDriver,
		DNFDrivers:       r.DNFDrivers,
	}
}

type lockoutEvaluationDTO struct {
	LockoutAt            *string `json:"lockout_at"`
	Locked               bool    `json:"locked"`
	TimeRemainingSeconds *int64  `json:"time_remaining_seconds"`
	Reason               string  `json:"reason"`
}

func lockoutEvaluationToDTO(e lockout.Evaluation) lockoutEvaluationDTO {
	out := lockoutEvaluationDTO{
		LockoutAt: formatOptionalTime(e.LockoutAt),
		Locked:    e.Locked,
		Reason:    string(e.Reason),
	}
	if e.TimeRemaining != nil {
		seconds := int64(e.TimeRemaining.Seconds())
		out.TimeRemainingSeconds = &seconds
	}
	return out
}

type breakdownDTO struct {
	PositionPoints     float64 `json:"position_points"`
	FastestLapPoints   float64 `json:"fastest_lap_points"`
	PolePositionPoints float64 `json:"pole_position_points"`
	DNFPenalty         float64 `json:"dnf_penalty"`
	Total              float64 `json:"total"`
}

type leaderboardRowDTO struct {
	Rank        int          `json:"rank"`
	UserID      string       `json:"user_id"`
	Username    string       `json:"username"`
	AvatarURL   string       `json:"avatar_url"`
	Points      float64      `json:"points"`
	RacesScored int          `json:"races_scored"`
	Breakdown   breakdownDTO `json:"breakdown"`
}

func leaderboardToDTO(rows []usecase.LeaderboardRow) []leaderboardRowDTO {
	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowDTO{
			Rank:        row.Rank,
			UserID:      row.UserID,
			Username:    row.Username,
			AvatarURL:   row.AvatarURL,
			Points:      row.Points,
			RacesScored: row.RacesScored,
			Breakdown: breakdownDTO{
				PositionPoints:     row.Breakdown.PositionPoints,
				FastestLapPoints:   row.Breakdown.FastestLapPoints,
				PolePositionPoints: row.Breakdown.PolePositionPoints,
				DNFPenalty:         row.Breakdown.DNFPenalty,
				Total:              row.Breakdown.Total,
			},
		})
	}
	return out
}

type dashboardRoomDTO struct {
	Room          roomDTO              `json:"room"`
	Lockout       lockoutEvaluationDTO `json:"lockout"`
	HasPrediction bool                 `json:"has_prediction"`
}

type dashboardDTO struct {
	Season      seasonDTO          `json:"season"`
	NextRace    *raceDTO           `json:"next_race"`
	TotalPoints float64            `json:"total_points"`
	Rooms       []dashboardRoomDTO `json:"rooms"`
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	out := dashboardDTO{
		Season:      seasonToDTO(d.Season),
		TotalPoints: d.TotalPoints,
		Rooms:       make([]dashboardRoomDTO, 0, len(d.Rooms)),
	}
	if d.NextRace != nil {
		next := raceToDTO(*d.NextRace)
		out.NextRace = &next
	}
	for _, item := range d.Rooms {
		out.Rooms = append(out.Rooms, dashboardRoomDTO{
			Room:          roomToDTO(item.Room),
			Lockout:       lockoutEvaluationToDTO(item.Lockout),
			HasPrediction: item.HasPrediction,
		})
	}
	return out
}

type syncRunDTO struct {
	ID             string   `json:"id"`
	RaceID         string   `json:"race_id"`
	Trigger        string   `json:"trigger"`
	Status         string   `json:"status"`
	RoomsProcessed int      `json:"rooms_processed"`
	RoomsScored    int      `json:"rooms_scored"`
	ScoresCreated  int      `json:"scores_created"`
	ScoresUpdated  int      `json:"scores_updated"`
	Errors         []string `json:"errors"`
	Message        string   `json:"message"`
	StartedAt      string   `json:"started_at"`
	FinishedAt     *string  `json:"finished_at"`
	TraceID        string   `json:"trace_id,omitempty"`
}

func syncRunToDTO(run syncrun.Run) syncRunDTO {
	return syncRunDTO{
		ID:             run.ID,
		RaceID:         run.RaceID,
		Trigger:        string(run.Trigger),
		Status:         string(run.Status),
		RoomsProcessed: run.RoomsProcessed,
		RoomsScored:    run.RoomsScored,
		ScoresCreated:  run.ScoresCreated,
		ScoresUpdated:  run.ScoresUpdated,
		Errors:         append([]string{}, run.Errors...),
		Message:        run.Message,
		StartedAt:      formatTime(run.StartedAt),
		FinishedAt:     formatOptionalTime(run.FinishedAt),
		TraceID:        run.TraceID,
	}
}
