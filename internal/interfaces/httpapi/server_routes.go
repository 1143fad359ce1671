package httpapi

import "net/http"

type authWrapper func(http.HandlerFunc) http.Handler

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/current", handler.CurrentSeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/races", handler.ListSeasonRaces)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("GET /v1/drivers", handler.ListDrivers)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, authed authWrapper) {
	registerAuthorizedProfileRoutes(mux, handler, authed)
	registerAuthorizedRoomRoutes(mux, handler, authed)
	registerAuthorizedPredictionRoutes(mux, handler, authed)
	registerAuthorizedResultRoutes(mux, handler, authed)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/poll", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPollJob)))
	mux.Handle("POST /v1/internal/jobs/sync-race", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncRaceJob)))
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScheduleJob)))
	mux.Handle("GET /v1/internal/sync/runs/{runID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncRun)))
	mux.Handle("GET /v1/internal/races/{raceID}/sync-runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListRaceSyncRuns)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, authed authWrapper) {
	mux.Handle("GET /v1/me", authed(handler.GetMe))
	mux.Handle("GET /v1/me/stats", authed(handler.GetMyStats))
	mux.Handle("GET /v1/me/dashboard", authed(handler.GetMyDashboard))
}

func registerAuthorizedRoomRoutes(mux *http.ServeMux, handler *Handler, authed authWrapper) {
	mux.Handle("POST /v1/rooms", authed(handler.CreateRoom))
	mux.Handle("GET /v1/rooms", authed(handler.ListMyRooms))
	mux.Handle("POST /v1/rooms/join", authed(handler.JoinRoom))
	mux.Handle("GET /v1/rooms/{roomID}", authed(handler.GetRoom))
	mux.Handle("PATCH /v1/rooms/{roomID}", authed(handler.UpdateRoom))
	mux.Handle("PUT /v1/rooms/{roomID}/status", authed(handler.SetRoomStatus))
	mux.Handle("POST /v1/rooms/{roomID}/lock", authed(handler.LockRoom))
	mux.Handle("GET /v1/rooms/{roomID}/participants", authed(handler.ListRoomParticipants))
	mux.Handle("GET /v1/rooms/{roomID}/races/{raceID}/lockout", authed(handler.GetRaceLockout))
}

func registerAuthorizedPredictionRoutes(mux *http.ServeMux, handler *Handler, authed authWrapper) {
	mux.Handle("PUT /v1/rooms/{roomID}/races/{raceID}/prediction", authed(handler.SubmitPrediction))
	mux.Handle("PATCH /v1/rooms/{roomID}/races/{raceID}/prediction", authed(handler.UpdatePrediction))
	mux.Handle("GET /v1/rooms/{roomID}/races/{raceID}/prediction", authed(handler.GetMyPrediction))
	mux.Handle("GET /v1/rooms/{roomID}/races/{raceID}/predictions", authed(handler.ListRacePredictions))
}

func registerAuthorizedResultRoutes(mux *http.ServeMux, handler *Handler, authed authWrapper) {
	mux.Handle("GET /v1/rooms/{roomID}/leaderboard", authed(handler.GetRoomLeaderboard))
	mux.Handle("GET /v1/rooms/{roomID}/races/{raceID}/leaderboard", authed(handler.GetRaceLeaderboard))
	mux.Handle("POST /v1/rooms/{roomID}/races/{raceID}/score", authed(handler.ScoreRoomRace))
	// Host-triggered syncs go through the same orchestrator as the poller.
	mux.Handle("POST /v1/rooms/{roomID}/races/{raceID}/sync", authed(handler.SyncRoomRace))
	mux.Handle("POST /v1/rooms/{roomID}/sync", authed(handler.SyncRoomSeason))
}
