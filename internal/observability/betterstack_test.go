package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/config"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

type shipperSink struct {
	mu      sync.Mutex
	batches [][]map[string]any
	auth    []string
}

func (s *shipperSink) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		if err := json.Unmarshal(raw, &batch); err != nil {
			t.Errorf("batch is not a JSON array: %v (%s)", err, raw)
		}
		s.mu.Lock()
		s.batches = append(s.batches, batch)
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *shipperSink) entries() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]any
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelWarn,
		LogLevel:            logging.LevelError,
		ServiceName:         "race-predictor-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsBatchOnFlush(t *testing.T) {
	t.Parallel()

	sink := &shipperSink{}
	server := httptest.NewServer(sink.handler(t))
	defer server.Close()

	logger, flush, err := InitBetterStackLogger(betterStackConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.WarnContext(context.Background(), "provider slow", "race_id", "race-2026-01")
	logger.ErrorContext(context.Background(), "sync failed", "race_id", "race-2026-01")
	logger.InfoContext(context.Background(), "below min level")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got := sink.entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 shipped entries, got %d: %v", len(got), got)
	}
	if got[0]["msg"] != "provider slow" || got[1]["msg"] != "sync failed" {
		t.Fatalf("unexpected entries: %v", got)
	}
	if got[0]["service"] != "race-predictor-api" {
		t.Fatalf("expected service field on shipped entry: %v", got[0])
	}
	for _, auth := range sink.auth {
		if auth != "Bearer secret-token" {
			t.Fatalf("unexpected authorization header: %q", auth)
		}
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	t.Parallel()

	base := logging.NewNop()
	logger, flush, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if logger != base {
		t.Fatalf("expected the base logger when betterstack is disabled")
	}
	if err := flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestLogShipper_DropsAfterClose(t *testing.T) {
	t.Parallel()

	sink := &shipperSink{}
	server := httptest.NewServer(sink.handler(t))
	defer server.Close()

	s := newLogShipper(server.URL, "", time.Second)
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Write([]byte(`{"msg":"late"}`)); err != nil {
		t.Fatalf("write after close should be a no-op: %v", err)
	}
	if len(sink.entries()) != 0 {
		t.Fatalf("expected nothing shipped after close")
	}
}

func TestBetterStackURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                        "",
		"in.logs.betterstack.com": "https://in.logs.betterstack.com",
		"http://localhost:9000":   "http://localhost:9000",
	}
	for in, want := range cases {
		if got := betterStackURL(in); got != want {
			t.Fatalf("betterStackURL(%q) = %q, want %q", in, got, want)
		}
	}
}
