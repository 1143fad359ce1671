package logging

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMirrorReceivesBoundFields(t *testing.T) {
	core, logs := observer.New(LevelInfo)
	logger := FromZap(zap.New(core)).With("component", "poller")

	var (
		mu   sync.Mutex
		seen []any
	)
	SetMirror(func(_ context.Context, _ Level, msg string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		seen = append([]any{msg}, args...)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.InfoContext(context.Background(), "race synced", "race_id", "r1")
	logger.Debug("dropped below level")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 zap entry, got %d", logs.Len())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 5 {
		t.Fatalf("unexpected mirrored args: %v", seen)
	}
	if seen[0] != "race synced" || seen[1] != "component" || seen[2] != "poller" || seen[3] != "race_id" {
		t.Fatalf("unexpected mirrored args: %v", seen)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"":      LevelInfo,
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"error": LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", raw, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
