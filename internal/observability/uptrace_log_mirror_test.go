package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]any{"room_id", "room-7f3a", "attempt", 2, 42, "orphan", "payload"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "room_id" || attrs[0].Value.AsString() != "room-7f3a" {
		t.Fatalf("unexpected room_id attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "arg_2" || attrs[2].Value.AsString() != "orphan" {
		t.Fatalf("non-string key should get a positional name: %+v", attrs[2])
	}
	if attrs[3].Key != "payload" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("trailing key should be empty: %+v", attrs[3])
	}
}

func TestLogValue(t *testing.T) {
	t.Parallel()

	count := uint16(7)
	tests := []struct {
		name string
		in   any
		kind otellog.Kind
	}{
		{name: "nil", in: nil, kind: otellog.KindEmpty},
		{name: "error", in: errors.New("provider timeout"), kind: otellog.KindString},
		{name: "duration", in: 1500 * time.Millisecond, kind: otellog.KindString},
		{name: "unsigned pointer", in: &count, kind: otellog.KindInt64},
		{name: "float32", in: float32(0.5), kind: otellog.KindFloat64},
		{name: "slice", in: []int{1, 44, 16}, kind: otellog.KindSlice},
		{name: "map", in: map[string]any{"scored": 3, "failed": false}, kind: otellog.KindMap},
		{name: "int keyed map", in: map[int]string{1: "VER"}, kind: otellog.KindString},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := logValue(tc.in, 0).Kind(); got != tc.kind {
				t.Fatalf("logValue(%v) kind = %s, want %s", tc.in, got, tc.kind)
			}
		})
	}
}

func TestSeverityOf(t *testing.T) {
	t.Parallel()

	if severityOf(logging.LevelWarn) != otellog.SeverityWarn {
		t.Fatalf("warn should map to SeverityWarn")
	}
	if severityOf(logging.LevelError) != otellog.SeverityError {
		t.Fatalf("error should map to SeverityError")
	}
}
