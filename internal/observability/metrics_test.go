package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSyncMetrics_ExposesCounters(t *testing.T) {
	t.Parallel()

	m := NewSyncMetrics("rp_test")
	m.ObserveRaceSync("poller", "success", 1500*time.Millisecond)
	m.ObserveRoomScored(3, 1)
	m.ObservePollerRun(4, 2, 1, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	raw, _ := io.ReadAll(rec.Body)
	body := string(raw)

	for _, want := range []string{
		`rp_test_race_syncs_total{status="success",trigger="poller"} 1`,
		`rp_test_scores_written_total{kind="created"} 3`,
		`rp_test_poller_races_total{outcome="failed"} 1`,
		`rp_test_poller_runs_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
