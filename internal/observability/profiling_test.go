package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/race-predictor/internal/config"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

func TestPyroscopeConfig(t *testing.T) {
	t.Parallel()

	got := pyroscopeConfig(config.Config{
		PyroscopeAppName:       "race-predictor-api",
		PyroscopeServerAddress: "http://pyroscope:4040",
		PyroscopeUploadRate:    15 * time.Second,
		ServiceName:            "race-predictor-api",
		ServiceVersion:         "1.4.0",
		AppEnv:                 config.EnvProd,
	})
	if got.Tags["version"] != "1.4.0" || got.Tags["env"] != config.EnvProd {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if got.ProfileTypes[0] != pyroscope.ProfileCPU {
		t.Fatalf("cpu profile should be first, got %v", got.ProfileTypes)
	}
}

func TestPprofHandler_ServesIndex(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pprofHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	t.Parallel()

	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil || srv != nil {
		t.Fatalf("expected no server when disabled, got srv=%v err=%v", srv, err)
	}
	if err := StopPprofServer(nil, nil, time.Second); err != nil {
		t.Fatalf("stopping a nil server should be a no-op: %v", err)
	}
}
