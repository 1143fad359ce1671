package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	MetricsEnabled             bool
	AnubisBaseURL              string
	AnubisIntrospectURL        string
	AnubisAdminKey             string
	AnubisTimeout              time.Duration
	AnubisPrincipalTTL         time.Duration
	AnubisCircuit              resilience.CircuitBreakerConfig
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	F1DataResultsBaseURL       string
	F1DataScheduleBaseURL      string
	F1DataTimeout              time.Duration
	F1DataMaxRetries           int
	F1DataRetryBackoff         time.Duration
	F1DataCircuit              resilience.CircuitBreakerConfig
	InternalJobToken           string
	QStashEnabled              bool
	QStashBaseURL              string
	QStashToken                string
	QStashTargetBaseURL        string
	QStashRetries              int
	QStashCircuit              resilience.CircuitBreakerConfig
	RedisURL                   string
	PollerEnabled              bool
	PollerInterval             time.Duration
	PollerRaceDuration         time.Duration
	PollerGracePeriod          time.Duration
	PollerInterRaceDelay       time.Duration
	SeedEnabled                bool
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:              appEnv,
		ServiceName:         getEnv("APP_SERVICE_NAME", "race-predictor-api"),
		ServiceVersion:      getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:            getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:            parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:               strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AnubisBaseURL:       getEnv("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL: getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:      getEnv("ANUBIS_ADMIN_KEY", ""),
		RedisURL:            strings.TrimSpace(getEnv("REDIS_URL", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = positiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SeedEnabled, err = getEnvAsBool("DB_SEED_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = positiveDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAnubis(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadF1Data(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadQStash(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadPoller(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.UptraceCaptureRequestBody, err = getEnvAsBool("UPTRACE_CAPTURE_REQUEST_BODY", "true"); err != nil {
		return err
	}
	if cfg.UptraceRequestBodyMaxBytes, err = getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192); err != nil {
		return fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if cfg.UptraceRequestBodyMaxBytes <= 0 {
		return fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	if cfg.BetterStackEnabled, err = getEnvAsBool("BETTERSTACK_ENABLED", "false"); err != nil {
		return err
	}
	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	cfg.BetterStackToken = strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", ""))
	if cfg.BetterStackTimeout, err = positiveDuration("BETTERSTACK_TIMEOUT", "3s"); err != nil {
		return err
	}
	cfg.BetterStackMinLevel = parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func loadAnubis(cfg *Config) error {
	var err error
	if cfg.AnubisTimeout, err = positiveDuration("ANUBIS_TIMEOUT", "3s"); err != nil {
		return err
	}
	// A negative TTL turns the principal cache off.
	if cfg.AnubisPrincipalTTL, err = time.ParseDuration(getEnv("ANUBIS_PRINCIPAL_CACHE_TTL", "30s")); err != nil {
		return fmt.Errorf("parse ANUBIS_PRINCIPAL_CACHE_TTL: %w", err)
	}
	if cfg.AnubisCircuit, err = loadCircuitBreaker("ANUBIS"); err != nil {
		return err
	}
	return nil
}

func loadF1Data(cfg *Config) error {
	var err error
	cfg.F1DataResultsBaseURL = strings.TrimSpace(getEnv("F1DATA_RESULTS_BASE_URL", "https://api.openf1.org/v1"))
	cfg.F1DataScheduleBaseURL = strings.TrimSpace(getEnv("F1DATA_SCHEDULE_BASE_URL", "https://f1api.dev/api"))
	if cfg.F1DataTimeout, err = positiveDuration("F1DATA_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.F1DataMaxRetries, err = getEnvAsInt("F1DATA_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse F1DATA_MAX_RETRIES: %w", err)
	}
	if cfg.F1DataMaxRetries < 0 {
		return fmt.Errorf("F1DATA_MAX_RETRIES must be >= 0")
	}
	if cfg.F1DataRetryBackoff, err = positiveDuration("F1DATA_RETRY_BACKOFF", "500ms"); err != nil {
		return err
	}
	if cfg.F1DataCircuit, err = loadCircuitBreaker("F1DATA"); err != nil {
		return err
	}
	return nil
}

func loadQStash(cfg *Config) error {
	var err error
	if cfg.QStashEnabled, err = getEnvAsBool("QSTASH_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.QStashCircuit, err = loadCircuitBreaker("QSTASH"); err != nil {
		return err
	}
	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadPoller(cfg *Config) error {
	var err error
	if cfg.PollerEnabled, err = getEnvAsBool("POLLER_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.PollerInterval, err = positiveDuration("POLLER_INTERVAL", "1h"); err != nil {
		return err
	}
	if cfg.PollerRaceDuration, err = positiveDuration("POLLER_RACE_DURATION", "2h"); err != nil {
		return err
	}
	if cfg.PollerGracePeriod, err = time.ParseDuration(getEnv("POLLER_GRACE_PERIOD", "1h")); err != nil {
		return fmt.Errorf("parse POLLER_GRACE_PERIOD: %w", err)
	}
	if cfg.PollerGracePeriod < 0 {
		return fmt.Errorf("POLLER_GRACE_PERIOD must be >= 0")
	}
	if cfg.PollerInterRaceDelay, err = time.ParseDuration(getEnv("POLLER_INTER_RACE_DELAY", "1s")); err != nil {
		return fmt.Errorf("parse POLLER_INTER_RACE_DELAY: %w", err)
	}
	if cfg.PollerInterRaceDelay < 0 {
		return fmt.Errorf("POLLER_INTER_RACE_DELAY must be >= 0")
	}
	return nil
}

// loadCircuitBreaker reads <PREFIX>_CIRCUIT_* variables.
func loadCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	out := resilience.DefaultCircuitBreakerConfig()
	var err error

	if out.Enabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return out, err
	}
	key := prefix + "_CIRCUIT_FAILURE_COUNT"
	if out.FailureThreshold, err = getEnvAsInt(key, out.FailureThreshold); err != nil {
		return out, fmt.Errorf("parse %s: %w", key, err)
	}
	if out.FailureThreshold < 1 {
		return out, fmt.Errorf("%s must be >= 1", key)
	}
	if out.OpenTimeout, err = positiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", out.OpenTimeout.String()); err != nil {
		return out, err
	}
	key = prefix + "_CIRCUIT_HALF_OPEN_MAX_REQ"
	if out.HalfOpenMaxReq, err = getEnvAsInt(key, out.HalfOpenMaxReq); err != nil {
		return out, fmt.Errorf("parse %s: %w", key, err)
	}
	if out.HalfOpenMaxReq < 1 {
		return out, fmt.Errorf("%s must be >= 1", key)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	level, err := logging.ParseLevel(v)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
