package f1data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
	"github.com/riskibarqy/race-predictor/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultResultsBaseURL  = "https://api.openf1.org/v1"
	defaultScheduleBaseURL = "https://f1api.dev/api"
	maxResponseBytes       = 6 << 20
)

var errTransient = crerr.New("race data provider transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	ResultsBaseURL  string
	ScheduleBaseURL string
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client adapts the OpenF1 timing API and the f1api.dev calendar into the
// shapes the use cases consume.
type Client struct {
	httpClient      *http.Client
	resultsBaseURL  string
	scheduleBaseURL string
	maxRetries      int
	retryBackoff    time.Duration
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
	flight          singleflight.Group
	now             func() time.Time
}

var _ usecase.RaceDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient:      httpClient,
		resultsBaseURL:  baseURLOrDefault(cfg.ResultsBaseURL, defaultResultsBaseURL),
		scheduleBaseURL: baseURLOrDefault(cfg.ScheduleBaseURL, defaultScheduleBaseURL),
		maxRetries:      max(cfg.MaxRetries, 0),
		retryBackoff:    backoff,
		logger:          logger,
		breaker:         resilience.NewCircuitBreaker("f1data", cfg.CircuitBreaker),
		now:             time.Now,
	}
}

// statusError is a non-2xx response that is not worth retrying.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Status, e.Body)
}

func isStatus(err error, code int) bool {
	var se *statusError
	return crerr.As(err, &se) && se.Status == code
}

// getJSON fetches baseURL+path and decodes the body into target. rawQuery is
// sent as-is so comparison filters such as date_start>= survive.
func (c *Client) getJSON(ctx context.Context, baseURL, path, rawQuery string, target any) error {
	raw, err := c.getRaw(ctx, baseURL, path, rawQuery)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload %s: %w", path, err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, baseURL, path, rawQuery string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "f1data circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: race data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := baseURL + path
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && crerr.Is(reqErr, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, errTransient) {
			return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, &statusError{Status: resp.StatusCode, Body: abbreviateBody(raw)}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "f1data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func baseURLOrDefault(raw, fallback string) string {
	v := strings.TrimRight(strings.TrimSpace(raw), "/")
	if v == "" {
		return fallback
	}
	return v
}

// Breaker exposes the circuit breaker for state observers. It is nil when
// the breaker is disabled.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}
