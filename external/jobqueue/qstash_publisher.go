package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
	"github.com/riskibarqy/race-predictor/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	HTTPClient       *http.Client
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
	Logger           *logging.Logger
}

// QStashPublisher schedules internal job calls through Upstash QStash. QStash
// later POSTs the payload to TargetBaseURL+path.
type QStashPublisher struct {
	client           *http.Client
	publishBaseURL   string
	targetBaseURL    string
	token            string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

var _ usecase.JobQueue = (*QStashPublisher)(nil)

// NewQStashPublisher validates both base URLs up front so a misconfigured
// deployment fails at startup rather than on the first race weekend.
func NewQStashPublisher(cfg QStashPublisherConfig) (*QStashPublisher, error) {
	publishBaseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client:           client,
		publishBaseURL:   publishBaseURL,
		targetBaseURL:    targetBaseURL,
		token:            strings.TrimSpace(cfg.Token),
		retries:          max(cfg.Retries, 0),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker("qstash", cfg.CircuitBreaker),
	}, nil
}

type publishRequest struct {
	path            string
	targetURL       string
	publishURL      string
	body            []byte
	delay           string
	deduplicationID string
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	if err := p.breaker.Allow(); err != nil {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State())
		return fmt.Errorf("%w: qstash is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	pr, err := p.prepare(path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}

	preview := curlPreview(pr, p.retries, p.internalJobToken != "")
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", pr.targetURL),
			attribute.String("qstash.path", pr.path),
			attribute.String("qstash.delay", pr.delay),
			attribute.String("qstash.deduplication_id", pr.deduplicationID),
			attribute.String("qstash.request_curl_preview", preview),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", pr.path, "target_url", pr.targetURL, "curl_preview", preview)

	err = p.send(ctx, pr)
	switch {
	case err == nil:
		p.breaker.RecordSuccess()
	case crerr.Is(err, errQStashTransient):
		p.breaker.RecordFailure()
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	default:
		p.breaker.RecordSuccess()
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", pr.path, "delay", pr.delay, "deduplication_id", pr.deduplicationID)
	return nil
}

func (p *QStashPublisher) prepare(path string, payload any, delay time.Duration, deduplicationID string) (publishRequest, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return publishRequest{}, crerr.New("job path is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "marshal job payload")
	}

	targetURL := p.targetBaseURL + path
	return publishRequest{
		path:            path,
		targetURL:       targetURL,
		publishURL:      p.publishBaseURL + "/v2/publish/" + targetURL,
		body:            body,
		delay:           normalizeDelay(delay),
		deduplicationID: strings.TrimSpace(deduplicationID),
	}, nil
}

func (p *QStashPublisher) send(ctx context.Context, pr publishRequest) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pr.publishURL, bytes.NewReader(pr.body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if pr.delay != "0s" {
		req.Header.Set("Upstash-Delay", pr.delay)
	}
	if pr.deduplicationID != "" {
		req.Header.Set("Upstash-Deduplication-Id", pr.deduplicationID)
	}
	if p.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", p.internalJobToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish job target_url=%s: %v", errQStashTransient, pr.targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := fmt.Sprintf("publish job status=%d target_url=%s body=%s", resp.StatusCode, pr.targetURL, strings.TrimSpace(string(raw)))
	if isQStashRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %s", errQStashTransient, msg)
	}
	return crerr.New(msg)
}

func normalizeDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds <= 0 {
		return "0s"
	}
	return strconv.Itoa(seconds) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

// curlPreview renders the publish call with secrets masked, for tracing.
func curlPreview(pr publishRequest, retries int, withForwardToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	word := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	header := func(value string) {
		word("-H")
		word(shellQuote(value))
	}

	word("curl -X POST")
	word(shellQuote(pr.publishURL))
	header("Authorization: Bearer ***")
	header("Content-Type: application/json")
	header("Upstash-Method: POST")
	if retries > 0 {
		header("Upstash-Retries: " + strconv.Itoa(retries))
	}
	if pr.delay != "0s" {
		header("Upstash-Delay: " + pr.delay)
	}
	if pr.deduplicationID != "" {
		header("Upstash-Deduplication-Id: " + pr.deduplicationID)
	}
	if withForwardToken {
		header("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	word("-d")
	word(shellQuote(truncateForLog(string(pr.body), 4096)))
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func (p *QStashPublisher) Breaker() *resilience.CircuitBreaker {
	return p.breaker
}
