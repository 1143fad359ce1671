package anubis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	"github.com/riskibarqy/race-predictor/internal/platform/cache"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
	"github.com/riskibarqy/race-predictor/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var errAnubisTransient = crerr.New("anubis transient failure")

type ClientConfig struct {
	HTTPClient       *http.Client
	BaseURL          string
	IntrospectPath   string
	AdminKey         string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
	PrincipalTTL     time.Duration
	PrincipalMaxKeys int
	Logger           *logging.Logger
}

// Client verifies bearer tokens against the Anubis account service.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store
	logger        *logging.Logger
}

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
		httpClient.Timeout = 5 * time.Second
	}

	// A negative ttl disables principal caching.
	ttl := cfg.PrincipalTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	maxKeys := cfg.PrincipalMaxKeys
	if maxKeys <= 0 {
		maxKeys = 10_000
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: joinURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		breaker:       resilience.NewCircuitBreaker("anubis", cfg.CircuitBreaker),
		principals:    newPrincipalStore(ttl, maxKeys),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if c.principals != nil {
		if cached, ok := c.principals.Get(ctx, key); ok {
			if principal, ok := cached.(user.Principal); ok {
				return principal, nil
			}
		}
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	principal, err := c.introspect(ctx, token)
	if err != nil && crerr.Is(err, errAnubisTransient) {
		c.breaker.RecordFailure()
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	c.breaker.RecordSuccess()
	if err != nil {
		return user.Principal{}, err
	}

	if c.principals != nil {
		c.principals.Set(ctx, key, principal)
	}
	return principal, nil
}

func newPrincipalStore(ttl time.Duration, maxKeys int) *cache.Store {
	if ttl < 0 {
		return nil
	}
	return cache.NewBoundedStore(ttl, maxKeys)
}

// hashToken keeps raw bearer tokens out of the principal cache.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func joinURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return baseURL
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	return baseURL + path
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errAnubisTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errAnubisTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// A rejected admin key is a deployment problem, not a bad token.
		c.logger.WarnContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: account service rejected credentials", usecase.ErrDependencyUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return user.Principal{}, fmt.Errorf("%w: introspection status %d", errAnubisTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("anubis introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:      strings.TrimSpace(decoded.UserID),
		Email:       strings.TrimSpace(decoded.Email),
		DisplayName: strings.TrimSpace(decoded.Name),
		AvatarURL:   strings.TrimSpace(decoded.AvatarURL),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active    bool   `json:"active"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Breaker exposes the circuit breaker for state observers. It is nil when
// the breaker is disabled.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}
