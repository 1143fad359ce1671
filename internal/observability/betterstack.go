package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/race-predictor/internal/config"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap/zapcore"
)

const (
	shipperQueueSize     = 2048
	shipperBatchSize     = 50
	shipperFlushInterval = 2 * time.Second
	shipperDrainTimeout  = 5 * time.Second
)

// InitBetterStackLogger returns a logger that writes to stdout and, when
// enabled, also ships entries at BETTERSTACK_MIN_LEVEL and above to Better
// Stack in batches. The returned flush drains pending batches.
func InitBetterStackLogger(cfg config.Config, base *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if base == nil {
		base = logging.NewJSON(cfg.LogLevel)
	}
	if !cfg.BetterStackEnabled {
		base.Info("betterstack disabled")
		return base, func(context.Context) error { return nil }, nil
	}

	endpoint := betterStackURL(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newLogShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	logger := logging.New(
		logging.NewJSONCore(zapcore.Lock(os.Stdout), cfg.LogLevel),
		logging.NewJSONCore(shipper, cfg.BetterStackMinLevel),
	).With("service", cfg.ServiceName, "env", cfg.AppEnv)

	logger.Info("betterstack enabled", "endpoint", endpoint, "min_level", cfg.BetterStackMinLevel.String())

	flush := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, shipperDrainTimeout)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack shipper: %w", err)
		}
		if err := logger.Sync(); err != nil && !isStdoutSyncError(err) {
			return err
		}
		return nil
	}
	return logger, flush, nil
}

func betterStackURL(raw string) string {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return value
	default:
		return "https://" + value
	}
}

// logShipper is a zapcore.WriteSyncer that queues encoded entries and posts
// them as JSON arrays. Writes never block: a full queue drops the entry.
type logShipper struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.RWMutex
	closed  bool
	entries chan []byte
	done    chan struct{}
	once    sync.Once

	dropped atomic.Uint64
	failed  atomic.Uint64
}

func newLogShipper(endpoint, token string, timeout time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &logShipper{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		entries:  make(chan []byte, shipperQueueSize),
		done:     make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	entry := bytes.TrimSpace(p)
	if len(entry) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses p once Write returns.
	select {
	case s.entries <- append([]byte(nil), entry...):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full, dropped=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *logShipper) Sync() error { return nil }

func (s *logShipper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(shipperFlushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, shipperBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.post(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-s.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= shipperBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *logShipper) post(batch [][]byte) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, entry := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(entry)
	}
	_ = buf.WriteByte(']')

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		s.reportFailure(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.reportFailure(err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		s.reportFailure(fmt.Errorf("status %d", resp.StatusCode))
	}
}

func (s *logShipper) reportFailure(err error) {
	if n := s.failed.Add(1); n == 1 || n%50 == 0 {
		fmt.Fprintf(os.Stderr, "betterstack ship failed (failures=%d): %v\n", n, err)
	}
}

// Close stops accepting entries and waits for the final batch to post.
func (s *logShipper) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.entries)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isStdoutSyncError matches the errors fsync returns for terminals and pipes.
func isStdoutSyncError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl")
}
