package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{srv.Addr()}})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, "test", time.Minute), srv
}

func TestRedisLocker_SecondLockFailsUntilUnlocked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	locker, srv := newTestLocker(t)

	lock, err := locker.Lock(ctx, "race-result-poller")
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if !srv.Exists("test:race-result-poller") {
		t.Fatalf("expected lock key to be set")
	}

	if _, err := locker.Lock(ctx, "race-result-poller"); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}

	if err := lock.Unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := locker.Lock(ctx, "race-result-poller"); err != nil {
		t.Fatalf("lock after unlock: %v", err)
	}
}

func TestRedisLocker_UnlockKeepsForeignLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	locker, srv := newTestLocker(t)

	lock, err := locker.Lock(ctx, "job")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	// Simulate expiry followed by another replica taking the lock.
	srv.FastForward(2 * time.Minute)
	if err := srv.Set("test:job", "other-replica"); err != nil {
		t.Fatalf("seed foreign lock: %v", err)
	}

	if err := lock.Unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	got, err := srv.Get("test:job")
	if err != nil || got != "other-replica" {
		t.Fatalf("foreign lock should survive, got %q err=%v", got, err)
	}
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	locker, srv := newTestLocker(t)

	if _, err := locker.Lock(ctx, "job"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	srv.FastForward(2 * time.Minute)
	if _, err := locker.Lock(ctx, "job"); err != nil {
		t.Fatalf("expected lock to be free after ttl: %v", err)
	}
}
