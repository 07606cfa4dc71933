// Package testutil provides shared helpers for tests across the UI server.
package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
	Cleanup(func())
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true" || v == "TRUE"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// Redis test utilities

// SetupTestRedis returns a Redis client for tests. When TEST_REDIS_ADDR points at a
// reachable server it is used and flushed; otherwise an in-process miniredis backs the
// client so tests never skip for lack of infrastructure.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	client, _ := setupRedis(t)
	return client
}

// SetupMiniRedis returns a client backed by an in-process miniredis together with the
// server, so tests can fast-forward TTLs.
func SetupMiniRedis(t TestingTB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client: %v", cerr)
		}
		mr.Close()
	})
	return client, mr
}

func setupRedis(t TestingTB) (*redis.Client, *miniredis.Miniredis) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		return SetupMiniRedis(t)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Logf("Redis not available at %s, using miniredis: %v", addr, err)
		return SetupMiniRedis(t)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client: %v", cerr)
		}
	})
	return client, nil
}

// FixedTimeFunc returns a clock that always reports t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTime returns a stable instant for deterministic tests.
func TestTime() time.Time {
	return time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
}

// TestTimeProvider is a settable clock safe for concurrent use.
type TestTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewTestTimeProvider creates a clock starting at startTime.
func NewTestTimeProvider(startTime time.Time) *TestTimeProvider {
	return &TestTimeProvider{now: startTime}
}

// Now returns the current fake time.
func (p *TestTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// SetTime moves the clock to t.
func (p *TestTimeProvider) SetTime(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t
}

// AddTime advances the clock by d.
func (p *TestTimeProvider) AddTime(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}
