package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aquaflow/aquaflow-ui/internal/domain/callback"
)

const (
	// DefaultCallbackGuardTTL is how long a callback arrival is remembered.
	DefaultCallbackGuardTTL = 5 * time.Minute
	// DefaultCallbackGuardSize bounds the number of remembered arrivals.
	DefaultCallbackGuardSize = 10_000
)

// CallbackGuard maps callback arrivals to their one-shot state machines so a session
// token is exchanged at most once per browser, however many times the callback fires.
type CallbackGuard struct {
	mu       sync.Mutex
	arrivals *expirable.LRU[string, *callback.Arrival]
}

// NewCallbackGuard builds a guard; non-positive values select the defaults.
func NewCallbackGuard(size int, ttl time.Duration) *CallbackGuard {
	if size <= 0 {
		size = DefaultCallbackGuardSize
	}
	if ttl <= 0 {
		ttl = DefaultCallbackGuardTTL
	}
	return &CallbackGuard{
		arrivals: expirable.NewLRU[string, *callback.Arrival](size, nil, ttl),
	}
}

// Arrival returns the state machine for (token, browserKey), creating it when absent.
func (g *CallbackGuard) Arrival(token, browserKey string) *callback.Arrival {
	key := arrivalKey(token, browserKey)

	g.mu.Lock()
	defer g.mu.Unlock()
	if a, ok := g.arrivals.Get(key); ok {
		return a
	}
	a := callback.NewArrival()
	g.arrivals.Add(key, a)
	return a
}

// Len reports the number of remembered arrivals.
func (g *CallbackGuard) Len() int { return g.arrivals.Len() }

// arrivalKey hashes the token so raw session tokens never sit in memory as map keys.
func arrivalKey(token, browserKey string) string {
	h := sha256.New()
	h.Write([]byte(token))
	h.Write([]byte{0})
	h.Write([]byte(browserKey))
	return hex.EncodeToString(h.Sum(nil))
}
