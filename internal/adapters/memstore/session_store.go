// Package memstore holds sessions in process memory for single-replica deployments and
// local development. Sessions do not survive a restart.
package memstore

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// DefaultCapacity bounds the number of concurrent sessions kept in memory.
const DefaultCapacity = 10_000

// Options configures a SessionStore.
type Options struct {
	Capacity int
	// TTL is the upper bound on how long any entry stays resident; each session's own
	// ExpiresAt is enforced on read.
	TTL time.Duration
	Now func() time.Time
}

// SessionStore is an LRU-bounded in-memory session store.
type SessionStore struct {
	cache *expirable.LRU[string, domainauth.Session]
	now   func() time.Time
}

// NewSessionStore creates an in-memory session store.
func NewSessionStore(opts Options) *SessionStore {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		cache: expirable.NewLRU[string, domainauth.Session](capacity, nil, ttl),
		now:   now,
	}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	s.cache.Add(sess.ID, sess)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.cache.Remove(id)
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Remove(id)
	return nil
}

// Len reports the number of resident sessions.
func (s *SessionStore) Len() int { return s.cache.Len() }
