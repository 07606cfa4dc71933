package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider     = (*StaticProvider)(nil)
	_ ports.SessionExchanger = (*FakeExchanger)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// StaticProvider returns a fixed login URL and records the callback it was given.
type StaticProvider struct {
	URL string
	Err error

	mu           sync.Mutex
	lastCallback string
}

func (p *StaticProvider) LoginURL(_ context.Context, in ports.BeginInput) (string, error) {
	p.mu.Lock()
	p.lastCallback = in.CallbackURL
	p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	if p.URL == "" {
		return "https://idp.test/?redirect=" + in.CallbackURL, nil
	}
	return p.URL, nil
}

// LastCallback returns the callback URL of the most recent LoginURL call.
func (p *StaticProvider) LastCallback() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCallback
}

// FakeExchanger answers every exchange with Identity, counting calls. ExchangeFunc, when
// set, takes precedence.
type FakeExchanger struct {
	Identity     domainauth.Identity
	Credential   string
	Err          error
	ExchangeFunc func(ctx context.Context, token string) (ports.ExchangeResult, error)

	exchanges atomic.Int32
	revokes   atomic.Int32
	mu        sync.Mutex
	revoked   []string
}

// NewFakeExchanger returns an exchanger that signs everyone in as role.
func NewFakeExchanger(role domainauth.Role) *FakeExchanger {
	return &FakeExchanger{
		Identity: domainauth.Identity{
			UserID: "user-" + string(role),
			Name:   "Test " + string(role),
			Email:  string(role) + "@plant.example",
			Role:   role,
		},
		Credential: "backend-" + string(role),
	}
}

func (f *FakeExchanger) Exchange(ctx context.Context, token string) (ports.ExchangeResult, error) {
	f.exchanges.Add(1)
	if f.ExchangeFunc != nil {
		return f.ExchangeFunc(ctx, token)
	}
	if f.Err != nil {
		return ports.ExchangeResult{}, f.Err
	}
	return ports.ExchangeResult{Identity: f.Identity, Credential: f.Credential}, nil
}

func (f *FakeExchanger) Revoke(_ context.Context, credential string) error {
	f.revokes.Add(1)
	f.mu.Lock()
	f.revoked = append(f.revoked, credential)
	f.mu.Unlock()
	return nil
}

// Exchanges reports how many exchanges ran.
func (f *FakeExchanger) Exchanges() int { return int(f.exchanges.Load()) }

// Revoked returns the credentials passed to Revoke.
func (f *FakeExchanger) Revoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.revoked...)
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
