package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// BeginInput carries inputs for initiating a login.
type BeginInput struct {
	// CallbackURL is the absolute URL the identity provider sends the browser back to.
	CallbackURL string
}

// AuthProvider builds the identity-provider URL that starts a login.
type AuthProvider interface {
	LoginURL(ctx context.Context, in BeginInput) (string, error)
}

// ExchangeResult is what the backend hands back for a one-time session token.
type ExchangeResult struct {
	Identity domainauth.Identity
	// Credential is the durable token the backend accepts on later calls.
	Credential string
}

// SessionExchanger trades the identity provider's one-time token for a backend session
// and revokes that session on logout.
type SessionExchanger interface {
	Exchange(ctx context.Context, sessionToken string) (ExchangeResult, error)
	Revoke(ctx context.Context, credential string) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
