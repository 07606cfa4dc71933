package httpx

import (
	"context"

	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session and its
// backend credential. If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, session)
	return apiclient.WithCredential(ctx, session.BackendToken)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// IdentityFromContext returns the principal of the request, or nil when anonymous.
func IdentityFromContext(ctx context.Context) *domainauth.Identity {
	s, ok := GetUserSessionFromContext(ctx)
	if !ok {
		return nil
	}
	id := s.Identity()
	return &id
}
