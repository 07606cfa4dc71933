package testutil

import (
	"time"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building sessions in tests.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession creates a SessionBuilder for a staff member with an hour of validity.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:           "sess-test",
			UserID:       "user-test",
			Name:         "Test User",
			Email:        "test.user@plant.example",
			Role:         domainauth.RoleStaff,
			BackendToken: "backend-token-test",
			ExpiresAt:    time.Now().Add(time.Hour),
		},
	}
}

// WithID sets the local session ID.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithRole sets the role.
func (b *SessionBuilder) WithRole(role domainauth.Role) *SessionBuilder {
	b.sess.Role = role
	return b
}

// WithName sets the display name.
func (b *SessionBuilder) WithName(name string) *SessionBuilder {
	b.sess.Name = name
	return b
}

// WithBackendToken sets the backend credential.
func (b *SessionBuilder) WithBackendToken(token string) *SessionBuilder {
	b.sess.BackendToken = token
	return b
}

// WithExpiresAt sets the expiry.
func (b *SessionBuilder) WithExpiresAt(at time.Time) *SessionBuilder {
	b.sess.ExpiresAt = at
	return b
}

// Build returns the session.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}
