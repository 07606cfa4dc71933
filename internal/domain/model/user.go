//revive:disable-next-line:var-naming // package name mirrors the domain records it holds
package model

import (
	"errors"
	"net/mail"
	"strings"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// User is a login account as reported by the backend.
type User struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Picture   *string         `json:"picture,omitempty"`
	Role      domainauth.Role `json:"role"`
	CreatedAt Timestamp       `json:"created_at"`
}

// SessionUser is the response to a session exchange: the user plus the credential the
// backend will accept on later calls.
type SessionUser struct {
	UserID       string  `json:"user_id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture,omitempty"`
	Role         string  `json:"role"`
	SessionToken string  `json:"session_token"`
}

// CreateUserRequest represents parameters to create a login account directly.
type CreateUserRequest struct {
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  domainauth.Role `json:"role"`
}

// InviteUserRequest invites an email address with a role.
type InviteUserRequest struct {
	Email string          `json:"email"`
	Role  domainauth.Role `json:"role"`
}

// Validate validates InviteUserRequest, normalizing the email.
func (r *InviteUserRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if !r.Role.Valid() {
		return errors.New("role is not recognized")
	}
	return nil
}

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role domainauth.Role `json:"role"`
}

// MessageResponse is the generic acknowledgement body many backend mutations return.
type MessageResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}
