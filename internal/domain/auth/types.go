package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
	"time"
)

// ErrSessionNotFound is returned by session stores for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// AllRoles lists every role the application recognizes.
func AllRoles() []Role {
	return []Role{RoleFarmer, RoleStaff, RoleAdmin, RoleOwner}
}

// Valid reports whether the role belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleStaff, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is recognized.
// Unknown values never map to a role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Identity represents the authenticated principal returned by the session exchange.
type Identity struct {
	UserID  string
	Name    string
	Email   string
	Role    Role
	Picture string
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque local identifier carried in the browser cookie; BackendToken is the
// credential the plant backend issued during the exchange and is never sent to the browser.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Picture      string    `json:"picture,omitempty"`
	BackendToken string    `json:"backend_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Identity returns the principal the session was created for.
func (s Session) Identity() Identity {
	return Identity{
		UserID:  s.UserID,
		Name:    s.Name,
		Email:   s.Email,
		Role:    s.Role,
		Picture: s.Picture,
	}
}

// Expired reports whether the session has passed its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// LandingPath returns the page a freshly authenticated role lands on.
// Farmers and admins have dedicated dashboards; every other role starts at intake.
func LandingPath(role Role) string {
	switch role {
	case RoleFarmer:
		return "/farmer"
	case RoleAdmin:
		return "/admin"
	default:
		return "/staff"
	}
}
