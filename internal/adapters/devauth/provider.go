package devauth

// Package devauth provides a config-driven AuthProvider and SessionExchanger for local
// development without the hosted identity provider or a backend session.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

// TokenPrefix marks session tokens minted by the dev provider.
const TokenPrefix = "dev-"

// Config controls the dev auth behavior.
type Config struct {
	UserID string
	Name   string
	Email  string
	Role   domainauth.Role
	// Credential is forwarded to the backend as session_token; leave empty when the
	// backend is not running.
	Credential string
}

// Provider implements ports.AuthProvider and ports.SessionExchanger for development.
// LoginURL short-circuits the identity provider by sending the browser straight to the
// callback with a locally minted fragment token; Exchange returns the configured identity.
type Provider struct {
	identity   domainauth.Identity
	credential string
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if !cfg.Role.Valid() {
		return nil, fmt.Errorf("dev auth: role %q is not recognized", cfg.Role)
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Email
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID: cfg.UserID,
			Name:   name,
			Email:  cfg.Email,
			Role:   cfg.Role,
		},
		credential: cfg.Credential,
	}, nil
}

// LoginURL returns the local callback carrying a fresh dev token in the fragment.
func (p *Provider) LoginURL(_ context.Context, _ ports.BeginInput) (string, error) {
	token, err := randomString(24)
	if err != nil {
		return "", fmt.Errorf("generate dev token: %w", err)
	}
	return "/auth/callback#session_id=" + TokenPrefix + token, nil
}

// Exchange accepts only dev-minted tokens and returns the configured identity.
func (p *Provider) Exchange(_ context.Context, sessionToken string) (ports.ExchangeResult, error) {
	if !strings.HasPrefix(sessionToken, TokenPrefix) {
		return ports.ExchangeResult{}, errors.New("dev auth: token was not issued by the dev provider")
	}
	return ports.ExchangeResult{Identity: p.identity, Credential: p.credential}, nil
}

// Revoke is a no-op; dev sessions live only in the local store.
func (p *Provider) Revoke(context.Context, string) error { return nil }

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n], nil
}
