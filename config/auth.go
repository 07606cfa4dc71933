package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeRedirect sends users to the hosted identity provider.
	AuthModeRedirect AuthMode = "redirect"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redirect", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: redirect, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Email  string `env:"EMAIL"   envDefault:"dev@example.com"`
	Role   string `env:"ROLE"    envDefault:"owner"`
	// Credential is forwarded to the backend as its session_token.
	Credential string `env:"CREDENTIAL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"redirect"`

	// ProviderURL is the hosted sign-in page (used when Mode=redirect).
	ProviderURL string `env:"AUTH_PROVIDER_URL" envDefault:"https://auth.emergentagent.com/"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// ExchangeTimeout bounds one backend session exchange.
	ExchangeTimeout time.Duration `env:"AUTH_EXCHANGE_TIMEOUT" envDefault:"20s"`

	// CallbackGuardTTL is how long a callback arrival is remembered for deduplication.
	CallbackGuardTTL time.Duration `env:"CALLBACK_GUARD_TTL" envDefault:"5m"`

	// CallbackGuardSize bounds the number of remembered callback arrivals.
	CallbackGuardSize int `env:"CALLBACK_GUARD_SIZE" envDefault:"10000"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.ProviderURL = strings.TrimSpace(a.ProviderURL)
	if a.ExchangeTimeout <= 0 {
		a.ExchangeTimeout = 20 * time.Second
	}
	if a.CallbackGuardTTL <= 0 {
		a.CallbackGuardTTL = 5 * time.Minute
	}
	if a.CallbackGuardSize <= 0 {
		a.CallbackGuardSize = 10_000
	}
}
