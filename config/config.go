package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Sign-in flow and callback guard configuration
//   - backend.go: Plant backend API configuration
//   - database.go: Session store and Redis configuration
//   - http.go: HTTP server configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, dev auth, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Plant backend configuration
	Backend BackendConfig

	// Session persistence configuration
	Sessions SessionConfig
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Scanner configuration
	Scanner ScannerConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Backend.Sanitize()
	c.Sessions.Sanitize()
	c.Scanner.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// ScannerConfig controls how decoded QR payloads are read.
type ScannerConfig struct {
	// BatchIDExpr is a JMESPath expression evaluated against a JSON QR payload to find
	// the batch id. Plain-text payloads are used as the id directly.
	BatchIDExpr string `env:"SCANNER_BATCH_ID_EXPR" envDefault:"batch_id"`
}

// Sanitize applies guardrails to scanner configuration values.
func (s *ScannerConfig) Sanitize() {
	s.BatchIDExpr = strings.TrimSpace(s.BatchIDExpr)
	if s.BatchIDExpr == "" {
		s.BatchIDExpr = "batch_id"
	}
}
