package config

import (
	"strings"
	"time"
)

// BackendConfig points the UI at the plant backend API.
type BackendConfig struct {
	// URL is the backend origin; "/api" is appended for every call.
	URL string `env:"BACKEND_URL,required"`

	// Timeout bounds a single backend call.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`

	// MaxDownloadBytes caps spreadsheet exports.
	MaxDownloadBytes int64 `env:"BACKEND_MAX_DOWNLOAD_BYTES" envDefault:"67108864"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if b.MaxDownloadBytes <= 0 {
		b.MaxDownloadBytes = 64 << 20
	}
}
