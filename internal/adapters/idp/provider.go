// Package idp builds the redirect into the hosted identity provider. The provider sends the
// browser back to the callback with #session_id=<token> in the URL fragment.
package idp

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

// DefaultProviderURL is the hosted sign-in page.
const DefaultProviderURL = "https://auth.emergentagent.com/"

// Provider implements ports.AuthProvider for the hosted identity provider.
type Provider struct {
	base *url.URL
}

// NewProvider parses the provider URL; empty selects DefaultProviderURL.
func NewProvider(providerURL string) (*Provider, error) {
	if providerURL == "" {
		providerURL = DefaultProviderURL
	}
	u, err := url.Parse(providerURL)
	if err != nil {
		return nil, fmt.Errorf("idp: parse provider URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("idp: provider URL %q must be http(s)", providerURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("idp: provider URL %q has no host", providerURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &Provider{base: u}, nil
}

// LoginURL returns <provider>?redirect=<callback>. The callback is the only redirect
// target ever embedded.
func (p *Provider) LoginURL(_ context.Context, in ports.BeginInput) (string, error) {
	if in.CallbackURL == "" {
		return "", errors.New("idp: callback URL is required")
	}
	cb, err := url.Parse(in.CallbackURL)
	if err != nil || !cb.IsAbs() {
		return "", fmt.Errorf("idp: callback URL %q must be absolute", in.CallbackURL)
	}

	u := *p.base
	u.RawQuery = url.Values{"redirect": {cb.String()}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}
