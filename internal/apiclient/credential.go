package apiclient

import (
	"context"
	"net/http"
)

// CredentialCookie is the cookie name the plant backend reads its session from.
const CredentialCookie = "session_token"

type credentialKey struct{}

// WithCredential returns a child context whose backend calls carry token.
func WithCredential(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFrom returns the credential attached to ctx, if any.
func CredentialFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialKey{}).(string)
	return token, ok && token != ""
}

// credentialTransport attaches the context credential as the backend session cookie.
type credentialTransport struct {
	next http.RoundTripper
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := CredentialFrom(req.Context())
	if !ok {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.AddCookie(&http.Cookie{Name: CredentialCookie, Value: token})
	return t.next.RoundTrip(clone)
}
