package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// SessionLoader resolves a session id to its record.
type SessionLoader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// LoadSessionOptions configures LoadSession.
type LoadSessionOptions struct {
	Sessions SessionLoader
	Cookies  CookieConfig
	Logger   *slog.Logger
}

// LoadSession resolves the session cookie once per request and stores the session in the
// request context. Unknown or expired sessions clear the cookie and continue anonymously;
// store failures are logged and also treated as anonymous.
func LoadSession(opts LoadSessionOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" || opts.Sessions == nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := opts.Sessions.GetSession(r.Context(), c.Value)
			switch {
			case err == nil:
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			case errors.Is(err, domainauth.ErrSessionNotFound):
				opts.Cookies.clearCookie(w, r, SessionCookieName)
			default:
				logger.WarnContext(r.Context(), "session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}
