package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/domain/rbac"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/service"
)

// AuthService defines the auth operations the HTTP layer drives.
type AuthService interface {
	BeginLogin(ctx context.Context, origin string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string, reason service.LogoutReason) error
}

var _ AuthService = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc AuthService
	// BaseURL is the public origin used for the callback; empty means the request's own.
	BaseURL string
	Cookies CookieConfig
	UI      *UIHandlers
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// origin returns the configured public base URL, or the request's scheme and host.
func (h *AuthHandlers) origin(r *http.Request) string {
	if base := strings.TrimRight(strings.TrimSpace(h.BaseURL), "/"); base != "" {
		return base
	}
	scheme := "http"
	if requestIsSecure(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Login sends the browser to the identity provider.
// GET /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context(), h.origin(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		http.Redirect(w, r, loginWithError(ErrorSessionExchangeFailed), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// CallbackPage renders the bridge page that lifts session_id out of the URL fragment.
// GET /auth/callback.
func (h *AuthHandlers) CallbackPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	h.UI.Page(w, r, PageSpec{Meta: PageMeta{
		Title:       "Authenticating - AquaFlow",
		PageTitle:   "Authenticating...",
		CurrentPage: PageCallback,
	}})
}

// Callback completes the login with the posted session_id, persists the session, and
// answers with the role's landing page. Scripts asking for JSON get {"redirect": ...}.
// POST /auth/callback.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Token:      r.PostFormValue("session_id"),
		BrowserKey: GetCSRFToken(r),
	})
	if err != nil {
		code := ErrorSessionExchangeFailed
		status := http.StatusUnauthorized
		if apperrors.IsMissingSessionToken(err) {
			code = ErrorMissingSessionToken
			status = http.StatusBadRequest
		}
		h.logger().WarnContext(r.Context(), "login callback failed",
			"code", string(apperrors.GetCode(err)),
			"error", err,
		)
		h.respondCallback(w, r, status, loginWithError(code))
		return
	}

	h.Cookies.setSessionCookie(w, r, result.Session)
	h.respondCallback(w, r, http.StatusOK, result.Landing)
}

func (h *AuthHandlers) respondCallback(w http.ResponseWriter, r *http.Request, status int, location string) {
	if wantsJSON(r) {
		WriteJSON(w, status, map[string]string{"redirect": location})
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Logout deletes the local session (revoking the backend credential best effort),
// clears the cookie, and only then redirects to /login.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil {
		if err := h.Svc.Logout(context.WithoutCancel(r.Context()), session.ID, service.LogoutUser); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Cookies.clearCookie(w, r, SessionCookieName)
	w.Header().Set("Cache-Control", "no-store")
	redirectTo(w, r, rbac.LoginPath)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":      session.UserID,
			"name":    session.Name,
			"email":   session.Email,
			"role":    session.Role,
			"picture": session.Picture,
		},
		"expires_at": session.ExpiresAt,
	})
}

// LoginPage shows the sign-in page, or sends an authenticated visitor to its landing page.
// GET /login.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil && session.Role.Valid() {
		redirectTo(w, r, domainauth.LandingPath(session.Role))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	h.UI.Page(w, r, PageSpec{Meta: PageMeta{
		Title:       "Sign in - AquaFlow",
		PageTitle:   "Sign in",
		CurrentPage: PageLogin,
	}})
}

// Root sends / to the login page, which forwards authenticated visitors onwards.
func (h *AuthHandlers) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rbac.LoginPath, http.StatusSeeOther)
}
