package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/domain/rbac"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/http/ui/viewmodel"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/service"
)

// Query codes the UI understands in ?error= and ?notice=. Free text is never reflected.
const (
	ErrorMissingSessionToken   = "missing_session_token"
	ErrorSessionExchangeFailed = "session_exchange_failed"
	ErrorSessionExpired        = "session_expired"
	ErrorActionFailed          = "action_failed"
	ErrorExportFailed          = "export_failed"
)

//nolint:gochecknoglobals // static read-only lookup
var queryMessages = map[string]string{
	ErrorMissingSessionToken:   "Sign-in did not complete: the login link had no session. Please try again.",
	ErrorSessionExchangeFailed: "Sign-in failed. Please try again.",
	ErrorSessionExpired:        "Your session has ended. Please sign in again.",
	ErrorActionFailed:          "That action could not be completed.",
	ErrorExportFailed:          "The export could not be generated.",
	rbac.NoticeForbidden:       "You don't have access to that page.",
}

// queryMessage maps a known query code to display text.
func queryMessage(code string) string {
	return queryMessages[code]
}

// UIHandlers serves browser-facing pages.
type UIHandlers struct {
	T       *TemplateRenderer
	API     *apiclient.Client
	Auth    AuthService
	Scanner *service.BatchScanner
	Metrics *metrics.Metrics
	Cookies CookieConfig
	IsDev   bool
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
// Navigation is recomputed from the session's role on every render.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Notice:      queryMessage(r.URL.Query().Get("notice")),
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		return layout
	}
	layout.IsAuthenticated = true
	layout.User = &viewmodel.User{
		Name:    session.Name,
		Email:   session.Email,
		Role:    string(session.Role),
		Picture: session.Picture,
	}
	for _, e := range rbac.VisibleEntries(session.Role) {
		layout.Nav = append(layout.Nav, viewmodel.NavItem{
			ID:     e.ID,
			Label:  e.Label,
			Path:   e.Path,
			Active: e.ID == meta.CurrentPage,
		})
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"Notice":          layout.Notice,
		"ErrorMessage":    queryMessage(r.URL.Query().Get("error")),
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, fetches content data with the request context, and renders.
// Nothing is written when the browser has already gone away.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	var err error
	if spec.Fetch != nil {
		err = spec.Fetch(r.Context(), data)
	}
	if r.Context().Err() != nil {
		h.logger().DebugContext(r.Context(), "request gone before render", "path", r.URL.Path)
		return
	}
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			h.forceLogout(w, r)
			return
		}
		h.logger().WarnContext(r.Context(), "page fetch failed",
			"page", spec.Meta.CurrentPage,
			"error", err,
		)
		markPageError(data, err)
	}
	h.renderDashboardPage(w, r, data)
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	data["ErrorMessage"] = apperrors.UserMessage(err)
}

// renderDashboardPage renders a page with htmx partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	currentPage, _ := data["CurrentPage"].(string)

	var body bytes.Buffer
	if err := h.T.executeTo(&body, ContentTemplateFor(currentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	// <title> lets htmx update document.title on partial swaps; the header is swapped out of band.
	head := `<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(pageTitle) + `</h1>`
	if _, err := w.Write([]byte(head)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}
	if _, err := body.WriteTo(w); err != nil {
		h.logger().Error("failed to write partial content", "error", err)
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	var body bytes.Buffer
	data := map[string]any{"Title": "Error - AquaFlow", "PageTitle": "Something went wrong"}
	if err := h.T.executeTo(&body, "error-layout", data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := body.WriteTo(w); err != nil {
		h.logger().Error("failed to write error page", "error", err)
	}
}

// forceLogout ends a session the backend no longer accepts and sends the browser to /login.
func (h *UIHandlers) forceLogout(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil && h.Auth != nil {
		if err := h.Auth.Logout(context.WithoutCancel(r.Context()), session.ID, service.LogoutUnauthorized); err != nil {
			h.logger().WarnContext(r.Context(), "forced logout failed", "error", err)
		}
	}
	h.Cookies.clearCookie(w, r, SessionCookieName)
	redirectTo(w, r, loginWithError(ErrorSessionExpired))
}

func loginWithError(code string) string {
	q := url.Values{}
	q.Set("error", code)
	return rbac.LoginPath + "?" + q.Encode()
}

// withQuery appends key=value to a local path.
func withQuery(path, key, value string) string {
	q := url.Values{}
	q.Set(key, value)
	return path + "?" + q.Encode()
}

// mutation describes one form submission against the backend.
type mutation struct {
	// Redirect is the page reloaded on success, and the page failures return to.
	Redirect string
	// Next, when set, replaces Redirect on success with a location known only after Run.
	Next func() string
	// Success is the toast shown after the reload.
	Success func() string
	Run     func(ctx context.Context) error
}

// mutate runs m and always writes a response. Success reloads the page with a toast.
// Failure leaves the page as it was and shows an error toast; an unauthorized answer
// ends the session instead.
func (h *UIHandlers) mutate(w http.ResponseWriter, r *http.Request, m mutation) {
	err := m.Run(r.Context())
	if err == nil {
		location := m.Redirect
		if m.Next != nil {
			location = m.Next()
		}
		if IsHTMX(r) {
			HTMX(w).Trigger("showToast", map[string]any{
				"message": m.Success(),
				"type":    ToastSuccess,
				"persist": true,
			}).Redirect(location)
			return
		}
		http.Redirect(w, r, location, http.StatusSeeOther)
		return
	}
	h.mutationFailed(w, r, mutationFailure{Err: err, Page: m.Redirect})
}

// mutationFailure groups what mutationFailed needs.
type mutationFailure struct {
	Err  error
	Page string
}

func (h *UIHandlers) mutationFailed(w http.ResponseWriter, r *http.Request, f mutationFailure) {
	if apperrors.IsUnauthorized(f.Err) {
		h.forceLogout(w, r)
		return
	}
	if apperrors.IsValidation(f.Err) {
		h.logger().DebugContext(r.Context(), "mutation rejected",
			"path", r.URL.Path,
			"field", apperrors.GetField(f.Err),
		)
	} else {
		h.logger().WarnContext(r.Context(), "mutation failed",
			"path", r.URL.Path,
			"code", string(apperrors.GetCode(f.Err)),
			"error", f.Err,
		)
	}
	if IsHTMX(r) {
		HTMX(w).Toast(apperrors.UserMessage(f.Err), ToastError).NoSwap()
		return
	}
	http.Redirect(w, r, withQuery(f.Page, "error", ErrorActionFailed), http.StatusSeeOther)
}

// toast returns a fixed success message.
func toast(msg string) func() string {
	return func() string { return msg }
}

// sessionRole returns the role of the request's session, or "" when anonymous.
func sessionRole(r *http.Request) domainauth.Role {
	if s := GetSessionFromContext(r.Context()); s != nil {
		return s.Role
	}
	return ""
}
