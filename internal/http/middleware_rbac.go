package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aquaflow/aquaflow-ui/internal/domain/rbac"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
)

// RouteGuard gates pages against the route table. It must run after LoadSession.
type RouteGuard struct {
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Protect returns a middleware that admits only roles the route allows. The decision is
// made before the page handler runs, so a refused visitor never triggers a backend call.
// Admitted responses are marked no-store.
func (g RouteGuard) Protect(route rbac.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		allowed := NoStore(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := rbac.Decide(IdentityFromContext(r.Context()), route)
			g.Metrics.ObserveRouteDecision(string(route.ID), decision.Outcome.String())

			switch decision.Outcome {
			case rbac.OutcomeAllow:
				allowed.ServeHTTP(w, r)
			case rbac.OutcomeLogin:
				g.refuse(w, r, decision, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			default:
				g.logger().InfoContext(r.Context(), "route refused",
					"page", string(route.ID),
					"path", r.URL.Path,
				)
				g.refuse(w, r, decision, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			}
		})
	}
}

func (g RouteGuard) refuse(w http.ResponseWriter, r *http.Request, d rbac.Decision, apiErr ErrorParams) {
	w.Header().Set("Cache-Control", "no-store")
	if !IsBrowserRequest(r) {
		WriteError(w, apiErr)
		return
	}
	redirectTo(w, r, d.Location)
}

func (g RouteGuard) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// redirectTo sends the browser to location: HX-Redirect for htmx, 303 otherwise.
func redirectTo(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(location)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
