package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	aquaflow "github.com/aquaflow/aquaflow-ui"
	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	"github.com/aquaflow/aquaflow-ui/internal/domain/rbac"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthService
	API     *apiclient.Client
	Scanner *service.BatchScanner
	Metrics *metrics.Metrics
	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool
	// BaseURL is the public origin handed to the identity provider (optional).
	BaseURL      string
	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
	// TemplateFS overrides where templates are parsed from (tests).
	TemplateFS fs.FS
}

// NewRouter creates and configures the HTTP router with its browser middleware:
// browser detection, CSRF, then session loading ahead of every route.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, errors.New("router: auth service is required")
	}
	if services.API == nil {
		return nil, errors.New("router: api client is required")
	}
	if services.Scanner == nil {
		return nil, errors.New("router: batch scanner is required")
	}

	ui, err := setupUIHandlers(services)
	if err != nil {
		return nil, err
	}
	auth := &AuthHandlers{
		Svc:     services.Auth,
		BaseURL: services.BaseURL,
		Cookies: ui.Cookies,
		UI:      ui,
		Logger:  services.Logger,
	}
	guard := RouteGuard{Metrics: services.Metrics, Logger: services.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	if services.MetricsEnabled && services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	registerAuthRoutes(mux, auth)
	registerPageRoutes(mux, ui, guard)
	mux.HandleFunc("/", ui.NotFound)

	var handler http.Handler = mux
	handler = LoadSession(LoadSessionOptions{
		Sessions: services.Auth,
		Cookies:  ui.Cookies,
		Logger:   services.Logger,
	})(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(handler)
	return BrowserDetection()(handler), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.CallbackPage)
	mux.HandleFunc("POST /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerPageRoutes mounts every protected page with the sub-paths it owns. Sub-paths
// are guarded by their page's route so they inherit its allowed roles.
func registerPageRoutes(mux *http.ServeMux, h *UIHandlers, guard RouteGuard) {
	page := func(pattern string, id rbac.PageID, fn http.HandlerFunc) {
		mux.Handle(pattern, guard.Protect(rbac.MustLookup(id))(fn))
	}

	page("GET /farmer", rbac.PageFarmer, h.Farmer)

	page("GET /staff", rbac.PageStaff, h.Staff)
	page("POST /staff/batches", rbac.PageStaff, h.CreateBatch)
	page("POST /staff/farmers", rbac.PageStaff, h.CreateFarmer)

	page("GET /processing", rbac.PageProcessing, h.Processing)
	page("POST /processing/stages", rbac.PageProcessing, h.CreateStage)

	page("GET /inventory", rbac.PageInventory, h.Inventory)
	page("POST /inventory/items", rbac.PageInventory, h.CreateInventory)

	page("GET /dispatch", rbac.PageDispatch, h.Dispatch)
	page("POST /dispatch/orders", rbac.PageDispatch, h.CreateDispatch)

	page("GET /scanner", rbac.PageScanner, h.ScannerPage)
	page("POST /scanner/decode", rbac.PageScanner, h.ScanDecode)

	page("GET /admin", rbac.PageAdmin, h.Admin)
	page("POST /admin/payments", rbac.PageAdmin, h.CreatePayment)
	page("POST /admin/payments/{id}/status", rbac.PageAdmin, h.UpdatePaymentStatus)
	page("POST /admin/export/{kind}", rbac.PageAdmin, h.Export)

	page("GET /users", rbac.PageUsers, h.Users)
	page("POST /users/invite", rbac.PageUsers, h.InviteUser)
	page("POST /users/link", rbac.PageUsers, h.LinkFarmer)
	page("POST /users/{id}/role", rbac.PageUsers, h.UpdateUserRole)
	page("POST /users/{id}/delete", rbac.PageUsers, h.DeleteUser)

	page("GET /batch/{id}", rbac.PageBatch, h.BatchDetail)
}

// templateFS picks the template source: an explicit override, disk in dev mode for hot
// reloading, otherwise the embedded copy.
func templateFS(services RouterServices) (fs.FS, error) {
	if services.TemplateFS != nil {
		return services.TemplateFS, nil
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(aquaflow.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	return sub, nil
}

func setupUIHandlers(services RouterServices) (*UIHandlers, error) {
	tfs, err := templateFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: tfs, Logger: services.Logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}
	return &UIHandlers{
		T:       tr,
		API:     services.API,
		Auth:    services.Auth,
		Scanner: services.Scanner,
		Metrics: services.Metrics,
		Cookies: CookieConfig{Domain: services.CookieDomain},
		IsDev:   services.IsDev,
		Logger:  services.Logger,
	}, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), "no-cache")
	}
	staticSub, err := fs.Sub(aquaflow.StaticFS, "frontend/static")
	if err != nil {
		slog.Default().Error("failed to create sub-filesystem for static assets", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), "no-cache")
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), "public, max-age=3600")
}

func staticWithCacheHeaders(handler http.Handler, cacheControl string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheControl)
		handler.ServeHTTP(w, r)
	})
}
