package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aquaflow/aquaflow-ui/config"
	httpx "github.com/aquaflow/aquaflow-ui/internal/http"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	HTTP     config.HTTPConfig
	Services httpx.RouterServices
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router and the outer middleware chain:
// Recover -> Logging -> Compression -> tracing -> Router.
func BuildHTTPHandler(cfg HTTPServerConfig) (http.Handler, error) {
	router, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, err
	}

	h := otelhttp.NewHandler(router, "aquaflow-ui",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{
			Level:   cfg.HTTP.CompressionLevel,
			MinSize: 1024,
			Logger:  cfg.Logger,
		})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)
	return h, nil
}

// StartHTTPServer builds the handler and starts serving in the background. Listen
// failures are delivered on errCh.
func StartHTTPServer(cfg HTTPServerConfig, errCh chan<- error) (*http.Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return nil, err
	}

	addr := cfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		cfg.Logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return server, nil
}

// ShutdownHTTPServer drains in-flight requests for up to shutdownTimeout.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
