package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aquaflow/aquaflow-ui/config"
	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	httpx "github.com/aquaflow/aquaflow-ui/internal/http"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/service"
)

// App holds the long-lived dependencies of one UI process.
type App struct {
	Config  *config.AppConfig
	Redis   redis.UniversalClient
	API     *apiclient.Client
	Auth    *service.AuthService
	Scanner *service.BatchScanner
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewApp connects infrastructure and builds every service the router needs.
// Close releases what NewApp opened.
func NewApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Metrics: metrics.New(nil)}

	if cfg.Sessions.Store == config.SessionStoreRedis {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.Redis = client
	}

	var err error
	app.API, err = apiclient.New(apiclient.Options{
		BaseURL:          cfg.Backend.URL,
		Timeout:          cfg.Backend.Timeout,
		Observer:         app.Metrics,
		MaxDownloadBytes: cfg.Backend.MaxDownloadBytes,
		Logger:           logger,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("build backend client: %w", err)
	}

	app.Scanner, err = service.NewBatchScanner(cfg.Scanner.BatchIDExpr)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Auth, err = BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		Sessions:    cfg.Sessions,
		RedisClient: app.Redis,
		API:         app.API,
		Metrics:     app.Metrics,
		Logger:      logger,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	return app, nil
}

// RouterServices maps the app onto the HTTP layer's dependencies.
func (a *App) RouterServices() httpx.RouterServices {
	return httpx.RouterServices{
		Auth:           a.Auth,
		API:            a.API,
		Scanner:        a.Scanner,
		Metrics:        a.Metrics,
		MetricsEnabled: a.Config.Observability.Metrics.Enabled,
		BaseURL:        a.Config.HTTP.BaseURL,
		CookieDomain:   a.Config.HTTP.CookieDomain,
		IsDev:          a.Config.IsDev,
		Logger:         a.Logger,
	}
}

// Close releases connections opened by NewApp.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("close redis failed", "error", err)
		}
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(HTTPServerConfig{
		HTTP:     cfg.HTTP,
		Services: app.RouterServices(),
		Logger:   logger,
	}, errCh)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return ShutdownHTTPServer(ctx, server, logger)
	case err := <-errCh:
		logger.Error("HTTP server failed", "error", err)
		if stopErr := ShutdownHTTPServer(ctx, server, logger); stopErr != nil {
			logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
