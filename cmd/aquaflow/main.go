package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquaflow/aquaflow-ui/config"
	"github.com/aquaflow/aquaflow-ui/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	logger := bootstrap.InitLogger(slog.LevelInfo)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Observability.SlogLevel() != slog.LevelInfo {
		logger = bootstrap.InitLogger(cfg.Observability.SlogLevel())
	}

	logStartupInfo(ctx, logger, &cfg)
	return bootstrap.Run(ctx, &cfg, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting aquaflow ui",
		"addr", cfg.HTTP.Addr,
		"backend_url", cfg.Backend.URL,
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Sessions.Store,
		"dev", cfg.IsDev,
	)
}
