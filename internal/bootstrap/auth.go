package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aquaflow/aquaflow-ui/config"
	"github.com/aquaflow/aquaflow-ui/internal/adapters/backendauth"
	"github.com/aquaflow/aquaflow-ui/internal/adapters/devauth"
	"github.com/aquaflow/aquaflow-ui/internal/adapters/idp"
	"github.com/aquaflow/aquaflow-ui/internal/adapters/memstore"
	redisadapter "github.com/aquaflow/aquaflow-ui/internal/adapters/redis"
	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
	"github.com/aquaflow/aquaflow-ui/internal/service"
)

// AuthConfig contains what the auth service is assembled from.
type AuthConfig struct {
	Auth        config.AuthConfig
	Sessions    config.SessionConfig
	RedisClient redis.UniversalClient
	API         *apiclient.Client
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// BuildAuthService wires the sign-in provider, session exchanger and session store
// selected by configuration.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	sessions, err := buildSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	var authPorts service.AuthPorts
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		authPorts, err = devAuthPorts(cfg.Auth.DevAuth)
	case config.AuthModeRedirect:
		authPorts, err = redirectAuthPorts(cfg)
	default:
		err = fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}
	authPorts.Sessions = sessions

	if cfg.Logger != nil {
		cfg.Logger.Info("auth configured",
			"mode", cfg.Auth.Mode,
			"session_store", cfg.Sessions.Store,
			"session_ttl", cfg.Sessions.TTL,
		)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Ports: authPorts,
		Guard: service.NewCallbackGuard(cfg.Auth.CallbackGuardSize, cfg.Auth.CallbackGuardTTL),
		Settings: service.AuthSettings{
			SessionTTL:      cfg.Sessions.TTL,
			ExchangeTimeout: cfg.Auth.ExchangeTimeout,
			Metrics:         cfg.Metrics,
			Logger:          cfg.Logger,
		},
	}), nil
}

//nolint:ireturn // the store kind is chosen at runtime.
func buildSessionStore(cfg AuthConfig) (ports.SessionStore, error) {
	switch cfg.Sessions.Store {
	case config.SessionStoreRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("SESSION_STORE=redis requires a redis client")
		}
		return redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Sessions.KeyPrefix), nil
	case config.SessionStoreMemory:
		if cfg.Logger != nil {
			cfg.Logger.Warn("sessions are kept in process memory and are lost on restart")
		}
		return memstore.NewSessionStore(memstore.Options{
			Capacity: cfg.Sessions.MemoryCapacity,
			TTL:      cfg.Sessions.TTL,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Sessions.Store)
	}
}

func devAuthPorts(dev config.DevAuthConfig) (service.AuthPorts, error) {
	role, ok := domainauth.ParseRole(dev.Role)
	if !ok {
		return service.AuthPorts{}, fmt.Errorf("DEV_AUTH_ROLE %q is not a role", dev.Role)
	}
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:     dev.UserID,
		Name:       dev.Name,
		Email:      dev.Email,
		Role:       role,
		Credential: dev.Credential,
	})
	if err != nil {
		return service.AuthPorts{}, fmt.Errorf("build dev auth provider: %w", err)
	}
	return service.AuthPorts{Provider: prov, Exchanger: prov}, nil
}

func redirectAuthPorts(cfg AuthConfig) (service.AuthPorts, error) {
	if cfg.API == nil {
		return service.AuthPorts{}, errors.New("redirect auth requires the backend client")
	}
	prov, err := idp.NewProvider(cfg.Auth.ProviderURL)
	if err != nil {
		return service.AuthPorts{}, fmt.Errorf("build identity provider: %w", err)
	}
	return service.AuthPorts{Provider: prov, Exchanger: backendauth.NewExchanger(cfg.API)}, nil
}
