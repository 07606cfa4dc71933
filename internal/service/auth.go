package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

const (
	// CallbackPath is where the identity provider returns the browser.
	CallbackPath = "/auth/callback"
	// DefaultSessionTTL is the local session lifetime.
	DefaultSessionTTL = 12 * time.Hour
	// DefaultExchangeTimeout bounds one backend session exchange.
	DefaultExchangeTimeout = 20 * time.Second
)

// LogoutReason labels why a session ended.
type LogoutReason string

const (
	LogoutUser         LogoutReason = "user"
	LogoutUnauthorized LogoutReason = "unauthorized"
)

// AuthPorts groups the adapters AuthService drives.
type AuthPorts struct {
	Provider  ports.AuthProvider
	Exchanger ports.SessionExchanger
	Sessions  ports.SessionStore
}

// AuthSettings tunes AuthService. Zero values select defaults.
type AuthSettings struct {
	SessionTTL      time.Duration
	ExchangeTimeout time.Duration
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	Now             func() time.Time
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Ports    AuthPorts
	Guard    *CallbackGuard
	Settings AuthSettings
}

// AuthService orchestrates login, session lookup and logout.
type AuthService struct {
	provider        ports.AuthProvider
	exchanger       ports.SessionExchanger
	sessions        ports.SessionStore
	guard           *CallbackGuard
	sessionTTL      time.Duration
	exchangeTimeout time.Duration
	metrics         *metrics.Metrics
	logger          *slog.Logger
	now             func() time.Time
}

// NewAuthService constructs a new AuthService. All ports are required.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Ports.Provider == nil || opts.Ports.Exchanger == nil || opts.Ports.Sessions == nil {
		panic("service: AuthService requires Provider, Exchanger and Sessions")
	}
	s := &AuthService{
		provider:        opts.Ports.Provider,
		exchanger:       opts.Ports.Exchanger,
		sessions:        opts.Ports.Sessions,
		guard:           opts.Guard,
		sessionTTL:      opts.Settings.SessionTTL,
		exchangeTimeout: opts.Settings.ExchangeTimeout,
		metrics:         opts.Settings.Metrics,
		logger:          opts.Settings.Logger,
		now:             opts.Settings.Now,
	}
	if s.guard == nil {
		s.guard = NewCallbackGuard(0, 0)
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	if s.exchangeTimeout <= 0 {
		s.exchangeTimeout = DefaultExchangeTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
}

// BeginLogin returns the provider URL that sends the browser back to origin's callback.
func (s *AuthService) BeginLogin(ctx context.Context, origin string) (*BeginLoginResult, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return nil, errors.New("origin is required")
	}

	authURL, err := s.provider.LoginURL(ctx, ports.BeginInput{CallbackURL: origin + CallbackPath})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL}, nil
}

// CompleteLoginInput groups parameters for completing a login.
type CompleteLoginInput struct {
	// Token is the session_id the identity provider placed in the URL fragment.
	Token string
	// BrowserKey binds the arrival to one browser (its CSRF cookie value).
	BrowserKey string
}

// CompleteLoginResult contains the persisted session and where to send the browser.
type CompleteLoginResult struct {
	Session domainauth.Session
	Landing string
}

// CompleteLogin exchanges the token exactly once per arrival and persists the session
// before returning. Repeat invocations for the same arrival, concurrent or not, wait for
// and share the first invocation's outcome.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return nil, apperrors.MissingSessionToken()
	}

	arrival := s.guard.Arrival(token, in.BrowserKey)
	if !arrival.Begin() {
		s.metrics.ObserveSessionExchangeDuplicate()
		sess, err := arrival.Wait(ctx)
		if err != nil {
			return nil, apperrors.MapContextError(err)
		}
		return completed(sess), nil
	}

	// The exchange outlives a disconnecting first tab so waiters still get an outcome.
	exCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.exchangeTimeout)
	defer cancel()

	sess, err := s.exchange(exCtx, token)
	s.metrics.ObserveSessionExchange(err)
	if err != nil {
		arrival.Fail(err)
		s.logger.WarnContext(ctx, "session exchange failed", "error", err)
		return nil, err
	}
	arrival.Succeed(sess)
	s.logger.InfoContext(ctx, "session established",
		"user_id", sess.UserID,
		"role", string(sess.Role),
	)
	return completed(sess), nil
}

func completed(sess domainauth.Session) *CompleteLoginResult {
	return &CompleteLoginResult{Session: sess, Landing: domainauth.LandingPath(sess.Role)}
}

func (s *AuthService) exchange(ctx context.Context, token string) (domainauth.Session, error) {
	res, err := s.exchanger.Exchange(ctx, token)
	if err != nil {
		return domainauth.Session{}, apperrors.SessionExchangeFailed(err)
	}
	if !res.Identity.Role.Valid() {
		return domainauth.Session{}, apperrors.SessionExchangeFailed(
			fmt.Errorf("unrecognized role %q", res.Identity.Role))
	}

	id := res.Identity
	sess := domainauth.Session{
		ID:           uuid.NewString(),
		UserID:       id.UserID,
		Name:         id.Name,
		Email:        id.Email,
		Role:         id.Role,
		Picture:      id.Picture,
		BackendToken: res.Credential,
		ExpiresAt:    s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, apperrors.SessionExchangeFailed(fmt.Errorf("save session: %w", err))
	}
	return sess, nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted and reported
// as domainauth.ErrSessionNotFound.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, domainauth.ErrSessionNotFound
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(domainauth.ErrSessionNotFound, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, domainauth.ErrSessionNotFound
	}
	return &sess, nil
}

// Logout ends a session. A user logout also ends the backend session on a best-effort
// basis; an unauthorized logout skips that because the backend already rejected it.
// The local session is always deleted.
func (s *AuthService) Logout(ctx context.Context, sessionID string, reason LogoutReason) error {
	if sessionID == "" {
		return nil
	}

	if reason == LogoutUser {
		if sess, err := s.sessions.Get(ctx, sessionID); err == nil && sess.BackendToken != "" {
			if revokeErr := s.exchanger.Revoke(ctx, sess.BackendToken); revokeErr != nil {
				s.logger.WarnContext(ctx, "backend logout failed", "error", revokeErr)
			}
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.metrics.ObserveLogout(string(reason))
	return nil
}
