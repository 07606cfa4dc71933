// Package apiclient is the single credentialed HTTP client for the plant backend.
// Every call carries the session's backend credential as the session_token cookie
// and returns decoded domain records or a categorized *errors.AppError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

const (
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxResponseBytes caps JSON response bodies.
	DefaultMaxResponseBytes int64 = 8 << 20
	// DefaultMaxDownloadBytes caps binary export payloads.
	DefaultMaxDownloadBytes int64 = 64 << 20

	apiPrefix = "/api"
)

// RequestObserver receives one observation per backend call.
type RequestObserver interface {
	ObserveBackendRequest(operation string, status int, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend origin, e.g. https://plant.example.com. "/api" is appended.
	BaseURL          string
	Timeout          time.Duration
	Transport        http.RoundTripper
	Observer         RequestObserver
	MaxResponseBytes int64
	MaxDownloadBytes int64
	// Now stamps export filenames; defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Client exposes one operation group per backend resource.
type Client struct {
	base        *url.URL
	httpClient  *http.Client
	observer    RequestObserver
	maxBody     int64
	maxDownload int64
	now         func() time.Time
	logger      *slog.Logger

	Auth       *AuthAPI
	Farmers    *FarmersAPI
	Batches    *BatchesAPI
	Processing *ProcessingAPI
	Inventory  *InventoryAPI
	Dispatch   *DispatchAPI
	Payments   *PaymentsAPI
	Dashboard  *DashboardAPI
	Users      *UsersAPI
	Export     *ExportAPI
}

// New builds a Client. The base URL must be absolute.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	base, err := url.Parse(raw + apiPrefix)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base URL %q must be absolute", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c := &Client{
		base: base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &credentialTransport{next: otelhttp.NewTransport(transport)},
		},
		observer:    opts.Observer,
		maxBody:     valueOr(opts.MaxResponseBytes, DefaultMaxResponseBytes),
		maxDownload: valueOr(opts.MaxDownloadBytes, DefaultMaxDownloadBytes),
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.Auth = &AuthAPI{c: c}
	c.Farmers = &FarmersAPI{c: c}
	c.Batches = &BatchesAPI{c: c}
	c.Processing = &ProcessingAPI{c: c}
	c.Inventory = &InventoryAPI{c: c}
	c.Dispatch = &DispatchAPI{c: c}
	c.Payments = &PaymentsAPI{c: c}
	c.Dashboard = &DashboardAPI{c: c}
	c.Users = &UsersAPI{c: c}
	c.Export = &ExportAPI{c: c}
	return c, nil
}

func valueOr(v, fallback int64) int64 {
	if v <= 0 {
		return fallback
	}
	return v
}

// call describes one backend request. op labels metrics and logs.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

// do performs the call and decodes a JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBody)).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeRequestFailed, "unexpected response from %s", cl.op)
	}
	return nil
}

// send performs the call and returns the response only for 2xx statuses. The caller owns
// the body. Non-2xx responses are closed here and classified.
func (c *Client) send(ctx context.Context, cl call) (*http.Response, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(cl.op, 0, start)
		return nil, transportError(cl.op, err)
	}
	c.observe(cl.op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer drainAndClose(resp.Body)
		detail := readDetail(io.LimitReader(resp.Body, c.maxBody))
		c.logger.DebugContext(ctx, "backend request failed",
			"operation", cl.op,
			"status", resp.StatusCode,
			"detail", detail,
		)
		return nil, apperrors.FromStatus(resp.StatusCode, detail)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.base.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(cl.body); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s request", cl.op)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "build %s request", cl.op)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := cl.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	return req, nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendRequest(op, status, time.Since(start))
}

func transportError(op string, err error) error {
	if mapped := apperrors.MapContextError(err); apperrors.GetCode(mapped) != "" {
		return mapped
	}
	return apperrors.Wrapf(err, apperrors.ErrCodeRequestFailed, "%s: backend unavailable", op)
}

// readDetail extracts the backend's explanation: {"detail": "..."} or the first message of
// a validation error list {"detail": [{"msg": "..."}]}.
func readDetail(r io.Reader) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &list); err == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
