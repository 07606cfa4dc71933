package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	mockauth "github.com/aquaflow/aquaflow-ui/internal/mocks/auth"
	"github.com/aquaflow/aquaflow-ui/internal/observability/metrics"
	"github.com/aquaflow/aquaflow-ui/internal/service"
	"github.com/aquaflow/aquaflow-ui/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

// fakeBackend answers the plant API with canned JSON and counts hits per "METHOD path".
type fakeBackend struct {
	mu        sync.Mutex
	hits      map[string]int
	responses map[string]fakeResponse
	srv       *httptest.Server
}

type fakeResponse struct {
	status      int
	body        string
	contentType string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		hits: map[string]int{},
		responses: map[string]fakeResponse{
			"GET /api/farmers":          {body: `[{"farmer_id":"F-1","name":"Ravi","contact":"555","address":"Pond 4"}]`},
			"GET /api/batches":          {body: `[{"batch_id":"B-1","farmer_id":"F-1","weight_kg":120.5,"size_grade":"Large","status":"RECEIVED","qr_code":"data:image/png;base64,iVBORw0KGgo="}]`},
			"GET /api/processing":       {body: `[]`},
			"GET /api/inventory":        {body: `[]`},
			"GET /api/dispatch":         {body: `[]`},
			"GET /api/payments":         {body: `[]`},
			"GET /api/users":            {body: `[{"user_id":"U-1","email":"owner@plant.example","name":"Olivia","role":"owner"},{"user_id":"U-2","email":"farmer@plant.example","name":"Ravi","role":"farmer"}]`},
			"GET /api/dashboard/admin":  {body: `{"total_procurement":1200,"yield_percentage":82.5,"total_batches":10,"total_farmers":4}`},
			"GET /api/batches/B-1":        {body: `{"batch_id":"B-1","farmer_id":"F-1","weight_kg":120.5,"size_grade":"Large","status":"PROCESSED","qr_code":"data:image/png;base64,iVBORw0KGgo="}`},
			"GET /api/processing/batch/B-1": {body: `[{"stage_id":"S-1","batch_id":"B-1","stage_name":"Washing","assigned_person":"Anil","input_weight":120.5,"output_weight":118,"wastage":2.5,"status":"completed"}]`},
			"GET /api/farmers/me/stats": {body: `{"total_batches":2,"total_prawns_supplied":240,"total_payments":900,"pending_payments":100,"payments":[]}`},
		},
	}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	fb.mu.Lock()
	fb.hits[key]++
	resp, ok := fb.responses[key]
	fb.mu.Unlock()
	if !ok {
		resp = fakeResponse{status: http.StatusOK, body: `{}`}
	}
	ct := resp.contentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	if resp.status != 0 {
		w.WriteHeader(resp.status)
	}
	_, _ = w.Write([]byte(resp.body))
}

func (fb *fakeBackend) set(key string, resp fakeResponse) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.responses[key] = resp
}

func (fb *fakeBackend) count(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[key]
}

func (fb *fakeBackend) total() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, c := range fb.hits {
		n += c
	}
	return n
}

// testEnv is a fully wired router over in-memory auth adapters and a fake backend.
type testEnv struct {
	handler   http.Handler
	backend   *fakeBackend
	sessions  *mockauth.MemorySessionStore
	exchanger *mockauth.FakeExchanger
	provider  *mockauth.StaticProvider
	metrics   *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	SkipIfNoTemplates(t)

	backend := newFakeBackend(t)
	sessions := mockauth.NewMemorySessionStore()
	exchanger := mockauth.NewFakeExchanger(domainauth.RoleStaff)
	provider := &mockauth.StaticProvider{}
	m := metrics.New(prometheus.NewRegistry())

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Ports: service.AuthPorts{
			Provider:  provider,
			Exchanger: exchanger,
			Sessions:  sessions,
		},
		Settings: service.AuthSettings{Metrics: m},
	})
	api, err := apiclient.New(apiclient.Options{
		BaseURL: backend.srv.URL,
		Timeout: 5 * time.Second,
		Now:     testutil.FixedTimeFunc(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	scanner, err := service.NewBatchScanner("")
	require.NoError(t, err)

	h, err := NewRouter(RouterServices{
		Auth:           authSvc,
		API:            api,
		Scanner:        scanner,
		Metrics:        m,
		MetricsEnabled: true,
		TemplateFS:     os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)

	return &testEnv{handler: h, backend: backend, sessions: sessions, exchanger: exchanger, provider: provider, metrics: m}
}

// login stores a session for role and returns its id.
func (e *testEnv) login(t *testing.T, role domainauth.Role) string {
	t.Helper()
	sess := testutil.NewSession().WithID("sess-"+string(role)).WithRole(role).WithExpiresAt(time.Now().Add(time.Hour)).Build()
	require.NoError(t, e.sessions.Save(context.Background(), sess))
	return sess.ID
}

type reqOpts struct {
	session string
	htmx    bool
	accept  string
	form    url.Values
}

func (e *testEnv) do(t *testing.T, method, target string, o reqOpts) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if o.form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(o.form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	accept := o.accept
	if accept == "" {
		accept = "text/html"
	}
	r.Header.Set("Accept", accept)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	if method != http.MethodGet && method != http.MethodHead {
		r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	}
	if o.session != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: o.session})
	}
	if o.htmx {
		r.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// newFormRequest builds a form POST without any CSRF material.
func newFormRequest(t *testing.T, target string, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	return r
}

func serveRaw(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
