package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

type recordedObservation struct {
	op     string
	status int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []recordedObservation
}

func (o *fakeObserver) ObserveBackendRequest(op string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, recordedObservation{op: op, status: status})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *fakeObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	obs := &fakeObserver{}
	c, err := New(Options{BaseURL: srv.URL, Observer: obs, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, obs
}

func TestNew_RequiresAbsoluteBaseURL(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{BaseURL: "/relative"})
	require.Error(t, err)

	c, err := New(Options{BaseURL: "https://plant.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://plant.example.com/api", c.base.String())
}

func TestClient_AttachesCredentialCookie(t *testing.T) {
	var gotCookie string
	c, obs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/batches", r.URL.Path)
		if ck, err := r.Cookie(CredentialCookie); err == nil {
			gotCookie = ck.Value
		}
		_, _ = w.Write([]byte(`[{"batch_id":"B-1","farmer_id":"F-1","weight_kg":12.5,"status":"RECEIVED"}]`))
	}))

	ctx := WithCredential(context.Background(), "tok-123")
	batches, err := c.Batches.List(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "B-1", batches[0].BatchID)
	assert.Equal(t, "tok-123", gotCookie)
	assert.Equal(t, []recordedObservation{{op: "batches.list", status: http.StatusOK}}, obs.seen)
}

func TestClient_NoCredentialNoCookie(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie(CredentialCookie)
		assert.ErrorIs(t, err, http.ErrNoCookie)
		_, _ = w.Write([]byte(`[]`))
	}))
	_, err := c.Farmers.List(context.Background())
	require.NoError(t, err)
}

func TestClient_ClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Not authenticated"}`, apperrors.IsUnauthorized, "Not authenticated"},
		{"forbidden", http.StatusForbidden, `{"detail":"Admin access required"}`, apperrors.IsForbidden, "Admin access required"},
		{"not found", http.StatusNotFound, `{"detail":"Batch not found"}`, apperrors.IsNotFound, "Batch not found"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`,
			func(err error) bool { return apperrors.GetCode(err) == apperrors.ErrCodeRequestFailed }, "field required"},
		{"server error without detail", http.StatusInternalServerError, `oops`,
			func(err error) bool { return apperrors.GetCode(err) == apperrors.ErrCodeRequestFailed }, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := c.Batches.Get(context.Background(), "B-1")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected code %q", apperrors.GetCode(err))
			assert.Equal(t, tt.msg, apperrors.UserMessage(err))
		})
	}
}

func TestClient_TransportFailureIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	obs := &fakeObserver{}
	c, err := New(Options{BaseURL: base, Observer: obs})
	require.NoError(t, err)

	_, err = c.Dashboard.Admin(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRequestFailed, apperrors.GetCode(err))
	require.Len(t, obs.seen, 1)
	assert.Equal(t, 0, obs.seen[0].status)
}

func TestClient_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Users.List(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestAuth_CreateSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/session", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sid-1", body["session_id"])
		_, _ = w.Write([]byte(`{"user_id":"u1","email":"a@plant.example","name":"Ann","role":"staff","session_token":"tok"}`))
	}))

	su, err := c.Auth.CreateSession(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", su.UserID)
	assert.Equal(t, "staff", su.Role)
	assert.Equal(t, "tok", su.SessionToken)
}

func TestAuth_CreateSessionFallsBackToCookie(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: CredentialCookie, Value: "from-cookie", Path: "/"})
		_, _ = w.Write([]byte(`{"user_id":"u1","email":"a@plant.example","name":"Ann","role":"farmer"}`))
	}))

	su, err := c.Auth.CreateSession(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", su.SessionToken)
}

func TestPayments_UpdateStatusUsesQuery(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/payments/P-9/status", r.URL.Path)
		assert.Equal(t, "paid", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	require.NoError(t, c.Payments.UpdateStatus(context.Background(), "P-9", model.PaymentStatusPaid))
}

func TestUsers_UpdateRoleSendsQueryAndBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u-2/role", r.URL.Path)
		assert.Equal(t, "admin", r.URL.Query().Get("role"))
		var body model.UpdateRoleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domainauth.RoleAdmin, body.Role)
		_, _ = w.Write([]byte(`{"message":"Role updated"}`))
	}))
	require.NoError(t, c.Users.UpdateRole(context.Background(), "u-2", domainauth.RoleAdmin))
}

func TestUsers_Invite(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/invite", r.URL.Path)
		var body model.InviteUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@plant.example", body.Email)
		_, _ = w.Write([]byte(`{"message":"Invitation sent","user_id":"u-7"}`))
	}))
	msg, err := c.Users.Invite(context.Background(), model.InviteUserRequest{Email: "new@plant.example", Role: domainauth.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, "u-7", msg.UserID)
}

func TestProcessing_ListByBatchEscapesID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/processing/batch/B 1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"stage_id":"s1","batch_id":"B 1","stage_name":"peeling","completed_at":null}]`))
	}))
	stages, err := c.Processing.ListByBatch(context.Background(), "B 1")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Nil(t, stages[0].CompletedAt)
}

func TestReadDetail(t *testing.T) {
	assert.Equal(t, "plain", readDetail(stringsReader(`{"detail":"plain"}`)))
	assert.Equal(t, "first", readDetail(stringsReader(`{"detail":[{"msg":"first"},{"msg":"second"}]}`)))
	assert.Empty(t, readDetail(stringsReader(`{"detail":[]}`)))
	assert.Empty(t, readDetail(stringsReader(`not json`)))
}

func TestAuthAPI_Me(t *testing.T) {
	c, obs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		cookie, err := r.Cookie("session_token")
		require.NoError(t, err)
		assert.Equal(t, "cred-1", cookie.Value)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"U-1","email":"owner@plant.example","name":"Olivia","role":"owner"}`))
	}))

	user, err := c.Auth.Me(WithCredential(context.Background(), "cred-1"))
	require.NoError(t, err)
	assert.Equal(t, "U-1", user.UserID)
	assert.Equal(t, domainauth.RoleOwner, user.Role)
	assert.Equal(t, []recordedObservation{{op: "auth.me", status: http.StatusOK}}, obs.seen)
}
