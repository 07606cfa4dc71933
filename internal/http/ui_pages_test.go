package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

func TestUI_Pages_RenderForAllowedRoles(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path     string
		role     domainauth.Role
		contains []string
		fetched  []string
	}{
		{"/farmer", domainauth.RoleFarmer, []string{"Payment history", "Prawns supplied"}, []string{"GET /api/farmers/me/stats"}},
		{"/staff", domainauth.RoleStaff, []string{"New batch", "Ravi", "B-1"}, []string{"GET /api/farmers", "GET /api/batches"}},
		{"/processing?batch=B-1", domainauth.RoleStaff, []string{"Stage timeline", "Anil", "Not started"}, []string{"GET /api/processing/batch/B-1"}},
		{"/inventory", domainauth.RoleAdmin, []string{"Add to storage"}, []string{"GET /api/inventory"}},
		{"/dispatch", domainauth.RoleOwner, []string{"New dispatch"}, []string{"GET /api/dispatch"}},
		{"/scanner", domainauth.RoleStaff, []string{"Scan a batch label"}, nil},
		{"/admin", domainauth.RoleAdmin, []string{"Admin Dashboard", "Download Batches", "82.5"}, []string{"GET /api/dashboard/admin", "GET /api/payments"}},
		{"/batch/B-1", domainauth.RoleFarmer, []string{"Batch B-1", "data:image/png;base64,iVBORw0KGgo=", "Washing"}, []string{"GET /api/batches/B-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id := env.login(t, tt.role)
			w := env.do(t, http.MethodGet, tt.path, reqOpts{session: id})
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, key := range tt.fetched {
				assert.Positive(t, env.backend.count(key), key)
			}
		})
	}
}

func TestUI_Page_FetchErrorShowsInlineMessage(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("GET /api/inventory", fakeResponse{status: http.StatusInternalServerError, body: `{"detail":"db down"}`})
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodGet, "/inventory", reqOpts{session: id})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="alert alert-error"`)
	assert.Equal(t, 1, env.sessions.Len())
}

func TestUI_Page_UnauthorizedForcesLogout(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("GET /api/batches", fakeResponse{status: http.StatusUnauthorized, body: `{"detail":"Session expired"}`})
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodGet, "/staff", reqOpts{session: id})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=session_expired", w.Header().Get("Location"))
	assert.Zero(t, env.sessions.Len())
	c := findCookie(w, SessionCookieName)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	assert.Empty(t, env.exchanger.Revoked())
}

func TestUI_CreateFarmer_HTMXSuccess(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/staff/farmers", reqOpts{
		session: id,
		htmx:    true,
		form:    url.Values{"name": {"Meena"}, "contact": {"555-0101"}},
	})

	assert.Equal(t, "/staff", w.Header().Get("HX-Redirect"))
	trigger := w.Header().Get("HX-Trigger")
	assert.Contains(t, trigger, "showToast")
	assert.Contains(t, trigger, "Meena")
	assert.Equal(t, 1, env.backend.count("POST /api/farmers"))
}

func TestUI_CreateFarmer_ValidationFailsWithoutBackendCall(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/staff/farmers", reqOpts{
		session: id,
		htmx:    true,
		form:    url.Values{"name": {""}, "contact": {"555"}},
	})

	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
	assert.Empty(t, w.Header().Get("HX-Redirect"))
	assert.Contains(t, w.Header().Get("HX-Trigger"), "Name is required.")
	assert.Zero(t, env.backend.count("POST /api/farmers"))
}

func TestUI_Mutation_NonHTMXFailureRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("POST /api/dispatch", fakeResponse{status: http.StatusBadRequest, body: `{"detail":"Batch not ready"}`})
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/dispatch/orders", reqOpts{
		session: id,
		form: url.Values{
			"batch_id": {"B-1"}, "customer_name": {"Oceanic"}, "country": {"JP"},
			"selling_price": {"1500"}, "dispatch_date": {"2025-03-02"},
		},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dispatch?error=action_failed", w.Header().Get("Location"))
	assert.Equal(t, 1, env.backend.count("POST /api/dispatch"))
}

func TestUI_CreateBatch_OpensQRDialog(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("POST /api/batches", fakeResponse{body: `{"batch_id":"B-1","farmer_id":"F-1","weight_kg":120.5,"size_grade":"Large"}`})
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/staff/batches", reqOpts{
		session: id,
		htmx:    true,
		form: url.Values{
			"farmer_id": {"F-1"}, "weight_kg": {"120.5"}, "size_grade": {"Large"}, "location": {"Dock 2"},
		},
	})
	require.Equal(t, "/staff?qr=B-1", w.Header().Get("HX-Redirect"))

	w = env.do(t, http.MethodGet, "/staff?qr=B-1", reqOpts{session: id})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<dialog open`)
	assert.Contains(t, body, `src="data:image/png;base64,iVBORw0KGgo="`)
}

func TestUI_CreateBatch_RejectsUnknownGrade(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/staff/batches", reqOpts{
		session: id,
		htmx:    true,
		form: url.Values{
			"farmer_id": {"F-1"}, "weight_kg": {"12"}, "size_grade": {"Huge"}, "location": {"Dock 2"},
		},
	})
	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
	assert.Zero(t, env.backend.count("POST /api/batches"))
}

func TestUI_CreateStage_OutputCannotExceedInput(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/processing/stages", reqOpts{
		session: id,
		htmx:    true,
		form: url.Values{
			"batch_id": {"B-1"}, "stage_name": {"Peeling"}, "assigned_person": {"Anil"},
			"input_weight": {"10"}, "output_weight": {"11"},
		},
	})
	assert.Contains(t, w.Header().Get("HX-Trigger"), "cannot exceed input weight")
	assert.Zero(t, env.backend.count("POST /api/processing"))
}

func TestUI_ScanDecode(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleStaff)

	w := env.do(t, http.MethodPost, "/scanner/decode", reqOpts{
		session: id,
		form:    url.Values{"payload": {`{"batch_id":"B-1","farmer_id":"F-1","weight_kg":120.5}`}},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/batch/B-1", w.Header().Get("Location"))

	w = env.do(t, http.MethodPost, "/scanner/decode", reqOpts{
		session: id,
		htmx:    true,
		form:    url.Values{"payload": {"not json"}},
	})
	assert.Contains(t, w.Header().Get("HX-Trigger"), "Invalid QR code format.")
	assert.Empty(t, w.Header().Get("HX-Redirect"))
}

func TestUI_Export_StreamsAttachment(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("POST /api/export/batches", fakeResponse{
		body:        "PK\x03\x04xlsx-bytes",
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	id := env.login(t, domainauth.RoleAdmin)

	for range 2 {
		w := env.do(t, http.MethodPost, "/admin/export/batches", reqOpts{session: id})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="batches_2025-03-01.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Equal(t, "PK\x03\x04xlsx-bytes", w.Body.String())
	}
	assert.Equal(t, 2, env.backend.count("POST /api/export/batches"))
}

func TestUI_Export_FailureAndUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	env.backend.set("POST /api/export/payments", fakeResponse{status: http.StatusInternalServerError, body: `{"detail":"boom"}`})
	id := env.login(t, domainauth.RoleOwner)

	w := env.do(t, http.MethodPost, "/admin/export/payments", reqOpts{session: id})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?error=export_failed", w.Header().Get("Location"))

	w = env.do(t, http.MethodPost, "/admin/export/secrets", reqOpts{session: id})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, env.backend.count("POST /api/export/secrets"))
}

func TestUI_UpdatePaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, domainauth.RoleAdmin)

	w := env.do(t, http.MethodPost, "/admin/payments/P-1/status", reqOpts{
		session: id, htmx: true, form: url.Values{"status": {"paid"}},
	})
	assert.Equal(t, "/admin", w.Header().Get("HX-Redirect"))
	assert.Equal(t, 1, env.backend.count("PUT /api/payments/P-1/status"))

	w = env.do(t, http.MethodPost, "/admin/payments/P-1/status", reqOpts{
		session: id, htmx: true, form: url.Values{"status": {"refunded"}},
	})
	assert.Equal(t, "none", w.Header().Get("HX-Reswap"))
}
