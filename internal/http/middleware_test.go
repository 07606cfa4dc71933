package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = io.WriteString(w, body)
	})
}

func TestCompression_GzipsLargeHTML(t *testing.T) {
	body := strings.Repeat("<p>prawns</p>", 200)
	h := Compression(CompressionConfig{Level: 5, MinSize: 512})(okHandler(body, "text/html; charset=utf-8"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Get("Vary"), "Accept-Encoding")
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestCompression_SkipsSmallBinaryAndRefused(t *testing.T) {
	tests := []struct {
		name, body, contentType, acceptEncoding string
	}{
		{"below min size", "<p>hi</p>", "text/html", "gzip"},
		{"spreadsheet", strings.Repeat("x", 2048), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "gzip"},
		{"q=0", strings.Repeat("x", 2048), "text/html", "gzip;q=0"},
		{"no gzip", strings.Repeat("x", 2048), "text/html", "br"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Compression(CompressionConfig{MinSize: 512})(okHandler(tt.body, tt.contentType))
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept-Encoding", tt.acceptEncoding)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Empty(t, w.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, GetCSRFToken(r))
	}))

	t.Run("GET issues a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		c := findCookie(w, DefaultCSRFCookieName)
		require.NotNil(t, c)
		assert.Equal(t, c.Value, w.Body.String())
		assert.False(t, c.HttpOnly)
	})

	t.Run("POST without token is refused", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "abc"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST with mismatched header is refused with a toast for htmx", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "abc"})
		r.Header.Set(DefaultCSRFHeaderName, "xyz")
		r.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Header().Get("HX-Trigger"), "showToast")
	})

	t.Run("POST with header passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "abc"})
		r.Header.Set(DefaultCSRFHeaderName, "abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST with form field passes", func(t *testing.T) {
		form := url.Values{"csrf_token": {"abc"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "abc"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRecover_Returns500(t *testing.T) {
	h := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		htmx   bool
		want   bool
	}{
		{"html", "text/html,application/xhtml+xml", false, true},
		{"no accept", "", false, true},
		{"json only", "application/json", false, false},
		{"htmx", "*/*", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				r.Header.Set("HX-Request", "true")
			}
			assert.Equal(t, tt.want, IsBrowserRequest(r))
		})
	}
}

func TestHTMXResponse(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Toast("Saved", ToastSuccess).Redirect("/staff")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/staff", w.Header().Get("HX-Redirect"))
	assert.JSONEq(t, `{"showToast":{"message":"Saved","type":"success"}}`, w.Header().Get("HX-Trigger"))

	w = httptest.NewRecorder()
	SetHXTrigger(w, "a", nil)
	SetHXTrigger(w, "b", map[string]int{"n": 1})
	assert.JSONEq(t, `{"a":true,"b":{"n":1}}`, w.Header().Get("HX-Trigger"))
}

func TestWantsPartial(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, WantsPartial(r))
	r.Header.Set("HX-Request", "true")
	assert.True(t, WantsPartial(r))
	r.Header.Set("HX-History-Restore-Request", "true")
	assert.False(t, WantsPartial(r))
}
