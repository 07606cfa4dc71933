package httpx

import (
	"net/http"
	"strings"
)

// Toast levels understood by the client toast region.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sets HX-Redirect and writes 204 No Content. The handler must return afterwards.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger triggers a client-side event after swap with optional payload.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Toast queues a showToast event. Empty messages are ignored.
func (h *HTMXResponse) Toast(message, level string) *HTMXResponse {
	if strings.TrimSpace(message) == "" {
		return h
	}
	return h.Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(level),
	})
}

// NoSwap writes 204 so htmx leaves the page as it was before the request.
func (h *HTMXResponse) NoSwap() {
	SetHXReswap(h.w, "none")
	h.w.WriteHeader(http.StatusNoContent)
}
