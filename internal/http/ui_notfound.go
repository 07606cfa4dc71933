package httpx

import (
	"bytes"
	"net/http"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// NotFound renders the 404 page for browsers and a JSON error for everything else.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteAppError(w, apperrors.NotFound("Resource not found."))
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Not Found - AquaFlow",
		PageTitle:   "Page not found",
		CurrentPage: PageNotFound,
	})
	name := "layout"
	if WantsPartial(r) {
		name = ContentTemplateFor(PageNotFound)
	}
	var body bytes.Buffer
	if err := h.T.executeTo(&body, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "not found render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if _, err := body.WriteTo(w); err != nil {
		h.logger().Error("failed to write not found page", "error", err)
	}
}
