package httpx

import (
	"net/http"
	"net/url"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// ScannerPage renders the QR scanner page.
// GET /scanner.
func (h *UIHandlers) ScannerPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "QR Scanner - AquaFlow", PageTitle: "QR Scanner", CurrentPage: PageScanner},
	})
}

// ScanDecode extracts the batch id from scanned label text and opens the batch page.
// Unreadable labels leave the scanner in place with a notice.
// POST /scanner/decode.
func (h *UIHandlers) ScanDecode(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/scanner"})
		return
	}
	scanned, err := h.Scanner.Decode(r.PostFormValue("payload"))
	if err != nil {
		h.logger().DebugContext(r.Context(), "qr decode rejected", "error", err)
		if IsHTMX(r) {
			HTMX(w).Toast(apperrors.UserMessage(err), ToastError).NoSwap()
			return
		}
		http.Redirect(w, r, withQuery("/scanner", "error", ErrorActionFailed), http.StatusSeeOther)
		return
	}
	redirectTo(w, r, "/batch/"+url.PathEscape(scanned.BatchID))
}
