package httpx

import (
	"net/http"
	"strings"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// maxFormBytes caps a urlencoded form body.
const maxFormBytes = 64 << 10

// parseForm bounds and parses a submitted form.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return apperrors.Validation("The form could not be read.")
	}
	return nil
}

// formValue returns the trimmed value of a form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// invalid converts failed validation into a field-tagged error, preferring the form's field order.
func invalid(fv *validation.FieldValidator, order ...string) error {
	if fv.Valid() {
		return nil
	}
	msg := fv.First(order...)
	for field, m := range fv.Errors() {
		if m == msg {
			return apperrors.ValidationField(field, msg)
		}
	}
	return apperrors.Validation(msg)
}

// invalidField reports a cross-field rule that failed on field.
func invalidField(field, msg string) error {
	return apperrors.ValidationField(field, msg)
}
