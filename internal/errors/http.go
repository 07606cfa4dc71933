package errors

import (
	"context"
	"errors"
	"net/http"
)

// MapContextError maps context cancellation and deadline errors to AppError instances.
// Other errors are returned unchanged.
func MapContextError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "request canceled")
	}
	return err
}

// FromStatus classifies a backend HTTP status. detail is the backend's explanation and
// becomes the user-facing message when present.
func FromStatus(status int, detail string) *AppError {
	code := ErrCodeRequestFailed
	switch status {
	case http.StatusUnauthorized:
		code = ErrCodeUnauthorized
		if detail == "" {
			detail = "your session has ended, please sign in again"
		}
	case http.StatusForbidden:
		code = ErrCodeForbidden
		if detail == "" {
			detail = "you do not have access to this action"
		}
	case http.StatusNotFound:
		code = ErrCodeNotFound
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &AppError{Code: code, Message: detail, Status: status}
}

// HTTPStatus maps an error to the status the UI layer responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeMissingSessionToken:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeSessionExchangeFailed:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
