package httpapi

import (
	"errors"
	"net/http"

	"parkwatch/internal/domain"
)

// Result is the envelope every endpoint returns. Success carries the
// outcome; Message explains failures and is "ok" otherwise. Payload fields
// are flattened next to the envelope by each handler's response struct.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Ok() Result {
	return Result{Success: true, Message: "ok"}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the failure envelope. Internal errors keep their detail
// in the log, not the response.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, Fail(msg))
}
