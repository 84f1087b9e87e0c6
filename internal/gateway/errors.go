package gateway

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/texthub/textproc-gateway/internal/backend"
)

// Error is a request failure with the HTTP status it should surface as.
// Message is always safe to return to the caller; server-side detail stays
// in the logs.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func clientErrorf(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func serverError(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// backendError maps a failed backend call onto the surface taxonomy:
// timeouts become 504, transport faults 503, and HTTP rejections pass the
// backend's own status and message through.
func backendError(service string, err error) *Error {
	var be *backend.Error
	if !errors.As(err, &be) {
		return serverError("processing error", err)
	}
	switch be.Kind {
	case backend.KindTimeout:
		return &Error{
			Status:  http.StatusGatewayTimeout,
			Message: fmt.Sprintf("timeout calling %s service", service),
			cause:   err,
		}
	case backend.KindRejected:
		return &Error{
			Status:  be.Status,
			Message: fmt.Sprintf("%s service error: %s", service, be.Body),
			cause:   err,
		}
	default:
		return &Error{
			Status:  http.StatusServiceUnavailable,
			Message: fmt.Sprintf("error calling %s service", service),
			cause:   err,
		}
	}
}
