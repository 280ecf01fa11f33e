// pkg/errors/errors.go

package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors shared across the service. Wrap them with the builder and
// Mark so callers can match with errors.Is.
var (
	ErrValidation    = new(ErrCodeValidation, "validation error")
	ErrUnauthorized  = new(ErrCodeUnauthorized, "unauthorized")
	ErrNotConfigured = new(ErrCodeNotConfigured, "not configured")
	ErrSystem        = new(ErrCodeSystemError, "system error")

	// maps errors to http status codes. Checked in order, so a system error
	// wrapping a validation error still reports 500.
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrSystem, http.StatusInternalServerError},
		{ErrNotConfigured, http.StatusInternalServerError},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrValidation, http.StatusBadRequest},
	}
)

const (
	ErrCodeValidation    = "validation_error"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeNotConfigured = "not_configured"
	ErrCodeSystemError   = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized checks if an error is an authentication error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotConfigured checks if an error comes from missing configuration
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}

// DisplayMessage returns the outermost hint attached to err, which is the
// only text safe to hand back to a caller.
func DisplayMessage(err error) string {
	hints := errors.GetAllHints(err)
	for i := len(hints) - 1; i >= 0; i-- {
		if hint := strings.TrimSpace(hints[i]); hint != "" {
			return hint
		}
	}
	return "an unexpected error occurred"
}
