package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors across layers.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError flags malformed input, rejected before any write.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInvalidTransition flags a status edge absent from the allowed table.
func NewInvalidTransition(current, target string) error {
	return NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("cannot transition from %s to %s", current, target),
		http.StatusUnprocessableEntity,
		map[string]any{"current_status": current, "target_status": target})
}

// NewNotFound flags a missing resource.
func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewConcurrencyConflict flags a lost row-lock or compare-and-set race.
// Recoverable: re-read and retry.
func NewConcurrencyConflict(resource string) error {
	return NewDomainError("CONCURRENCY_CONFLICT",
		fmt.Sprintf("%s was modified concurrently", resource),
		http.StatusConflict, nil)
}

// NewDeliveryError flags a failed notification send. Never propagated to the
// caller of a transition; the committed status change stands regardless.
func NewDeliveryError(channel string, err error) error {
	return &DomainError{
		Code:       "DELIVERY_FAILED",
		Message:    fmt.Sprintf("notification delivery via %s failed", channel),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
