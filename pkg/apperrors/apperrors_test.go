package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCode(t *testing.T) {
	err := NewInvalidTransition("REQUESTED", "COMPLETED")
	assert.True(t, IsCode(err, "INVALID_TRANSITION"))
	assert.False(t, IsCode(err, "NOT_FOUND"))
	assert.False(t, IsCode(nil, "INVALID_TRANSITION"))
	assert.False(t, IsCode(errors.New("plain"), "INVALID_TRANSITION"))
}

func TestIsCode_WrappedError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewConcurrencyConflict("ticket"))
	assert.True(t, IsCode(err, "CONCURRENCY_CONFLICT"))
}

func TestToDomainError_PassesThrough(t *testing.T) {
	original := NewNotFound("ticket", map[string]any{"ticket_id": "tkt-1"})
	domainErr := ToDomainError(original)
	require.NotNil(t, domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	assert.Equal(t, "tkt-1", domainErr.Details["ticket_id"])
}

func TestToDomainError_WrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("connection reset"))
	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := NewDeliveryError("EMAIL", cause)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsCode(err, "DELIVERY_FAILED"))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewInvalidTransition("A", "B"), http.StatusUnprocessableEntity},
		{NewNotFound("ticket", nil), http.StatusNotFound},
		{NewConcurrencyConflict("ticket"), http.StatusConflict},
		{NewUnauthorized("nope"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, ToDomainError(tt.err).HTTPStatus)
	}
}
