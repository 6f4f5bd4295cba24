package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "description"})

	mapped := ToDomainError(fmt.Errorf("wrapped: %w", original))

	require.NotNil(t, mapped)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)

	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("disk full"))

	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestNewInvalidHandler(t *testing.T) {
	err := NewInvalidHandler(map[string]any{"officer_id": "x"})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_HANDLER", domainErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, domainErr.HTTPStatus)
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	assert.True(t, errors.Is(err, cause))
}
