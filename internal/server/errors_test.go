package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracera/tracera/internal/revstore"
	userdomain "github.com/tracera/tracera/internal/user/domain"
)

func TestMapErrorOutcomeStatuses(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantType   string
	}{
		{revstore.ErrNotFound, http.StatusNotFound, "not_found"},
		{revstore.ErrConflict, http.StatusConflict, "conflict"},
		{revstore.ErrNoStateChange, http.StatusConflict, "no_state_change"},
		{revstore.ErrInvalidReference, http.StatusUnprocessableEntity, "invalid_reference"},
		{revstore.ErrAmbiguousMatch, http.StatusInternalServerError, "internal_error"},
		{revstore.ErrInvalidAttribute, http.StatusBadRequest, "validation_error"},
		{userdomain.ErrInvalidUserName, http.StatusBadRequest, "validation_error"},
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		status, payload := mapError(tt.err)
		assert.Equal(t, tt.wantStatus, status, tt.err)
		assert.Equal(t, tt.wantType, payload.Type, tt.err)
	}
}

func TestMapErrorUnwrapsCause(t *testing.T) {
	wrapped := fmt.Errorf("project 7: %w", revstore.ErrInvalidReference)
	status, _ := mapError(wrapped)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(newValidationError("short_name", "invalid_short_name", "invalid short name"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", payload.Type)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "short_name", payload.Errors[0].Field)
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	errorType, _ := classifyErrorForLog(revstore.ErrAmbiguousMatch)
	assert.Equal(t, "internal_error", errorType)

	errorType, _ = classifyErrorForLog(revstore.ErrConflict)
	assert.Equal(t, "client_error", errorType)

	errorType, _ = classifyErrorForLog(userdomain.ErrInvalidEmail)
	assert.Equal(t, "validation_error", errorType)
}
