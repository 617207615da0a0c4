package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCustomError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "validation", err: NewFieldValidationError("name", "is required"), code: ErrCodeInvalidRequest, status: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("find: %w", ErrNotFound), code: ErrCodeNotFound, status: http.StatusNotFound},
		{name: "generation", err: NewGenerationError("care_profile", errors.New("bad json")), code: ErrCodeAIService, status: http.StatusServiceUnavailable},
		{name: "generation timeout", err: NewGenerationError("care_profile", context.DeadlineExceeded), code: ErrCodeGatewayTimeout, status: http.StatusGatewayTimeout},
		{name: "queue full", err: NewGenerationError("care_profile", ErrQueueFull), code: "QUEUE_FULL", status: http.StatusServiceUnavailable},
		{name: "body too large", err: fmt.Errorf("bind: %w", &http.MaxBytesError{Limit: 8}), code: ErrCodeRequestTooLarge, status: http.StatusRequestEntityTooLarge},
		{name: "other", err: errors.New("boom"), code: ErrCodeInternalError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := ToCustomError(tt.err)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.status, ce.Status)
		})
	}
	assert.Nil(t, ToCustomError(nil))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	storageErr := NewStorageError("cache.put", cause)
	assert.True(t, IsStorageError(storageErr))
	assert.ErrorIs(t, storageErr, cause)
	assert.False(t, IsGenerationError(storageErr))

	genErr := NewGenerationError("identify", cause)
	assert.True(t, IsGenerationError(fmt.Errorf("wrapped: %w", genErr)))
	assert.Contains(t, genErr.Error(), "identify")

	assert.Equal(t, "name: is required", NewFieldValidationError("name", "is required").Error())
	assert.Equal(t, "bad input", NewValidationError("bad input").Error())
}
