package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("listing not found: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad request", fmt.Errorf("image is required: %w", ErrBadRequest), http.StatusBadRequest},
		{"conflict", fmt.Errorf("email taken: %w", ErrConflict), http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"too large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"app error code wins", New(http.StatusTeapot, "teapot", ErrNotFound), http.StatusTeapot},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := New(http.StatusRequestEntityTooLarge, "upload exceeds 25 MB", ErrPayloadTooLarge)
	assert.Equal(t, "upload exceeds 25 MB", err.Error())
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	bare := New(http.StatusNotFound, "", nil)
	assert.Equal(t, "Not Found", bare.Error())
}
