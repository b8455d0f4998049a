package apperrors_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestNewNotFoundError(t *testing.T) {
	err := apperrors.NewNotFoundError("shift", "abc")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "shift abc: resource not found", err.Error())

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestNewValidationError(t *testing.T) {
	err := apperrors.NewValidationError("amount %s must be positive", "-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "amount -1 must be positive")
}

func TestIsRetryable(t *testing.T) {
	wrapped := apperrors.NewAppError(http.StatusServiceUnavailable, "insert sale", apperrors.ErrUnavailable)
	assert.True(t, apperrors.IsRetryable(wrapped))
	assert.False(t, apperrors.IsRetryable(apperrors.ErrValidation))
}
