package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it. Internal failures get the generic
// message instead of the error text.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: failMsg})
	case status == http.StatusServiceUnavailable:
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Store unavailable, please retry"})
	default:
		logger.Warn(failMsg, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}
