package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles cashier sign-in at the till.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{authService: as}
}

// defaultLoginRate throttles PIN guessing when no rate is configured.
const defaultLoginRate = "5-M"

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, authService portssvc.AuthSvcFacade, loginRate string) error {
	h := NewAuthHandler(authService)

	if loginRate == "" {
		loginRate = defaultLoginRate
	}
	// PIN guessing is throttled per client IP
	ipLimiter, err := middleware.NewMemoryLimiter(loginRate)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
	}
	return nil
}

// Login godoc
// @Summary Cashier login
// @Description Checks the cashier's PIN and returns a JWT whose subject is the cashier ID.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.CashierID, req.PIN)
	if err != nil {
		respondError(c, logger.With(slog.String("cashier_id", req.CashierID)), err, "Login failed")
		return
	}

	logger.Info("Cashier logged in", slog.String("cashier_id", req.CashierID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
