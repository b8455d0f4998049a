package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
)

// checkoutHandler handles sales at the till.
type checkoutHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

func registerCheckoutRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := &checkoutHandler{checkoutService: checkoutService}
	rg.POST("/checkout", h.checkout)
}

// checkout godoc
// @Summary Complete a sale
// @Description Records the sale, its payments and the cash it moves through the till in one transaction.
// @Description Stock shortfalls are reported as warnings unless the server runs the strict stock policy.
// @Tags checkout
// @Accept json
// @Produce json
// @Param sale body dto.CheckoutRequest true "Cart and payment"
// @Success 201 {object} domain.CheckoutResult
// @Failure 400 {object} ErrorResponse "Empty cart, split mismatch or insufficient payment"
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No active shift, or insufficient stock under the strict policy"
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /checkout [post]
func (h *checkoutHandler) checkout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Cashier ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	req.CashierID = cashierID

	result, err := h.checkoutService.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to complete checkout")
		return
	}

	logger.Info("Checkout completed", slog.String("sale_id", result.Sale.SaleID), slog.Int("stock_warnings", len(result.StockWarnings)))
	c.JSON(http.StatusCreated, result)
}
