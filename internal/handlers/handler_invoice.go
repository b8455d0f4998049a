package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
)

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}
	rg.POST("/invoices/:invoiceID/payments", h.confirmPayment)
}

// confirmPayment godoc
// @Summary Confirm a payment against an invoice
// @Description Adds the amount to what has been paid and recomputes the invoice status atomically.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param payment body dto.ConfirmPaymentRequest true "Payment"
// @Success 200 {object} domain.PaymentConfirmation
// @Failure 400 {object} domain.PaymentConfirmation "Non-positive amount or overpayment"
// @Failure 404 {object} domain.PaymentConfirmation
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [post]
func (h *invoiceHandler) confirmPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, domain.PaymentConfirmation{Error: "Invalid request format: " + err.Error()})
		return
	}

	confirmation, err := h.invoiceService.ConfirmPayment(c.Request.Context(), invoiceID, req)
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to confirm invoice payment", slog.String("invoice_id", invoiceID), slog.String("error", msg))
			msg = "Failed to confirm payment"
		} else {
			logger.Warn("Invoice payment refused", slog.String("invoice_id", invoiceID), slog.String("error", msg))
		}
		c.JSON(status, domain.PaymentConfirmation{Error: msg})
		return
	}
	c.JSON(http.StatusOK, confirmation)
}
