package dto

import (
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConfirmPaymentRequest applies a payment to an invoice.
type ConfirmPaymentRequest struct {
	Amount *decimal.Decimal     `json:"amount" binding:"required"`
	Method domain.PaymentMethod `json:"method" binding:"required,oneof=cash mpesa card"`
	PaidAt *time.Time           `json:"paidAt,omitempty"`
}
