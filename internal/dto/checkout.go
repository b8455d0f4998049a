package dto

import (
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutItem is one cart line.
type CheckoutItem struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SplitPayment carries the components of a split payment.
type SplitPayment struct {
	Cash  decimal.Decimal `json:"cash"`
	Mpesa decimal.Decimal `json:"mpesa"`
	Card  decimal.Decimal `json:"card"`
}

// CheckoutRequest completes a sale. CashierID comes from the authenticated identity.
type CheckoutRequest struct {
	CashierID     string               `json:"-"`
	Items         []CheckoutItem       `json:"items" binding:"dive"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash mpesa card split"`
	Split         *SplitPayment        `json:"split,omitempty"`
	CashReceived  *decimal.Decimal     `json:"cashReceived,omitempty"`
	Reference     string               `json:"reference,omitempty" binding:"max=64"`
}
