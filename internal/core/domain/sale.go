package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid. A split sale is paid by several
// component methods; split itself is never a component.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
	PaymentSplit PaymentMethod = "split"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentCard, PaymentSplit:
		return true
	default:
		return false
	}
}

// IsComponent reports whether m can carry part of a payment.
func (m PaymentMethod) IsComponent() bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentCard:
		return true
	case PaymentSplit:
		return false
	default:
		return false
	}
}

// PaymentStatus of a sale. Checkout completes a sale immediately; there is no
// pending authorisation window for card or mpesa.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Sale is the header row of one completed checkout.
type Sale struct {
	SaleID        string          `json:"saleID"`
	CashierID     string          `json:"cashierID"`
	ShiftID       string          `json:"shiftID,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SaleLineItem is one cart line of a sale.
type SaleLineItem struct {
	SaleID     string          `json:"saleID"`
	ProductID  string          `json:"productID"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	// UnitCost is filled from the product catalogue when the sale is read back for posting.
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
}

// NewSaleLineItem builds a line item with TotalPrice = Quantity x UnitPrice.
func NewSaleLineItem(saleID, productID string, quantity int, unitPrice decimal.Decimal) (SaleLineItem, error) {
	if quantity <= 0 {
		return SaleLineItem{}, fmt.Errorf("quantity for product %s must be positive, got %d", productID, quantity)
	}
	if unitPrice.IsNegative() {
		return SaleLineItem{}, fmt.Errorf("unit price for product %s must not be negative", productID)
	}
	return SaleLineItem{
		SaleID:     saleID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// PaymentTransaction is one row of the payment-method ledger for a sale.
type PaymentTransaction struct {
	PaymentTransactionID string          `json:"paymentTransactionID"`
	SaleID               string          `json:"saleID"`
	Method               PaymentMethod   `json:"method"`
	Amount               decimal.Decimal `json:"amount"`
	Reference            string          `json:"reference,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// SaleDetail is a sale together with its lines and payments, as read back for posting.
type SaleDetail struct {
	Sale      Sale                 `json:"sale"`
	LineItems []SaleLineItem       `json:"lineItems"`
	Payments  []PaymentTransaction `json:"payments"`
}
