package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks how much of a credit sale has been paid.
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "unpaid"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
)

// InvoiceStatusFor derives the status from what has been paid so far.
func InvoiceStatusFor(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case !paid.IsPositive():
		return InvoiceUnpaid
	case paid.LessThan(total):
		return InvoicePartiallyPaid
	default:
		return InvoicePaid
	}
}

// Invoice is a credit sale awaiting payment.
type Invoice struct {
	InvoiceID    string          `json:"invoiceID"`
	CustomerName string          `json:"customerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	Status       InvoiceStatus   `json:"status"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// InvoicePayment is one payment applied to an invoice.
type InvoicePayment struct {
	InvoiceID string          `json:"invoiceID"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	PaidAt    time.Time       `json:"paidAt"`
}

// PaymentConfirmation mirrors the result of the payment-confirmation procedure.
type PaymentConfirmation struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`
}
