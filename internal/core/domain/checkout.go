package domain

import "github.com/shopspring/decimal"

// CheckoutResult is everything a completed checkout produced.
type CheckoutResult struct {
	Sale          Sale                 `json:"sale"`
	LineItems     []SaleLineItem       `json:"lineItems"`
	Payments      []PaymentTransaction `json:"payments"`
	CashEntries   []CashTransaction    `json:"cashEntries"`
	Change        decimal.Decimal      `json:"change"`
	StockWarnings []StockWarning       `json:"stockWarnings,omitempty"`
	ShiftBalance  *BalanceSummary      `json:"shiftBalance,omitempty"`
}
