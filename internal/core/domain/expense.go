package domain

import "github.com/shopspring/decimal"

// FundingSource is where the money for an expense came from.
type FundingSource string

const (
	FundedByCash  FundingSource = "cash"
	FundedByMpesa FundingSource = "mpesa"
	FundedByBank  FundingSource = "bank"
)

// IsValid reports whether f is a known funding source.
func (f FundingSource) IsValid() bool {
	switch f {
	case FundedByCash, FundedByMpesa, FundedByBank:
		return true
	default:
		return false
	}
}

// Expense is a shop expense paid out of the till or another account.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	ShiftID     string          `json:"shiftID,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	PaidFrom    FundingSource   `json:"paidFrom"`
	Description string          `json:"description"`
	AuditFields
}
