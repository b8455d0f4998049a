package dto

import (
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartShiftRequest opens a shift for the authenticated cashier.
type StartShiftRequest struct {
	FloatAmount *decimal.Decimal `json:"floatAmount" binding:"required"`
}

// RecordCashTransactionRequest is a manual cash movement at the till.
// Sale, change, float and adjustment entries are written by their own flows.
type RecordCashTransactionRequest struct {
	Type        domain.CashTransactionType `json:"type" binding:"required,oneof=cash_in cash_out"`
	Amount      *decimal.Decimal           `json:"amount" binding:"required"`
	Description string                     `json:"description" binding:"max=255"`
}

// ReconcileRequest declares the physically counted cash.
type ReconcileRequest struct {
	DeclaredAmount *decimal.Decimal `json:"declaredAmount" binding:"required"`
}

// ListCashTransactionsParams holds the query parameters for listing ledger entries.
type ListCashTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListCashTransactionsResponse is one page of a shift's ledger.
type ListCashTransactionsResponse struct {
	Transactions []domain.CashTransaction `json:"transactions"`
	NextToken    *string                  `json:"nextToken,omitempty"`
}

// BalanceResponse is the polling view of a shift's till position.
type BalanceResponse struct {
	ShiftID string                `json:"shiftID"`
	Status  domain.ShiftStatus    `json:"status"`
	Summary domain.BalanceSummary `json:"summary"`
}
