package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus reports how the declared count compares to the expected balance.
type ReconciliationStatus string

const (
	ReconciliationBalanced ReconciliationStatus = "balanced"
	ReconciliationOver     ReconciliationStatus = "over"
	ReconciliationShort    ReconciliationStatus = "short"
)

// StatusForDifference maps declared - expected to a reconciliation status.
func StatusForDifference(difference decimal.Decimal) ReconciliationStatus {
	switch difference.Sign() {
	case 1:
		return ReconciliationOver
	case -1:
		return ReconciliationShort
	default:
		return ReconciliationBalanced
	}
}

// CashReconciliation is the immutable audit record of one physical cash count.
type CashReconciliation struct {
	ReconciliationID   string          `json:"reconciliationID"`
	CashierID          string          `json:"cashierID"`
	ShiftID            string          `json:"shiftID"`
	ExpectedAmount     decimal.Decimal `json:"expectedAmount"`
	DeclaredAmount     decimal.Decimal `json:"declaredAmount"`
	Difference         decimal.Decimal `json:"difference"` // declared - expected
	ReconciliationDate time.Time       `json:"reconciliationDate"`
}

// Status derives the reconciliation status from the stored difference.
func (r CashReconciliation) Status() ReconciliationStatus {
	return StatusForDifference(r.Difference)
}

// ReconciliationResult is what a reconcile action reports back to the cashier.
type ReconciliationResult struct {
	Reconciliation CashReconciliation   `json:"reconciliation"`
	Status         ReconciliationStatus `json:"status"`
	Adjustment     *CashTransaction     `json:"adjustment,omitempty"`
	BalanceAfter   decimal.Decimal      `json:"balanceAfter"`
}
