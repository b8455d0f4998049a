package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CashTransactionType classifies a cash movement in a shift's ledger.
type CashTransactionType string

const (
	CashFloat                    CashTransactionType = "float"
	CashIn                       CashTransactionType = "cash_in"
	CashOut                      CashTransactionType = "cash_out"
	CashSale                     CashTransactionType = "sale"
	CashChange                   CashTransactionType = "change"
	CashReconciliationAdjustment CashTransactionType = "reconciliation_adjustment"
)

// IsValid reports whether t is a known cash transaction type.
func (t CashTransactionType) IsValid() bool {
	switch t {
	case CashFloat, CashIn, CashOut, CashSale, CashChange, CashReconciliationAdjustment:
		return true
	default:
		return false
	}
}

// CashDirection says whether a movement adds cash to the drawer or removes it.
type CashDirection string

const (
	DirectionIn  CashDirection = "in"
	DirectionOut CashDirection = "out"
)

// DirectionFor returns the fixed direction of a cash transaction type.
// Reconciliation adjustments have no fixed direction; the caller picks one by sign.
func DirectionFor(t CashTransactionType) (CashDirection, error) {
	switch t {
	case CashFloat, CashIn, CashSale:
		return DirectionIn, nil
	case CashOut, CashChange:
		return DirectionOut, nil
	case CashReconciliationAdjustment:
		return "", fmt.Errorf("%s has no fixed direction", t)
	default:
		return "", fmt.Errorf("unknown cash transaction type %q", t)
	}
}

// CashTransaction is one immutable entry in a shift's cash ledger. Amount is always positive.
type CashTransaction struct {
	CashTransactionID string              `json:"cashTransactionID"`
	ShiftID           string              `json:"shiftID"`
	CashierID         string              `json:"cashierID"`
	Type              CashTransactionType `json:"type"`
	Direction         CashDirection       `json:"direction"`
	Amount            decimal.Decimal     `json:"amount"`
	Description       string              `json:"description"`
	ReferenceID       string              `json:"referenceID,omitempty"` // Sale, expense or reconciliation that caused it
	CreatedAt         time.Time           `json:"createdAt"`
}

// SignedAmount returns the amount with the sign of its direction.
func (t CashTransaction) SignedAmount() (decimal.Decimal, error) {
	switch t.Direction {
	case DirectionIn:
		return t.Amount, nil
	case DirectionOut:
		return t.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("cash transaction %s has unknown direction %q", t.CashTransactionID, t.Direction)
	}
}
