package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceSummary is the till position derived from a shift's cash ledger.
type BalanceSummary struct {
	Float          decimal.Decimal `json:"float"`
	CashIn         decimal.Decimal `json:"cashIn"`
	CashOut        decimal.Decimal `json:"cashOut"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	ChangeGiven    decimal.Decimal `json:"changeGiven"`
	AdjustmentsIn  decimal.Decimal `json:"adjustmentsIn"`
	AdjustmentsOut decimal.Decimal `json:"adjustmentsOut"`
	Balance        decimal.Decimal `json:"balance"`
	EntryCount     int             `json:"entryCount"`
}

// CalculateBalance derives the till balance from ledger entries:
//
//	balance = float + Σ(cash_in ∪ sale) − Σ(cash_out ∪ change)
//
// with reconciliation adjustments counted on the side of their direction.
// It is a pure sum, so the order of entries does not matter.
func CalculateBalance(entries []CashTransaction) (BalanceSummary, error) {
	s := BalanceSummary{
		Float:          decimal.Zero,
		CashIn:         decimal.Zero,
		CashOut:        decimal.Zero,
		TotalSales:     decimal.Zero,
		ChangeGiven:    decimal.Zero,
		AdjustmentsIn:  decimal.Zero,
		AdjustmentsOut: decimal.Zero,
	}

	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return BalanceSummary{}, fmt.Errorf("cash transaction %s has non-positive amount %s", e.CashTransactionID, e.Amount)
		}
		switch e.Type {
		case CashFloat:
			s.Float = s.Float.Add(e.Amount)
		case CashIn:
			s.CashIn = s.CashIn.Add(e.Amount)
		case CashOut:
			s.CashOut = s.CashOut.Add(e.Amount)
		case CashSale:
			s.TotalSales = s.TotalSales.Add(e.Amount)
		case CashChange:
			s.ChangeGiven = s.ChangeGiven.Add(e.Amount)
		case CashReconciliationAdjustment:
			switch e.Direction {
			case DirectionIn:
				s.AdjustmentsIn = s.AdjustmentsIn.Add(e.Amount)
			case DirectionOut:
				s.AdjustmentsOut = s.AdjustmentsOut.Add(e.Amount)
			default:
				return BalanceSummary{}, fmt.Errorf("adjustment %s has unknown direction %q", e.CashTransactionID, e.Direction)
			}
		default:
			return BalanceSummary{}, fmt.Errorf("cash transaction %s has unknown type %q", e.CashTransactionID, e.Type)
		}
		s.EntryCount++
	}

	s.Balance = s.Float.
		Add(s.CashIn).Add(s.AdjustmentsIn).Add(s.TotalSales).
		Sub(s.CashOut).Sub(s.AdjustmentsOut).Sub(s.ChangeGiven)
	return s, nil
}
