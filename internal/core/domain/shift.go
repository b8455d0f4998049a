package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShiftStatus is the lifecycle state of a shift: none -> active -> ended.
type ShiftStatus string

const (
	ShiftActive ShiftStatus = "active"
	ShiftEnded  ShiftStatus = "ended"
)

// IsValid reports whether s is a known shift status.
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftActive, ShiftEnded:
		return true
	default:
		return false
	}
}

// Shift is a bounded working period of one cashier at the till.
type Shift struct {
	ShiftID     string          `json:"shiftID"`
	CashierID   string          `json:"cashierID"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	FloatAmount decimal.Decimal `json:"floatAmount"`
	Status      ShiftStatus     `json:"status"`
}

// IsActive reports whether the shift is still open.
func (s Shift) IsActive() bool {
	return s.EndTime == nil
}
