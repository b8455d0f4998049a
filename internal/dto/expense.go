package dto

import (
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest records a shop expense.
type CreateExpenseRequest struct {
	ShiftID     string               `json:"shiftID"`
	Amount      *decimal.Decimal     `json:"amount" binding:"required"`
	Category    string               `json:"category" binding:"required,max=64"`
	PaidFrom    domain.FundingSource `json:"paidFrom" binding:"required,oneof=cash mpesa bank"`
	Description string               `json:"description" binding:"max=255"`
}
