package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/dto"
)

// ExpenseSvcFacade records shop expenses.
type ExpenseSvcFacade interface {
	RecordExpense(ctx context.Context, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error)
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
}
