package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// ExpenseRepositoryFacade stores shop expenses.
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
}
