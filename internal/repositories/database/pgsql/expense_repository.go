package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, e domain.Expense) error {
	var shiftID *string
	if e.ShiftID != "" {
		shiftID = &e.ShiftID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (expense_id, shift_id, amount, category, paid_from, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ExpenseID, shiftID, e.Amount, e.Category, e.PaidFrom, e.Description, e.CreatedAt, e.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	var e domain.Expense
	err := r.q.QueryRow(ctx, `
		SELECT expense_id::text, COALESCE(shift_id::text, ''), amount, category, paid_from, description, created_at, created_by
		FROM expenses WHERE expense_id = $1`, expenseID).
		Scan(&e.ExpenseID, &e.ShiftID, &e.Amount, &e.Category, &e.PaidFrom, &e.Description, &e.CreatedAt, &e.CreatedBy)
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("expense", expenseID)
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}
	return &e, nil
}
