package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

type accountRepository struct {
	q dbtx
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	return inTx(ctx, r.q, func(tx dbtx) error {
		for _, a := range accounts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO accounts (code, name, account_type) VALUES (?, ?, ?)
				ON CONFLICT (code) DO UPDATE SET name = excluded.name, account_type = excluded.account_type`,
				a.Code, a.Name, a.AccountType)
			if err != nil {
				return fmt.Errorf("failed to upsert account %s: %w", a.Code, err)
			}
		}
		return nil
	})
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT code, name, account_type FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Code, &a.Name, &a.AccountType); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

type cashierRepository struct {
	q dbtx
}

var _ portsrepo.CashierRepositoryFacade = (*cashierRepository)(nil)

func (r *cashierRepository) SaveCashier(ctx context.Context, c domain.Cashier) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cashiers (cashier_id, name, pin_hash, is_active, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.CashierID, c.Name, c.PINHash, c.IsActive, formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cashier %s", apperrors.ErrDuplicate, c.CashierID)
		}
		return fmt.Errorf("failed to insert cashier: %w", err)
	}
	return nil
}

func (r *cashierRepository) FindCashierByID(ctx context.Context, cashierID string) (*domain.Cashier, error) {
	var (
		c         domain.Cashier
		createdAt string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT cashier_id, name, pin_hash, is_active, created_at FROM cashiers WHERE cashier_id = ?`, cashierID).
		Scan(&c.CashierID, &c.Name, &c.PINHash, &c.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cashier", cashierID)
		}
		return nil, fmt.Errorf("failed to load cashier: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

type expenseRepository struct {
	q dbtx
}

var _ portsrepo.ExpenseRepositoryFacade = (*expenseRepository)(nil)

func (r *expenseRepository) SaveExpense(ctx context.Context, e domain.Expense) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO expenses (expense_id, shift_id, amount, category, paid_from, description, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExpenseID, nullString(e.ShiftID), e.Amount, e.Category, e.PaidFrom, e.Description,
		formatTime(e.CreatedAt), e.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	var (
		e         domain.Expense
		shiftID   sql.NullString
		createdAt string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT expense_id, shift_id, amount, category, paid_from, description, created_at, created_by
		FROM expenses WHERE expense_id = ?`, expenseID).
		Scan(&e.ExpenseID, &shiftID, &e.Amount, &e.Category, &e.PaidFrom, &e.Description, &createdAt, &e.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("expense", expenseID)
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}
	e.ShiftID = shiftID.String
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
