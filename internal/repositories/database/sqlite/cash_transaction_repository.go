package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/Africall/sote-minimart/internal/utils/pagination"
)

type cashTransactionRepository struct {
	q dbtx
}

var _ portsrepo.CashTransactionRepositoryFacade = (*cashTransactionRepository)(nil)

const cashTransactionColumns = `cash_transaction_id, shift_id, cashier_id, type, direction, amount, description, reference_id, created_at`

// AppendCashTransaction inserts only while the shift is open. The existence check
// is part of the INSERT, so a shift ending concurrently cannot slip an entry in.
func (r *cashTransactionRepository) AppendCashTransaction(ctx context.Context, txn domain.CashTransaction) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO cash_transactions (`+cashTransactionColumns+`)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM shifts WHERE shift_id = ? AND end_time IS NULL)`,
		txn.CashTransactionID, txn.ShiftID, txn.CashierID, txn.Type, txn.Direction,
		txn.Amount, txn.Description, nullString(txn.ReferenceID), formatTime(txn.CreatedAt),
		txn.ShiftID)
	if err != nil {
		return fmt.Errorf("failed to insert cash transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: shift %s is not active", apperrors.ErrConflict, txn.ShiftID)
	}
	return nil
}

func (r *cashTransactionRepository) ListCashTransactionsByShift(ctx context.Context, shiftID string) ([]domain.CashTransaction, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+cashTransactionColumns+` FROM cash_transactions
		WHERE shift_id = ? ORDER BY created_at, cash_transaction_id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}
	return collectCashTransactions(rows)
}

// ListCashTransactionsPage pages in ledger order with a (created_at, id) cursor.
func (r *cashTransactionRepository) ListCashTransactionsPage(ctx context.Context, shiftID string, limit int, nextToken *string) ([]domain.CashTransaction, *string, error) {
	query := `SELECT ` + cashTransactionColumns + ` FROM cash_transactions WHERE shift_id = ?`
	args := []any{shiftID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.Decode(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		after := formatTime(cursor.At)
		query += ` AND (created_at > ? OR (created_at = ? AND cash_transaction_id > ?))`
		args = append(args, after, after, cursor.ID)
	}
	query += ` ORDER BY created_at, cash_transaction_id LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}
	txns, err := collectCashTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.Encode(last.CreatedAt, last.CashTransactionID)
		next = &token
	}
	return txns, next, nil
}

func collectCashTransactions(rows *sql.Rows) ([]domain.CashTransaction, error) {
	defer rows.Close()
	var txns []domain.CashTransaction
	for rows.Next() {
		var (
			t         domain.CashTransaction
			reference sql.NullString
			createdAt string
		)
		if err := rows.Scan(&t.CashTransactionID, &t.ShiftID, &t.CashierID, &t.Type, &t.Direction,
			&t.Amount, &t.Description, &reference, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan cash transaction: %w", err)
		}
		t.ReferenceID = reference.String
		var err error
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
