package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/Africall/sote-minimart/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxCashTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.CashTransactionRepositoryFacade = (*PgxCashTransactionRepository)(nil)

const cashTransactionSelect = `SELECT cash_transaction_id::text, shift_id::text, cashier_id, type, direction,
	amount, description, COALESCE(reference_id, ''), created_at FROM cash_transactions`

// AppendCashTransaction inserts only while the shift is open. FOR SHARE makes a
// concurrent EndShift wait for this transaction before it can close the shift.
func (r *PgxCashTransactionRepository) AppendCashTransaction(ctx context.Context, txn domain.CashTransaction) error {
	var reference *string
	if txn.ReferenceID != "" {
		reference = &txn.ReferenceID
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO cash_transactions (cash_transaction_id, shift_id, cashier_id, type, direction,
			amount, description, reference_id, created_at)
		SELECT $1::uuid, $2::uuid, $3::varchar, $4::varchar, $5::varchar, $6::numeric, $7::text, $8::varchar, $9::timestamptz
		WHERE EXISTS (SELECT 1 FROM shifts WHERE shift_id = $2::uuid AND end_time IS NULL FOR SHARE)`,
		txn.CashTransactionID, txn.ShiftID, txn.CashierID, txn.Type, txn.Direction,
		txn.Amount, txn.Description, reference, txn.CreatedAt)
	if err != nil {
		if isNoRow(err) {
			return fmt.Errorf("%w: shift %s is not active", apperrors.ErrConflict, txn.ShiftID)
		}
		return fmt.Errorf("failed to insert cash transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: shift %s is not active", apperrors.ErrConflict, txn.ShiftID)
	}
	return nil
}

func (r *PgxCashTransactionRepository) ListCashTransactionsByShift(ctx context.Context, shiftID string) ([]domain.CashTransaction, error) {
	rows, err := r.q.Query(ctx,
		cashTransactionSelect+` WHERE shift_id = $1 ORDER BY created_at, cash_transaction_id`, shiftID)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}
	return collectCashTransactions(rows)
}

// ListCashTransactionsPage pages in ledger order with a (created_at, id) cursor.
func (r *PgxCashTransactionRepository) ListCashTransactionsPage(ctx context.Context, shiftID string, limit int, nextToken *string) ([]domain.CashTransaction, *string, error) {
	query := cashTransactionSelect + ` WHERE shift_id = $1`
	args := []any{shiftID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.Decode(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` AND (created_at, cash_transaction_id) > ($2, $3::uuid)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, cash_transaction_id LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.q.Query(ctx, query, args...)
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

func collectCashTransactions(rows pgx.Rows) ([]domain.CashTransaction, error) {
	defer rows.Close()
	var txns []domain.CashTransaction
	for rows.Next() {
		var t domain.CashTransaction
		if err := rows.Scan(&t.CashTransactionID, &t.ShiftID, &t.CashierID, &t.Type, &t.Direction,
			&t.Amount, &t.Description, &t.ReferenceID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cash transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
