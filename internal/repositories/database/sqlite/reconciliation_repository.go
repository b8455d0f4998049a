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

type reconciliationRepository struct {
	q dbtx
}

var _ portsrepo.ReconciliationRepositoryFacade = (*reconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, cashier_id, shift_id, expected_amount, declared_amount, difference, reconciliation_date`

func (r *reconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.CashReconciliation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cash_reconciliations (`+reconciliationColumns+`, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ReconciliationID, rec.CashierID, rec.ShiftID, rec.ExpectedAmount, rec.DeclaredAmount,
		rec.Difference, formatTime(rec.ReconciliationDate), rec.Status())
	if err != nil {
		return fmt.Errorf("failed to insert reconciliation: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.CashReconciliation, error) {
	rec, err := scanReconciliation(r.q.QueryRowContext(ctx,
		`SELECT `+reconciliationColumns+` FROM cash_reconciliations WHERE reconciliation_id = ?`, reconciliationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("reconciliation", reconciliationID)
		}
		return nil, fmt.Errorf("failed to load reconciliation: %w", err)
	}
	return rec, nil
}

func (r *reconciliationRepository) ListReconciliationsByShift(ctx context.Context, shiftID string) ([]domain.CashReconciliation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+reconciliationColumns+` FROM cash_reconciliations
		WHERE shift_id = ? ORDER BY reconciliation_date, reconciliation_id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations: %w", err)
	}
	defer rows.Close()

	var recs []domain.CashReconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanReconciliation(row rowScanner) (*domain.CashReconciliation, error) {
	var (
		rec  domain.CashReconciliation
		date string
	)
	if err := row.Scan(&rec.ReconciliationID, &rec.CashierID, &rec.ShiftID, &rec.ExpectedAmount,
		&rec.DeclaredAmount, &rec.Difference, &date); err != nil {
		return nil, err
	}
	var err error
	if rec.ReconciliationDate, err = parseTime(date); err != nil {
		return nil, err
	}
	return &rec, nil
}
