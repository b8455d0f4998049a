package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationSelect = `SELECT reconciliation_id::text, cashier_id, shift_id::text, expected_amount,
	declared_amount, difference, reconciliation_date FROM cash_reconciliations`

func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.CashReconciliation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_reconciliations (reconciliation_id, cashier_id, shift_id, expected_amount,
			declared_amount, difference, reconciliation_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ReconciliationID, rec.CashierID, rec.ShiftID, rec.ExpectedAmount, rec.DeclaredAmount,
		rec.Difference, rec.ReconciliationDate, rec.Status())
	if err != nil {
		return fmt.Errorf("failed to insert reconciliation: %w", err)
	}
	return nil
}

func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.CashReconciliation, error) {
	rec, err := scanReconciliation(r.q.QueryRow(ctx, reconciliationSelect+` WHERE reconciliation_id = $1`, reconciliationID))
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("reconciliation", reconciliationID)
		}
		return nil, fmt.Errorf("failed to load reconciliation: %w", err)
	}
	return rec, nil
}

func (r *PgxReconciliationRepository) ListReconciliationsByShift(ctx context.Context, shiftID string) ([]domain.CashReconciliation, error) {
	rows, err := r.q.Query(ctx,
		reconciliationSelect+` WHERE shift_id = $1 ORDER BY reconciliation_date, reconciliation_id`, shiftID)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
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

func scanReconciliation(row pgx.Row) (*domain.CashReconciliation, error) {
	var rec domain.CashReconciliation
	if err := row.Scan(&rec.ReconciliationID, &rec.CashierID, &rec.ShiftID, &rec.ExpectedAmount,
		&rec.DeclaredAmount, &rec.Difference, &rec.ReconciliationDate); err != nil {
		return nil, err
	}
	return &rec, nil
}
