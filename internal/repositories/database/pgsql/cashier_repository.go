package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

type PgxCashierRepository struct {
	BaseRepository
}

var _ portsrepo.CashierRepositoryFacade = (*PgxCashierRepository)(nil)

func (r *PgxCashierRepository) SaveCashier(ctx context.Context, c domain.Cashier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cashiers (cashier_id, name, pin_hash, is_active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.CashierID, c.Name, c.PINHash, c.IsActive, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cashier %s", apperrors.ErrDuplicate, c.CashierID)
		}
		return fmt.Errorf("failed to insert cashier: %w", err)
	}
	return nil
}

func (r *PgxCashierRepository) FindCashierByID(ctx context.Context, cashierID string) (*domain.Cashier, error) {
	var c domain.Cashier
	err := r.q.QueryRow(ctx,
		`SELECT cashier_id, name, pin_hash, is_active, created_at FROM cashiers WHERE cashier_id = $1`, cashierID).
		Scan(&c.CashierID, &c.Name, &c.PINHash, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("cashier", cashierID)
		}
		return nil, fmt.Errorf("failed to load cashier: %w", err)
	}
	return &c, nil
}
