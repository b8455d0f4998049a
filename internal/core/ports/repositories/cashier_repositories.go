package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// CashierRepositoryFacade stores till operators.
type CashierRepositoryFacade interface {
	// SaveCashier inserts a cashier. Returns apperrors.ErrDuplicate if the ID is taken.
	SaveCashier(ctx context.Context, cashier domain.Cashier) error

	// FindCashierByID returns apperrors.ErrNotFound when no cashier matches.
	FindCashierByID(ctx context.Context, cashierID string) (*domain.Cashier, error)
}
