package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// ReconciliationRepositoryFacade stores immutable cash count records.
type ReconciliationRepositoryFacade interface {
	SaveReconciliation(ctx context.Context, rec domain.CashReconciliation) error
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.CashReconciliation, error)
	ListReconciliationsByShift(ctx context.Context, shiftID string) ([]domain.CashReconciliation, error)
}
