package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationSvcFacade compares counted cash with the computed balance.
type ReconciliationSvcFacade interface {
	Reconcile(ctx context.Context, shiftID, actorID string, declaredAmount decimal.Decimal) (*domain.ReconciliationResult, error)
	ListReconciliations(ctx context.Context, shiftID string) ([]domain.CashReconciliation, error)
}
