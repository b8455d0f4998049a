package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type reconciliationService struct {
	BaseService
	repos portsrepo.RepositoryProvider
	uow   portsrepo.UnitOfWork
}

// NewReconciliationService creates a new instance of ReconciliationService.
func NewReconciliationService(repos portsrepo.RepositoryProvider, uow portsrepo.UnitOfWork, opts ...Option) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		BaseService: newBaseService(opts),
		repos:       repos,
		uow:         uow,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile records a cash count against the ledger balance and, when they differ,
// appends the adjustment that brings the ledger to the declared amount. The shift
// row is locked for the whole read-compute-write so no entry lands in between.
func (s *reconciliationService) Reconcile(ctx context.Context, shiftID, actorID string, declaredAmount decimal.Decimal) (*domain.ReconciliationResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("shift_id", shiftID), slog.String("actor_id", actorID))

	if err := checkMoney("declared amount", declaredAmount); err != nil {
		return nil, err
	}

	var result *domain.ReconciliationResult
	err := s.uow.WithinTx(ctx, func(repos portsrepo.RepositoryProvider) error {
		shift, err := repos.ShiftRepo.LockActiveShift(ctx, shiftID)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return fmt.Errorf("%w: shift %s has ended", ErrNoActiveShift, shiftID)
			}
			return err
		}

		entries, err := repos.CashTransactionRepo.ListCashTransactionsByShift(ctx, shiftID)
		if err != nil {
			return fmt.Errorf("failed to load ledger: %w", err)
		}
		summary, err := domain.CalculateBalance(entries)
		if err != nil {
			return err
		}

		cashierID := actorID
		if cashierID == "" {
			cashierID = shift.CashierID
		}
		now := time.Now().UTC()
		rec := domain.CashReconciliation{
			ReconciliationID:   uuid.NewString(),
			CashierID:          cashierID,
			ShiftID:            shiftID,
			ExpectedAmount:     summary.Balance,
			DeclaredAmount:     declaredAmount,
			Difference:         declaredAmount.Sub(summary.Balance),
			ReconciliationDate: now,
		}
		if err := repos.ReconciliationRepo.SaveReconciliation(ctx, rec); err != nil {
			return fmt.Errorf("failed to save reconciliation: %w", err)
		}

		result = &domain.ReconciliationResult{
			Reconciliation: rec,
			Status:         rec.Status(),
			BalanceAfter:   summary.Balance,
		}
		if rec.Difference.IsZero() {
			return nil
		}

		dir := domain.DirectionIn
		if rec.Difference.IsNegative() {
			dir = domain.DirectionOut
		}
		adj := newCashTransaction(shiftID, cashierID, domain.CashReconciliationAdjustment, dir,
			rec.Difference.Abs(), fmt.Sprintf("Reconciliation %s", rec.Status()), rec.ReconciliationID, now)
		if err := appendCash(ctx, repos.CashTransactionRepo, adj); err != nil {
			return err
		}

		after, err := domain.CalculateBalance(append(entries, adj))
		if err != nil {
			return err
		}
		result.Adjustment = &adj
		result.BalanceAfter = after.Balance
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, ErrNoActiveShift) {
			logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Shift reconciled",
		slog.String("reconciliation_id", result.Reconciliation.ReconciliationID),
		slog.String("status", string(result.Status)),
		slog.String("difference", result.Reconciliation.Difference.String()))

	if result.Adjustment != nil {
		s.enqueuePosting(ctx, domain.SourceRecon, result.Reconciliation.ReconciliationID)
	}
	s.publishShift(ctx, s.repos, shiftID)
	return result, nil
}

func (s *reconciliationService) ListReconciliations(ctx context.Context, shiftID string) ([]domain.CashReconciliation, error) {
	if _, err := s.repos.ShiftRepo.FindShiftByID(ctx, shiftID); err != nil {
		return nil, err
	}
	recs, err := s.repos.ReconciliationRepo.ListReconciliationsByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domain.CashReconciliation{}
	}
	return recs, nil
}
