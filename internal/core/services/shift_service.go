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

type shiftService struct {
	BaseService
	repos portsrepo.RepositoryProvider
	uow   portsrepo.UnitOfWork
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(repos portsrepo.RepositoryProvider, uow portsrepo.UnitOfWork, opts ...Option) portssvc.ShiftSvcFacade {
	return &shiftService{
		BaseService: newBaseService(opts),
		repos:       repos,
		uow:         uow,
	}
}

var _ portssvc.ShiftSvcFacade = (*shiftService)(nil)

func (s *shiftService) GetShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	return s.repos.ShiftRepo.FindShiftByID(ctx, shiftID)
}

func (s *shiftService) GetActiveShift(ctx context.Context, cashierID string) (*domain.Shift, error) {
	shift, err := s.repos.ShiftRepo.FindActiveShiftByCashier(ctx, cashierID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: cashier %s", ErrNoActiveShift, cashierID)
	}
	return shift, err
}

// StartShift opens a shift and records a nonzero float as its first ledger entry.
// The store's unique index on open shifts decides concurrent starts for one cashier.
func (s *shiftService) StartShift(ctx context.Context, cashierID string, floatAmount decimal.Decimal) (*domain.Shift, error) {
	logger := s.GetLogger(ctx).With(slog.String("cashier_id", cashierID))

	if cashierID == "" {
		return nil, apperrors.NewValidationError("cashier ID is required")
	}
	if err := checkMoney("float", floatAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	shift := domain.Shift{
		ShiftID:     uuid.NewString(),
		CashierID:   cashierID,
		StartTime:   now,
		FloatAmount: floatAmount,
		Status:      domain.ShiftActive,
	}

	err := s.uow.WithinTx(ctx, func(repos portsrepo.RepositoryProvider) error {
		if err := repos.ShiftRepo.CreateShift(ctx, shift); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return fmt.Errorf("%w: cashier %s", ErrShiftAlreadyActive, cashierID)
			}
			return fmt.Errorf("failed to create shift: %w", err)
		}
		if !floatAmount.IsPositive() {
			return nil
		}
		float := newCashTransaction(shift.ShiftID, cashierID, domain.CashFloat, domain.DirectionIn,
			floatAmount, "Opening float", "", now)
		return appendCash(ctx, repos.CashTransactionRepo, float)
	})
	if err != nil {
		if !errors.Is(err, ErrShiftAlreadyActive) {
			logger.Error("Failed to start shift", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Shift started", slog.String("shift_id", shift.ShiftID), slog.String("float", floatAmount.String()))
	s.publishShift(ctx, s.repos, shift.ShiftID)
	return &shift, nil
}

// EndShift closes an open shift and queues its manual cash movements for posting.
func (s *shiftService) EndShift(ctx context.Context, shiftID string, actorID string) (*domain.Shift, error) {
	logger := s.GetLogger(ctx).With(slog.String("shift_id", shiftID), slog.String("actor_id", actorID))

	shift, err := s.repos.ShiftRepo.EndShift(ctx, shiftID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: shift %s has already ended", ErrNoActiveShift, shiftID)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to end shift", slog.String("error", err.Error()))
		}
		return nil, err
	}
	shift.Status = domain.ShiftEnded

	logger.Info("Shift ended")
	s.enqueuePosting(ctx, domain.SourceShift, shiftID)
	s.publishShift(ctx, s.repos, shiftID)
	return shift, nil
}
