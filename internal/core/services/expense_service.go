package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/google/uuid"
)

type expenseService struct {
	BaseService
	repos portsrepo.RepositoryProvider
	uow   portsrepo.UnitOfWork
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(repos portsrepo.RepositoryProvider, uow portsrepo.UnitOfWork, opts ...Option) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService: newBaseService(opts),
		repos:       repos,
		uow:         uow,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// RecordExpense stores an expense. Cash expenses also leave the drawer, so they need
// an open shift and write a cash_out entry in the same transaction.
func (s *expenseService) RecordExpense(ctx context.Context, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error) {
	logger := s.GetLogger(ctx).With(slog.String("actor_id", actorID))

	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	if err := checkPositiveMoney("amount", *req.Amount); err != nil {
		return nil, err
	}
	if !req.PaidFrom.IsValid() {
		return nil, apperrors.NewValidationError("unknown funding source %q", req.PaidFrom)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperrors.NewValidationError("category is required")
	}

	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		ShiftID:     req.ShiftID,
		Amount:      *req.Amount,
		Category:    category,
		PaidFrom:    req.PaidFrom,
		Description: strings.TrimSpace(req.Description),
		AuditFields: domain.AuditFields{CreatedAt: time.Now().UTC(), CreatedBy: actorID},
	}

	fromDrawer := expense.PaidFrom == domain.FundedByCash
	if fromDrawer && expense.ShiftID == "" {
		shift, err := s.repos.ShiftRepo.FindActiveShiftByCashier(ctx, actorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: cash expenses need an open shift", ErrNoActiveShift)
			}
			return nil, err
		}
		expense.ShiftID = shift.ShiftID
	}

	err := s.uow.WithinTx(ctx, func(repos portsrepo.RepositoryProvider) error {
		if err := repos.ExpenseRepo.SaveExpense(ctx, expense); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		if !fromDrawer {
			return nil
		}
		out := newCashTransaction(expense.ShiftID, actorID, domain.CashOut, domain.DirectionOut,
			expense.Amount, "Expense: "+expense.Category, expense.ExpenseID, expense.CreatedAt)
		return appendCash(ctx, repos.CashTransactionRepo, out)
	})
	if err != nil {
		logger.Warn("Expense not recorded", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("amount", expense.Amount.String()),
		slog.String("paid_from", string(expense.PaidFrom)))

	s.enqueuePosting(ctx, domain.SourceExpense, expense.ExpenseID)
	if fromDrawer {
		s.publishShift(ctx, s.repos, expense.ShiftID)
	}
	return &expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.repos.ExpenseRepo.FindExpenseByID(ctx, expenseID)
}
