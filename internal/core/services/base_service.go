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
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors shared by the till services.
var (
	ErrShiftAlreadyActive  = fmt.Errorf("%w: cashier already has an active shift", apperrors.ErrConflict)
	ErrNoActiveShift       = fmt.Errorf("%w: no active shift", apperrors.ErrConflict)
	ErrInvalidAmount       = fmt.Errorf("%w: invalid amount", apperrors.ErrValidation)
	ErrEmptyCart           = fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	ErrSplitMismatch       = fmt.Errorf("%w: split components do not add up to the sale total", apperrors.ErrValidation)
	ErrInsufficientPayment = fmt.Errorf("%w: cash received is less than the cash due", apperrors.ErrValidation)
	ErrInsufficientStock   = fmt.Errorf("%w: insufficient stock", apperrors.ErrConflict)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid cashier ID or PIN", apperrors.ErrUnauthorized)
)

// moneyScale is the number of decimal places the stores keep for an amount.
const moneyScale = 2

// checkMoney rejects negative amounts and amounts finer than the stores keep.
// Zero passes; callers that need a positive amount check that themselves.
func checkMoney(what string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, what)
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, what, moneyScale)
	}
	return nil
}

// checkPositiveMoney is checkMoney for amounts that must also be nonzero.
func checkPositiveMoney(what string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, what)
	}
	return checkMoney(what, amount)
}

// BaseService provides common functionality for all services
type BaseService struct {
	Poster portssvc.PostingEnqueuer
	Events portssvc.ShiftEventPublisher
}

// Option wires optional collaborators into a service.
type Option func(*BaseService)

// WithPostingQueue makes the service hand new source events to the journal posting queue.
func WithPostingQueue(q portssvc.PostingEnqueuer) Option {
	return func(b *BaseService) { b.Poster = q }
}

// WithEventPublisher makes the service push shift snapshots after ledger changes.
func WithEventPublisher(p portssvc.ShiftEventPublisher) Option {
	return func(b *BaseService) { b.Events = p }
}

func newBaseService(opts []Option) BaseService {
	var b BaseService
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger returns the request-scoped logger from the context.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with context.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, slog.String("error", err.Error()))
	s.GetLogger(ctx).Error(msg, attrs...)
}

// LogInfo logs an info message with context.
func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.GetLogger(ctx).Info(msg, attrs...)
}

// enqueuePosting hands a source event to the posting queue. A full queue is not an
// error; the sweeper posts whatever the queue dropped.
func (s *BaseService) enqueuePosting(ctx context.Context, source domain.JournalSource, sourceID string) {
	if s.Poster == nil {
		return
	}
	if !s.Poster.Enqueue(portssvc.PostingTask{Source: source, SourceID: sourceID}) {
		s.GetLogger(ctx).Warn("Posting queue full, leaving event for the sweeper",
			slog.String("source", string(source)), slog.String("source_id", sourceID))
	}
}

// publishShift recomputes the shift's balance and pushes it to subscribers.
// It returns the summary it published, or nil when nothing was published.
func (s *BaseService) publishShift(ctx context.Context, repos portsrepo.RepositoryProvider, shiftID string) *domain.BalanceSummary {
	if s.Events == nil {
		return nil
	}
	shift, err := repos.ShiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load shift for event", slog.String("shift_id", shiftID))
		return nil
	}
	entries, err := repos.CashTransactionRepo.ListCashTransactionsByShift(ctx, shiftID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for event", slog.String("shift_id", shiftID))
		return nil
	}
	summary, err := domain.CalculateBalance(entries)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance for event", slog.String("shift_id", shiftID))
		return nil
	}
	status := domain.ShiftActive
	if !shift.IsActive() {
		status = domain.ShiftEnded
	}
	s.Events.Publish(domain.ShiftEvent{
		ShiftID: shiftID,
		Seq:     summary.EntryCount,
		Status:  status,
		Summary: summary,
		At:      time.Now().UTC(),
	})
	return &summary
}

// newLedgerID returns a time-ordered ID so ledger rows written in the same
// instant still sort in insertion order.
func newLedgerID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func newCashTransaction(shiftID, cashierID string, t domain.CashTransactionType, dir domain.CashDirection, amount decimal.Decimal, description, referenceID string, at time.Time) domain.CashTransaction {
	return domain.CashTransaction{
		CashTransactionID: newLedgerID(),
		ShiftID:           shiftID,
		CashierID:         cashierID,
		Type:              t,
		Direction:         dir,
		Amount:            amount,
		Description:       description,
		ReferenceID:       referenceID,
		CreatedAt:         at,
	}
}

// appendCash writes a ledger entry and maps a closed shift to ErrNoActiveShift.
func appendCash(ctx context.Context, repo portsrepo.CashTransactionRepositoryFacade, txn domain.CashTransaction) error {
	if err := repo.AppendCashTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: shift %s", ErrNoActiveShift, txn.ShiftID)
		}
		return fmt.Errorf("failed to append %s entry: %w", txn.Type, err)
	}
	return nil
}

// actorFromCtx returns the authenticated cashier, or the system actor for background work.
func actorFromCtx(ctx context.Context) string {
	if id, ok := middleware.UserIDFromCtx(ctx); ok && id != "" {
		return id
	}
	return domain.SystemActor
}
