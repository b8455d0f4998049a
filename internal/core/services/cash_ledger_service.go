package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/shopspring/decimal"
)

const defaultLedgerPageSize = 50

type cashLedgerService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewCashLedgerService creates a new instance of CashLedgerService.
func NewCashLedgerService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.CashLedgerSvcFacade {
	return &cashLedgerService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.CashLedgerSvcFacade = (*cashLedgerService)(nil)

// Record appends a movement with the fixed direction of its type. Reconciliation
// adjustments carry their direction from the count and are written by Reconcile only.
func (s *cashLedgerService) Record(ctx context.Context, shiftID, actorID string, txnType domain.CashTransactionType, amount decimal.Decimal, description string) (*domain.CashTransaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("shift_id", shiftID), slog.String("type", string(txnType)))

	if err := checkPositiveMoney("amount", amount); err != nil {
		return nil, err
	}
	if txnType == domain.CashReconciliationAdjustment {
		return nil, apperrors.NewValidationError("%s entries are written by reconciliation", txnType)
	}
	dir, err := domain.DirectionFor(txnType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = strings.ReplaceAll(string(txnType), "_", " ")
	}

	txn := newCashTransaction(shiftID, actorID, txnType, dir, amount, description, "", time.Now().UTC())
	if err := appendCash(ctx, s.repos.CashTransactionRepo, txn); err != nil {
		logger.Warn("Cash entry rejected", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Cash entry recorded", slog.String("cash_transaction_id", txn.CashTransactionID), slog.String("amount", amount.String()))
	s.publishShift(ctx, s.repos, shiftID)
	return &txn, nil
}

// Balance derives the till position from the shift's ledger. Nothing is cached.
func (s *cashLedgerService) Balance(ctx context.Context, shiftID string) (domain.BalanceSummary, error) {
	if _, err := s.repos.ShiftRepo.FindShiftByID(ctx, shiftID); err != nil {
		return domain.BalanceSummary{}, err
	}
	entries, err := s.repos.CashTransactionRepo.ListCashTransactionsByShift(ctx, shiftID)
	if err != nil {
		return domain.BalanceSummary{}, fmt.Errorf("failed to load ledger for shift %s: %w", shiftID, err)
	}
	summary, err := domain.CalculateBalance(entries)
	if err != nil {
		s.LogError(ctx, err, "Ledger holds an invalid entry", slog.String("shift_id", shiftID))
		return domain.BalanceSummary{}, err
	}
	return summary, nil
}

func (s *cashLedgerService) ListTransactions(ctx context.Context, shiftID string, params dto.ListCashTransactionsParams) (*dto.ListCashTransactionsResponse, error) {
	if _, err := s.repos.ShiftRepo.FindShiftByID(ctx, shiftID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	txns, next, err := s.repos.CashTransactionRepo.ListCashTransactionsPage(ctx, shiftID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []domain.CashTransaction{}
	}
	return &dto.ListCashTransactionsResponse{Transactions: txns, NextToken: next}, nil
}
