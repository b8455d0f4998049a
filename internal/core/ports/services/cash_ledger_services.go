package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/shopspring/decimal"
)

// CashLedgerWriterSvc appends cash movements to a shift.
type CashLedgerWriterSvc interface {
	Record(ctx context.Context, shiftID, actorID string, txnType domain.CashTransactionType, amount decimal.Decimal, description string) (*domain.CashTransaction, error)
}

// CashLedgerReaderSvc derives the till position from the ledger.
type CashLedgerReaderSvc interface {
	Balance(ctx context.Context, shiftID string) (domain.BalanceSummary, error)
	ListTransactions(ctx context.Context, shiftID string, params dto.ListCashTransactionsParams) (*dto.ListCashTransactionsResponse, error)
}

// CashLedgerSvcFacade combines all cash ledger service interfaces
type CashLedgerSvcFacade interface {
	CashLedgerWriterSvc
	CashLedgerReaderSvc
}
