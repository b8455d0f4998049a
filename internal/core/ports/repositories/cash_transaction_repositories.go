package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// CashTransactionReader defines read operations for the cash ledger
type CashTransactionReader interface {
	// ListCashTransactionsByShift returns every entry of the shift ordered by creation time.
	ListCashTransactionsByShift(ctx context.Context, shiftID string) ([]domain.CashTransaction, error)

	// ListCashTransactionsPage returns one page of the shift's entries and the token of the next page.
	ListCashTransactionsPage(ctx context.Context, shiftID string, limit int, nextToken *string) ([]domain.CashTransaction, *string, error)
}

// CashTransactionWriter appends to the cash ledger. There is no update or delete.
type CashTransactionWriter interface {
	// AppendCashTransaction inserts the entry only while its shift is open; the check
	// and the insert are one statement. Returns apperrors.ErrConflict when the shift
	// is not active.
	AppendCashTransaction(ctx context.Context, txn domain.CashTransaction) error
}

// CashTransactionRepositoryFacade combines all cash ledger repository interfaces
type CashTransactionRepositoryFacade interface {
	CashTransactionReader
	CashTransactionWriter
}
