package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// AccountRepositoryFacade manages the chart of accounts in the store.
type AccountRepositoryFacade interface {
	// UpsertAccounts inserts the accounts or refreshes their name and type.
	UpsertAccounts(ctx context.Context, accounts []domain.Account) error

	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}
