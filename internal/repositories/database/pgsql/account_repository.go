package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// UpsertAccounts sends the whole chart as one batch inside a transaction.
func (r *PgxAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range accounts {
			batch.Queue(`
				INSERT INTO accounts (code, name, account_type) VALUES ($1, $2, $3)
				ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, account_type = EXCLUDED.account_type`,
				a.Code, a.Name, a.AccountType)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to upsert accounts: %w", err)
		}
		return nil
	})
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.Query(ctx, `SELECT code, name, account_type FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Code, &a.Name, &a.AccountType); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
