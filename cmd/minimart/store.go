package main

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/Africall/sote-minimart/internal/platform/config"
	"github.com/Africall/sote-minimart/internal/repositories/database/pgsql"
	"github.com/Africall/sote-minimart/internal/repositories/database/sqlite"
	"github.com/Africall/sote-minimart/pkg/database"
)

// backend is an opened store behind the repository ports.
type backend struct {
	repos portsrepo.RepositoryProvider
	uow   portsrepo.UnitOfWork
	close func()
}

// openBackend opens the store selected by STORE_DRIVER. Postgres is migrated first.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQLite store", slog.String("path", cfg.SQLitePath))
		return &backend{
			repos: store.Repositories(),
			uow:   store,
			close: func() {
				if err := store.Close(); err != nil {
					logger.Error("Error closing SQLite store", slog.String("error", err.Error()))
				}
			},
		}, nil
	default:
		if err := runMigrations(cfg.DatabaseURL, logger, false); err != nil {
			return nil, err
		}
		pool, err := database.OpenPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			ConnectAttempts: cfg.DBConnectAttempts,
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}
		store := pgsql.NewStore(pool)
		return &backend{
			repos: store.Repositories(),
			uow:   store,
			close: func() { database.ClosePool(pool, logger) },
		}, nil
	}
}

// loadChart reads the chart of accounts and makes sure every account exists in the store.
func loadChart(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider) (*chart.Chart, error) {
	coa, err := chart.Load(cfg.ChartOfAccountsFile)
	if err != nil {
		return nil, err
	}
	if err := repos.AccountRepo.UpsertAccounts(ctx, coa.Accounts); err != nil {
		return nil, fmt.Errorf("failed to store chart of accounts: %w", err)
	}
	return coa, nil
}
