package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Africall/sote-minimart/internal/apperrors"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation = "23505"
	pgInvalidTextRepr = "22P02"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx. Begin on a transaction opens a savepoint.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	q querier
}

// Begin starts a new database transaction, or a savepoint when already inside one.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "failed to begin transaction",
			fmt.Errorf("%w: %w", apperrors.ErrUnavailable, err))
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn inside a transaction and commits when it returns nil.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// Store is the Postgres implementation of the repository ports.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// Repositories returns repositories that run each statement on the pool.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newRepositoryProvider(s.Pool)
}

// WithinTx runs fn against repositories bound to one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repos portsrepo.RepositoryProvider) error) error {
	base := BaseRepository{q: s.Pool}
	return base.inTx(ctx, func(tx pgx.Tx) error {
		return fn(newRepositoryProvider(tx))
	})
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isNoRow also treats a malformed UUID key as a missing row.
func isNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidTextRepr
}
