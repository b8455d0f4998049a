// Package sqlite is a single-file store for one till. It implements the same
// repository ports as the Postgres store and keeps the same guarantees: one open
// shift per cashier, cash entries only on open shifts, stock never below zero and
// one journal per source event.
//
// SQLite allows one writer at a time, so the store uses a single connection. Every
// statement and transaction is serialised through it.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// timeLayout is fixed width so TEXT comparison orders by time.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a SQLite-backed implementation of the repository ports.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and applies the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories returns repositories that run each statement on its own.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newProvider(s.db)
}

// WithinTx runs fn against repositories bound to one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repos portsrepo.RepositoryProvider) error) error {
	return inTx(ctx, s.db, func(tx dbtx) error {
		return fn(newProvider(tx))
	})
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

func newProvider(q dbtx) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:         &accountRepository{q: q},
		CashierRepo:         &cashierRepository{q: q},
		ShiftRepo:           &shiftRepository{q: q},
		CashTransactionRepo: &cashTransactionRepository{q: q},
		ReconciliationRepo:  &reconciliationRepository{q: q},
		SaleRepo:            &saleRepository{q: q},
		StockRepo:           &stockRepository{q: q},
		ExpenseRepo:         &expenseRepository{q: q},
		InvoiceRepo:         &invoiceRepository{q: q},
		JournalRepo:         &journalRepository{q: q},
	}
}

// inTx runs fn in a transaction. When q already is a transaction, fn joins it.
func inTx(ctx context.Context, q dbtx, fn func(tx dbtx) error) error {
	switch conn := q.(type) {
	case *sql.Tx:
		return fn(conn)
	case *sql.DB:
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return apperrors.NewAppError(http.StatusServiceUnavailable, "failed to begin transaction",
				fmt.Errorf("%w: %w", apperrors.ErrUnavailable, err))
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return apperrors.NewAppError(500, "failed to commit transaction", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported connection type %T", q)
	}
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored time %q: %w", s, err)
	}
	return t, nil
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
