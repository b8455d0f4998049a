package repositories

import "context"

// UnitOfWork runs fn against repositories bound to a single store transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos RepositoryProvider) error) error
}
