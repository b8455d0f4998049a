package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal header by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindJournalBySource retrieves the journal posted for a source event.
	FindJournalBySource(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.JournalEntry, error)

	// FindLinesByJournalID retrieves the lines of a journal.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournals retrieves a page of journals, newest first, and the token of the next page.
	ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListUnpostedSourceIDs returns, in ascending order, ids greater than afterID of
	// source events that have something to post and no journal yet.
	ListUnpostedSourceIDs(ctx context.Context, source domain.JournalSource, afterID string, limit int) ([]string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists the header and all lines atomically. A second journal for the
	// same (source, source_id) is rejected with apperrors.ErrDuplicate.
	SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
