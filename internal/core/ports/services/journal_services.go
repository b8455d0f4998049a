package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/dto"
)

// JournalPosterSvc turns business events into balanced journal entries, at most once each.
type JournalPosterSvc interface {
	Post(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.PostResult, error)
	PostSale(ctx context.Context, saleID string) (*domain.PostResult, error)
	PostExpense(ctx context.Context, expenseID string) (*domain.PostResult, error)
	PostShift(ctx context.Context, shiftID string) (*domain.PostResult, error)
	PostReconciliation(ctx context.Context, reconciliationID string) (*domain.PostResult, error)
	PostAll(ctx context.Context, source domain.JournalSource) (*domain.PostAllResult, error)
}

// JournalCorrectionSvc writes offsetting entries. Posted entries are never edited.
type JournalCorrectionSvc interface {
	Reverse(ctx context.Context, journalID string, actorID string) (*domain.JournalEntry, error)
}

// JournalReaderSvc defines read operations for journals
type JournalReaderSvc interface {
	GetJournal(ctx context.Context, journalID string) (*domain.JournalEntry, error)
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalSvcFacade combines all journal service interfaces
type JournalSvcFacade interface {
	JournalPosterSvc
	JournalCorrectionSvc
	JournalReaderSvc
}

// PostingTask is a queued posting with its idempotency key.
type PostingTask struct {
	Source   domain.JournalSource
	SourceID string
}

// PostingEnqueuer accepts posting tasks without blocking the caller.
// It reports false when the task was not accepted; the sweeper picks those up later.
type PostingEnqueuer interface {
	Enqueue(task PostingTask) bool
}
