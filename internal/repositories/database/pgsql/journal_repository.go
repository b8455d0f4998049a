package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/Africall/sote-minimart/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalSelect = `SELECT journal_id::text, journal_date, ref, memo, source, source_id, locked,
	posted_at, created_at, created_by FROM journals`

// SaveJournal saves the header and its lines within a DB transaction. Lines go in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO journals (journal_id, journal_date, ref, memo, source, source_id, locked,
				posted_at, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			journal.JournalID, journal.Date, journal.Ref, journal.Memo, journal.Source, journal.SourceID,
			journal.Locked, journal.PostedAt, journal.CreatedAt, journal.CreatedBy)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: journal for %s %s", apperrors.ErrDuplicate, journal.Source, journal.SourceID)
			}
			return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
		}

		batch := &pgx.Batch{}
		for i, l := range lines {
			batch.Queue(`
				INSERT INTO journal_lines (journal_line_id, journal_id, line_no, account_id, debit, credit, memo)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.JournalLineID, journal.JournalID, i, l.AccountID, l.Debit, l.Credit, l.Memo)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert lines of journal %s: %w", journal.JournalID, err)
		}
		return nil
	})
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal", journalID, journalSelect+` WHERE journal_id = $1`, journalID)
}

func (r *PgxJournalRepository) FindJournalBySource(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal for "+string(source), sourceID,
		journalSelect+` WHERE source = $1 AND source_id = $2`, source, sourceID)
}

func (r *PgxJournalRepository) findOne(ctx context.Context, kind, id, query string, args ...any) (*domain.JournalEntry, error) {
	j, err := scanJournal(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError(kind, id)
		}
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	return j, nil
}

func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT journal_line_id::text, journal_id::text, account_id, debit, credit, memo
		FROM journal_lines WHERE journal_id = $1 ORDER BY line_no`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.JournalLineID, &l.JournalID, &l.AccountID, &l.Debit, &l.Credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListJournals pages newest first with a (created_at, journal_id) cursor.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := journalSelect
	var args []any
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.Decode(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` WHERE (created_at, journal_id) < ($1, $2::uuid)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, journal_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	var journals []domain.JournalEntry
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal: %w", err)
		}
		journals = append(journals, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		token := pagination.Encode(last.CreatedAt, last.JournalID)
		next = &token
	}
	return journals, next, nil
}

// unpostedQueries select, per source, the events that would produce lines and
// have no journal yet. UUID keys are compared as text so the cursor can start at "".
var unpostedQueries = map[domain.JournalSource]string{
	domain.SourceSale: `
		SELECT s.sale_id::text FROM sales s
		WHERE s.payment_status = 'completed' AND s.sale_id::text > $1
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'SALE' AND j.source_id = s.sale_id::text)
		ORDER BY s.sale_id::text LIMIT $2`,
	domain.SourceExpense: `
		SELECT e.expense_id::text FROM expenses e
		WHERE e.expense_id::text > $1
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'EXPENSE' AND j.source_id = e.expense_id::text)
		ORDER BY e.expense_id::text LIMIT $2`,
	domain.SourceShift: `
		SELECT s.shift_id::text FROM shifts s
		WHERE s.end_time IS NOT NULL AND s.shift_id::text > $1
		  AND EXISTS (SELECT 1 FROM cash_transactions c
		              WHERE c.shift_id = s.shift_id AND c.type IN ('cash_in', 'cash_out') AND c.reference_id IS NULL)
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'SHIFT' AND j.source_id = s.shift_id::text)
		ORDER BY s.shift_id::text LIMIT $2`,
	domain.SourceRecon: `
		SELECT r.reconciliation_id::text FROM cash_reconciliations r
		WHERE r.status <> 'balanced' AND r.reconciliation_id::text > $1
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'RECON' AND j.source_id = r.reconciliation_id::text)
		ORDER BY r.reconciliation_id::text LIMIT $2`,
}

func (r *PgxJournalRepository) ListUnpostedSourceIDs(ctx context.Context, source domain.JournalSource, afterID string, limit int) ([]string, error) {
	query, ok := unpostedQueries[source]
	if !ok {
		return nil, apperrors.NewValidationError("source %s has no unposted events", source)
	}
	rows, err := r.q.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unposted %s events: %w", source, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanJournal(row pgx.Row) (*domain.JournalEntry, error) {
	var j domain.JournalEntry
	if err := row.Scan(&j.JournalID, &j.Date, &j.Ref, &j.Memo, &j.Source, &j.SourceID, &j.Locked,
		&j.PostedAt, &j.CreatedAt, &j.CreatedBy); err != nil {
		return nil, err
	}
	return &j, nil
}
