package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/Africall/sote-minimart/internal/utils/pagination"
)

type journalRepository struct {
	q dbtx
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

const journalColumns = `journal_id, journal_date, ref, memo, source, source_id, locked, posted_at, created_at, created_by`

// SaveJournal writes the header and its lines in one transaction.
func (r *journalRepository) SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	return inTx(ctx, r.q, func(tx dbtx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO journals (`+journalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			journal.JournalID, formatTime(journal.Date), journal.Ref, journal.Memo, journal.Source,
			journal.SourceID, journal.Locked, formatNullTime(journal.PostedAt),
			formatTime(journal.CreatedAt), journal.CreatedBy)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: journal for %s %s", apperrors.ErrDuplicate, journal.Source, journal.SourceID)
			}
			return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
		}
		for i, l := range lines {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO journal_lines (journal_line_id, journal_id, line_no, account_id, debit, credit, memo)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				l.JournalLineID, journal.JournalID, i, l.AccountID, l.Debit, l.Credit, l.Memo)
			if err != nil {
				return fmt.Errorf("failed to insert line %d of journal %s: %w", i, journal.JournalID, err)
			}
		}
		return nil
	})
}

func (r *journalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal", journalID,
		`SELECT `+journalColumns+` FROM journals WHERE journal_id = ?`, journalID)
}

func (r *journalRepository) FindJournalBySource(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal for "+string(source), sourceID,
		`SELECT `+journalColumns+` FROM journals WHERE source = ? AND source_id = ?`, source, sourceID)
}

func (r *journalRepository) findOne(ctx context.Context, kind, id, query string, args ...any) (*domain.JournalEntry, error) {
	j, err := scanJournal(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(kind, id)
		}
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	return j, nil
}

func (r *journalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT journal_line_id, journal_id, account_id, debit, credit, memo
		FROM journal_lines WHERE journal_id = ? ORDER BY line_no`, journalID)
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
func (r *journalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journals`
	var args []any
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.Decode(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		before := formatTime(cursor.At)
		query += ` WHERE created_at < ? OR (created_at = ? AND journal_id < ?)`
		args = append(args, before, before, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, journal_id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.q.QueryContext(ctx, query, args...)
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
// have no journal yet.
var unpostedQueries = map[domain.JournalSource]string{
	domain.SourceSale: `
		SELECT s.sale_id FROM sales s
		WHERE s.payment_status = 'completed' AND s.sale_id > ?
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'SALE' AND j.source_id = s.sale_id)
		ORDER BY s.sale_id LIMIT ?`,
	domain.SourceExpense: `
		SELECT e.expense_id FROM expenses e
		WHERE e.expense_id > ?
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'EXPENSE' AND j.source_id = e.expense_id)
		ORDER BY e.expense_id LIMIT ?`,
	domain.SourceShift: `
		SELECT s.shift_id FROM shifts s
		WHERE s.end_time IS NOT NULL AND s.shift_id > ?
		  AND EXISTS (SELECT 1 FROM cash_transactions c
		              WHERE c.shift_id = s.shift_id AND c.type IN ('cash_in', 'cash_out') AND c.reference_id IS NULL)
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'SHIFT' AND j.source_id = s.shift_id)
		ORDER BY s.shift_id LIMIT ?`,
	domain.SourceRecon: `
		SELECT r.reconciliation_id FROM cash_reconciliations r
		WHERE r.status <> 'balanced' AND r.reconciliation_id > ?
		  AND NOT EXISTS (SELECT 1 FROM journals j WHERE j.source = 'RECON' AND j.source_id = r.reconciliation_id)
		ORDER BY r.reconciliation_id LIMIT ?`,
}

func (r *journalRepository) ListUnpostedSourceIDs(ctx context.Context, source domain.JournalSource, afterID string, limit int) ([]string, error) {
	query, ok := unpostedQueries[source]
	if !ok {
		return nil, apperrors.NewValidationError("source %s has no unposted events", source)
	}
	rows, err := r.q.QueryContext(ctx, query, afterID, limit)
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

func scanJournal(row rowScanner) (*domain.JournalEntry, error) {
	var (
		j               domain.JournalEntry
		date, createdAt string
		postedAt        sql.NullString
	)
	if err := row.Scan(&j.JournalID, &date, &j.Ref, &j.Memo, &j.Source, &j.SourceID, &j.Locked,
		&postedAt, &createdAt, &j.CreatedBy); err != nil {
		return nil, err
	}
	var err error
	if j.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if j.PostedAt, err = parseNullTime(postedAt); err != nil {
		return nil, err
	}
	if j.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &j, nil
}
