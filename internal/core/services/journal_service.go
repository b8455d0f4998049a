package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/Africall/sote-minimart/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultJournalPageSize = 20
	postAllBatchSize       = 200
)

var (
	ErrJournalUnbalanced = accounting.ErrJournalUnbalanced
	ErrShiftStillOpen    = fmt.Errorf("%w: shift is still open", apperrors.ErrConflict)
	ErrAlreadyReversed   = fmt.Errorf("%w: journal has already been reversed", apperrors.ErrConflict)
	ErrReverseCorrection = fmt.Errorf("%w: correction entries cannot be reversed", apperrors.ErrConflict)
	ErrUnsupportedSource = fmt.Errorf("%w: source cannot be posted directly", apperrors.ErrValidation)
)

type journalService struct {
	BaseService
	repos   portsrepo.RepositoryProvider
	chart   *chart.Chart
	vatRate decimal.Decimal
}

// NewJournalService creates a new instance of JournalService.
func NewJournalService(repos portsrepo.RepositoryProvider, coa *chart.Chart, vatRate decimal.Decimal, opts ...Option) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(opts),
		repos:       repos,
		chart:       coa,
		vatRate:     vatRate,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// journalDraft is what a source builder produces; nil means nothing to post.
type journalDraft struct {
	date  time.Time
	ref   string
	memo  string
	lines []domain.JournalLine
}

type draftBuilder func(ctx context.Context, sourceID string) (*journalDraft, error)

func (s *journalService) builderFor(source domain.JournalSource) (draftBuilder, error) {
	switch source {
	case domain.SourceSale:
		return s.buildSale, nil
	case domain.SourceExpense:
		return s.buildExpense, nil
	case domain.SourceShift:
		return s.buildShift, nil
	case domain.SourceRecon:
		return s.buildReconciliation, nil
	case domain.SourceAdjust:
		return nil, fmt.Errorf("%w: %s entries are written by reversal", ErrUnsupportedSource, source)
	default:
		return nil, apperrors.NewValidationError("unknown journal source %q", source)
	}
}

func (s *journalService) Post(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.PostResult, error) {
	build, err := s.builderFor(source)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, source, sourceID, build)
}

func (s *journalService) PostSale(ctx context.Context, saleID string) (*domain.PostResult, error) {
	return s.post(ctx, domain.SourceSale, saleID, s.buildSale)
}

func (s *journalService) PostExpense(ctx context.Context, expenseID string) (*domain.PostResult, error) {
	return s.post(ctx, domain.SourceExpense, expenseID, s.buildExpense)
}

func (s *journalService) PostShift(ctx context.Context, shiftID string) (*domain.PostResult, error) {
	return s.post(ctx, domain.SourceShift, shiftID, s.buildShift)
}

func (s *journalService) PostReconciliation(ctx context.Context, reconciliationID string) (*domain.PostResult, error) {
	return s.post(ctx, domain.SourceRecon, reconciliationID, s.buildReconciliation)
}

// post writes at most one journal per (source, sourceID). A journal that already
// exists, whether found up front or by losing the insert race, is reported as
// already_posted and never rewritten.
func (s *journalService) post(ctx context.Context, source domain.JournalSource, sourceID string, build draftBuilder) (*domain.PostResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("source", string(source)), slog.String("source_id", sourceID))
	result := &domain.PostResult{Source: source, SourceID: sourceID}

	existing, err := s.repos.JournalRepo.FindJournalBySource(ctx, source, sourceID)
	if err == nil {
		result.Status = domain.PostAlreadyPosted
		result.JournalID = existing.JournalID
		return result, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing journal: %w", err)
	}

	draft, err := build(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	var lines []domain.JournalLine
	if draft != nil {
		lines = accounting.MergeLines(draft.lines)
	}
	if len(lines) == 0 {
		logger.Debug("Nothing to post")
		result.Status = domain.PostSkipped
		return result, nil
	}
	if err := accounting.ValidateJournalBalance(lines); err != nil {
		logger.Error("Refusing to post invalid journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post %s %s: %w", source, sourceID, err)
	}

	now := time.Now().UTC()
	journal := domain.JournalEntry{
		JournalID: uuid.NewString(),
		Date:      draft.date,
		Ref:       draft.ref,
		Memo:      draft.memo,
		Source:    source,
		SourceID:  sourceID,
		Locked:    true,
		PostedAt:  &now,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: actorFromCtx(ctx),
		},
	}
	for i := range lines {
		lines[i].JournalLineID = uuid.NewString()
		lines[i].JournalID = journal.JournalID
	}

	if err := s.repos.JournalRepo.SaveJournal(ctx, journal, lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			winner, findErr := s.repos.JournalRepo.FindJournalBySource(ctx, source, sourceID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load concurrently posted journal: %w", findErr)
			}
			result.Status = domain.PostAlreadyPosted
			result.JournalID = winner.JournalID
			return result, nil
		}
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID), slog.Int("lines", len(lines)))
	result.Status = domain.PostPosted
	result.JournalID = journal.JournalID
	return result, nil
}

// PostAll posts every unposted event of a source, walking ids in ascending order so
// an event that keeps failing is attempted once per run. One failure does not stop the run.
func (s *journalService) PostAll(ctx context.Context, source domain.JournalSource) (*domain.PostAllResult, error) {
	build, err := s.builderFor(source)
	if err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("source", string(source)))
	summary := &domain.PostAllResult{Source: source}

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		ids, err := s.repos.JournalRepo.ListUnpostedSourceIDs(ctx, source, after, postAllBatchSize)
		if err != nil {
			return summary, fmt.Errorf("failed to list unposted %s events: %w", source, err)
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			res, err := s.post(ctx, source, id, build)
			if err != nil {
				summary.Failed++
				logger.Warn("Posting failed", slog.String("source_id", id), slog.String("error", err.Error()))
				continue
			}
			switch res.Status {
			case domain.PostPosted:
				summary.Posted++
			case domain.PostAlreadyPosted:
				summary.AlreadyPosted++
			case domain.PostSkipped:
				summary.Skipped++
			}
		}
		after = ids[len(ids)-1]
		if len(ids) < postAllBatchSize {
			break
		}
	}

	logger.Info("Posting run finished",
		slog.Int("posted", summary.Posted),
		slog.Int("already_posted", summary.AlreadyPosted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

// buildSale debits each payment component's account and credits revenue net of VAT
// and VAT payable. Items with a known unit cost also move cost of goods out of
// inventory.
func (s *journalService) buildSale(ctx context.Context, saleID string) (*journalDraft, error) {
	detail, err := s.repos.SaleRepo.FindSaleDetail(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sale := detail.Sale
	if sale.PaymentStatus != domain.PaymentCompleted {
		return nil, nil
	}

	var lines []domain.JournalLine
	for _, p := range detail.Payments {
		account, err := s.chart.PaymentAccount(p.Method)
		if err != nil {
			return nil, fmt.Errorf("%w: sale %s: %v", apperrors.ErrValidation, saleID, err)
		}
		lines = append(lines, domain.DebitLine(account, p.Amount, fmt.Sprintf("%s receipt", p.Method)))
	}

	net, tax := accounting.SplitInclusiveTax(sale.TotalAmount, s.vatRate)
	lines = append(lines,
		domain.CreditLine(s.chart.Account(chart.RoleSalesRevenue), net, "Sales"),
		domain.CreditLine(s.chart.Account(chart.RoleVATPayable), tax, "Output VAT"),
	)

	cost := decimal.Zero
	for _, item := range detail.LineItems {
		if item.UnitCost == nil {
			continue
		}
		cost = cost.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if cost.IsPositive() {
		lines = append(lines,
			domain.DebitLine(s.chart.Account(chart.RoleCOGS), cost, "Cost of goods sold"),
			domain.CreditLine(s.chart.Account(chart.RoleInventory), cost, "Cost of goods sold"),
		)
	}

	return &journalDraft{
		date:  sale.CreatedAt,
		ref:   "SALE-" + shortRef(saleID),
		memo:  fmt.Sprintf("Sale by %s (%s)", sale.CashierID, sale.PaymentMethod),
		lines: lines,
	}, nil
}

func (s *journalService) buildExpense(ctx context.Context, expenseID string) (*journalDraft, error) {
	expense, err := s.repos.ExpenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	funding, err := s.chart.FundingAccount(expense.PaidFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: expense %s: %v", apperrors.ErrValidation, expenseID, err)
	}
	memo := expense.Category
	if expense.Description != "" {
		memo = expense.Category + ": " + expense.Description
	}
	return &journalDraft{
		date: expense.CreatedAt,
		ref:  "EXP-" + shortRef(expenseID),
		memo: memo,
		lines: []domain.JournalLine{
			domain.DebitLine(s.chart.ExpenseAccount(expense.Category), expense.Amount, expense.Category),
			domain.CreditLine(funding, expense.Amount, fmt.Sprintf("Paid from %s", expense.PaidFrom)),
		},
	}, nil
}

// buildShift posts the manual cash movements of an ended shift against the owner
// transfer account. Entries written by sales, expenses and counts are posted by
// their own sources and are left out here.
func (s *journalService) buildShift(ctx context.Context, shiftID string) (*journalDraft, error) {
	shift, err := s.repos.ShiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrShiftStillOpen, shiftID)
	}
	entries, err := s.repos.CashTransactionRepo.ListCashTransactionsByShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for shift %s: %w", shiftID, err)
	}

	cash := s.chart.Account(chart.RoleCash)
	transfers := s.chart.Account(chart.RoleCashTransfers)
	var lines []domain.JournalLine
	for _, e := range entries {
		if e.ReferenceID != "" {
			continue
		}
		switch e.Type {
		case domain.CashIn:
			lines = append(lines,
				domain.DebitLine(cash, e.Amount, "Cash in"),
				domain.CreditLine(transfers, e.Amount, "Cash in"))
		case domain.CashOut:
			lines = append(lines,
				domain.DebitLine(transfers, e.Amount, "Cash out"),
				domain.CreditLine(cash, e.Amount, "Cash out"))
		case domain.CashFloat, domain.CashSale, domain.CashChange, domain.CashReconciliationAdjustment:
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &journalDraft{
		date:  *shift.EndTime,
		ref:   "SHIFT-" + shortRef(shiftID),
		memo:  fmt.Sprintf("Cash movements for shift of %s", shift.CashierID),
		lines: lines,
	}, nil
}

func (s *journalService) buildReconciliation(ctx context.Context, reconciliationID string) (*journalDraft, error) {
	rec, err := s.repos.ReconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	cash := s.chart.Account(chart.RoleCash)
	overShort := s.chart.Account(chart.RoleCashOverShort)
	amount := rec.Difference.Abs()

	var lines []domain.JournalLine
	switch rec.Status() {
	case domain.ReconciliationOver:
		lines = []domain.JournalLine{
			domain.DebitLine(cash, amount, "Cash over"),
			domain.CreditLine(overShort, amount, "Cash over"),
		}
	case domain.ReconciliationShort:
		lines = []domain.JournalLine{
			domain.DebitLine(overShort, amount, "Cash short"),
			domain.CreditLine(cash, amount, "Cash short"),
		}
	case domain.ReconciliationBalanced:
		return nil, nil
	}
	return &journalDraft{
		date:  rec.ReconciliationDate,
		ref:   "RECON-" + shortRef(reconciliationID),
		memo:  fmt.Sprintf("Cash count %s by %s", rec.Status(), rec.CashierID),
		lines: lines,
	}, nil
}

// Reverse writes the offsetting ADJUST entry for a posted journal. The original
// stays untouched and can be reversed only once.
func (s *journalService) Reverse(ctx context.Context, journalID string, actorID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("journal_id", journalID), slog.String("actor_id", actorID))

	original, err := s.repos.JournalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Source == domain.SourceAdjust {
		return nil, fmt.Errorf("%w: %s", ErrReverseCorrection, journalID)
	}
	lines, err := s.repos.JournalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	reversed := accounting.ReverseLines(lines)
	if err := accounting.ValidateJournalBalance(reversed); err != nil {
		return nil, fmt.Errorf("failed to reverse journal %s: %w", journalID, err)
	}

	if actorID == "" {
		actorID = actorFromCtx(ctx)
	}
	now := time.Now().UTC()
	reversal := domain.JournalEntry{
		JournalID: uuid.NewString(),
		Date:      now,
		Ref:       "REV-" + original.Ref,
		Memo:      "Reversal of " + original.Ref,
		Source:    domain.SourceAdjust,
		SourceID:  original.JournalID,
		Locked:    true,
		PostedAt:  &now,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: actorID,
		},
	}
	for i := range reversed {
		reversed[i].JournalLineID = uuid.NewString()
		reversed[i].JournalID = reversal.JournalID
	}

	if err := s.repos.JournalRepo.SaveJournal(ctx, reversal, reversed); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, journalID)
		}
		logger.Error("Failed to save reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	logger.Info("Journal reversed", slog.String("reversal_id", reversal.JournalID))
	reversal.Lines = reversed
	return &reversal, nil
}

func (s *journalService) GetJournal(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	journal, err := s.repos.JournalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repos.JournalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	journal.Lines = lines
	return journal, nil
}

func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	journals, next, err := s.repos.JournalRepo.ListJournals(ctx, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListJournalsResponse{
		Journals:  dto.ToJournalResponses(journals),
		NextToken: next,
	}, nil
}

// shortRef keeps the first block of a UUID for human-facing references.
func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
