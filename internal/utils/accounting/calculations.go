package accounting

import (
	"errors"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrJournalMinLines    = fmt.Errorf("%w: journal must have at least two lines", apperrors.ErrValidation)
	ErrInvalidJournalLine = fmt.Errorf("%w: journal line must carry exactly one positive side", apperrors.ErrValidation)
	ErrJournalUnbalanced  = errors.New("journal debits and credits do not balance")
)

// Totals sums the debit and credit sides of the lines.
func Totals(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateJournalBalance checks the balanced-entry invariant before anything is persisted:
// at least two lines, one positive side per line, and Σdebit == Σcredit.
func ValidateJournalBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrJournalMinLines
	}

	for i, l := range lines {
		if l.AccountID == "" {
			return fmt.Errorf("%w: line %d has no account", ErrInvalidJournalLine, i)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d on %s is negative", ErrInvalidJournalLine, i, l.AccountID)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return fmt.Errorf("%w: line %d on %s has debit %s and credit %s", ErrInvalidJournalLine, i, l.AccountID, l.Debit, l.Credit)
		}
	}

	debit, credit := Totals(lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s, credit %s", ErrJournalUnbalanced, debit.String(), credit.String())
	}
	return nil
}

// SplitInclusiveTax splits a tax-inclusive gross amount into net and tax.
// Tax is rounded to cents and net takes the remainder, so net + tax == gross exactly.
func SplitInclusiveTax(gross, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !rate.IsPositive() {
		return gross, decimal.Zero
	}
	tax := gross.Mul(rate).Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	return gross.Sub(tax), tax
}

// ReverseLines swaps the sides of every line, producing an offsetting entry.
func ReverseLines(lines []domain.JournalLine) []domain.JournalLine {
	reversed := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		reversed[i] = domain.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			Memo:      l.Memo,
		}
	}
	return reversed
}

// MergeLines collapses lines on the same account and side, dropping zero amounts.
// The first occurrence of each account keeps its position.
func MergeLines(lines []domain.JournalLine) []domain.JournalLine {
	type key struct {
		account string
		debit   bool
	}
	index := make(map[key]int)
	merged := make([]domain.JournalLine, 0, len(lines))
	for _, l := range lines {
		if l.Debit.IsZero() && l.Credit.IsZero() {
			continue
		}
		k := key{account: l.AccountID, debit: l.Debit.IsPositive()}
		if i, ok := index[k]; ok {
			merged[i].Debit = merged[i].Debit.Add(l.Debit)
			merged[i].Credit = merged[i].Credit.Add(l.Credit)
			continue
		}
		index[k] = len(merged)
		merged = append(merged, l)
	}
	return merged
}
