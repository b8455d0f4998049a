package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalSource names the business event a journal entry was posted from.
type JournalSource string

const (
	SourceSale    JournalSource = "SALE"
	SourceExpense JournalSource = "EXPENSE"
	SourceShift   JournalSource = "SHIFT"
	SourceAdjust  JournalSource = "ADJUST"
	SourceRecon   JournalSource = "RECON"
)

// IsValid reports whether s is a known journal source.
func (s JournalSource) IsValid() bool {
	switch s {
	case SourceSale, SourceExpense, SourceShift, SourceAdjust, SourceRecon:
		return true
	default:
		return false
	}
}

// JournalEntry is the header of a balanced double-entry posting.
// (Source, SourceID) is unique; a posted entry is locked and never edited.
type JournalEntry struct {
	JournalID string        `json:"journalID"`
	Date      time.Time     `json:"date"`
	Ref       string        `json:"ref"`
	Memo      string        `json:"memo"`
	Source    JournalSource `json:"source"`
	SourceID  string        `json:"sourceID"`
	Locked    bool          `json:"locked"`
	PostedAt  *time.Time    `json:"postedAt,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine debits or credits one account. Exactly one side is nonzero.
type JournalLine struct {
	JournalLineID string          `json:"journalLineID"`
	JournalID     string          `json:"journalID"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Memo          string          `json:"memo,omitempty"`
}

// DebitLine builds a debit line for account.
func DebitLine(account string, amount decimal.Decimal, memo string) JournalLine {
	return JournalLine{AccountID: account, Debit: amount, Credit: decimal.Zero, Memo: memo}
}

// CreditLine builds a credit line for account.
func CreditLine(account string, amount decimal.Decimal, memo string) JournalLine {
	return JournalLine{AccountID: account, Debit: decimal.Zero, Credit: amount, Memo: memo}
}

// PostStatus is the outcome of posting one source event.
type PostStatus string

const (
	PostPosted        PostStatus = "posted"
	PostAlreadyPosted PostStatus = "already_posted"
	PostSkipped       PostStatus = "skipped"
)

// PostResult reports a single posting attempt.
type PostResult struct {
	Source    JournalSource `json:"source"`
	SourceID  string        `json:"sourceID"`
	Status    PostStatus    `json:"status"`
	JournalID string        `json:"journalID,omitempty"`
}

// PostAllResult counts the outcomes of a batch posting run.
type PostAllResult struct {
	Source        JournalSource `json:"source"`
	Posted        int           `json:"posted"`
	AlreadyPosted int           `json:"alreadyPosted"`
	Skipped       int           `json:"skipped"`
	Failed        int           `json:"failed"`
}
