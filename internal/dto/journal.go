package dto

import (
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID string                `json:"journalID"`
	Date      time.Time             `json:"date"`
	Ref       string                `json:"ref"`
	Memo      string                `json:"memo"`
	Source    domain.JournalSource  `json:"source"`
	SourceID  string                `json:"sourceID"`
	Locked    bool                  `json:"locked"`
	PostedAt  *time.Time            `json:"postedAt,omitempty"`
	CreatedBy string                `json:"createdBy"`
	Lines     []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalsParams holds the query parameters for listing journals.
type ListJournalsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListJournalsResponse is one page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// PostAllRequest selects the source to sweep.
type PostAllRequest struct {
	Source domain.JournalSource `json:"source" binding:"required,oneof=SALE EXPENSE SHIFT RECON"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	resp := JournalResponse{
		JournalID: j.JournalID,
		Date:      j.Date,
		Ref:       j.Ref,
		Memo:      j.Memo,
		Source:    j.Source,
		SourceID:  j.SourceID,
		Locked:    j.Locked,
		PostedAt:  j.PostedAt,
		CreatedBy: j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, l := range j.Lines {
			resp.Lines[i] = JournalLineResponse{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit, Memo: l.Memo}
		}
	}
	return resp
}

// ToJournalResponses converts a slice of domain.JournalEntry to []JournalResponse.
func ToJournalResponses(journals []domain.JournalEntry) []JournalResponse {
	responses := make([]JournalResponse, len(journals))
	for i := range journals {
		responses[i] = ToJournalResponse(&journals[i])
	}
	return responses
}
