package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// JournalLineRequest describes one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	TaxLabel  string          `json:"taxLabel"`
}

// CreateJournalEntryRequest is the payload for creating a draft entry with
// explicit lines. Balance is enforced at posting time, not at draft creation.
type CreateJournalEntryRequest struct {
	Reference   string               `json:"reference" binding:"required"`
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// CreateManualEntryRequest is the two-account shorthand: one amount, debited
// from one account and credited to the other.
type CreateManualEntryRequest struct {
	Reference       string          `json:"reference" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Memo            string          `json:"memo"`
}

// PostEntryRequest carries posting options.
type PostEntryRequest struct {
	// Idempotent makes re-posting an already-posted entry return the existing
	// entry instead of a conflict.
	Idempotent bool `json:"idempotent"`
}

// JournalLineResponse is the data returned for an entry line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo,omitempty"`
	TaxLabel    string          `json:"taxLabel,omitempty"`
}

// JournalEntryResponse is the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID      string                `json:"entryID"`
	Reference    string                `json:"reference"`
	Date         time.Time             `json:"date"`
	Description  string                `json:"description"`
	Status       string                `json:"status"`
	SourceType   string                `json:"sourceType"`
	SourceID     string                `json:"sourceID,omitempty"`
	PostedAt     *time.Time            `json:"postedAt,omitempty"`
	PostedBy     string                `json:"postedBy,omitempty"`
	TotalDebits  decimal.Decimal       `json:"totalDebits"`
	TotalCredits decimal.Decimal       `json:"totalCredits"`
	Lines        []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// ListEntriesParams holds query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit            int  `form:"limit"`
	Offset           int  `form:"offset"`
	IncludeReversals bool `form:"includeReversals"`
}

// ToJournalLineResponse converts a domain line.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		AccountCode: l.AccountCode,
		AccountName: l.AccountName,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Memo:        l.Memo,
		TaxLabel:    l.TaxLabel,
	}
}

// ToJournalEntryResponse converts a domain entry, including its lines when loaded.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:      e.EntryID,
		Reference:    e.Reference,
		Date:         e.EntryDate,
		Description:  e.Description,
		Status:       string(e.Status),
		SourceType:   string(e.SourceType),
		SourceID:     e.SourceID,
		PostedAt:     e.PostedAt,
		PostedBy:     e.PostedBy,
		TotalDebits:  e.TotalDebits(),
		TotalCredits: e.TotalCredits(),
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}
