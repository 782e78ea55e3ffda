package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the persistence shape of an entry header.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	TenantID         string      `db:"tenant_id"`
	Reference        string      `db:"reference"` // Unique per tenant
	EntryDate        time.Time   `db:"entry_date"`
	Description      string      `db:"description"`
	Status           EntryStatus `db:"status"`
	SourceType       string      `db:"source_type"`
	SourceID         string      `db:"source_id"`
	PostedAt         *time.Time  `db:"posted_at"`
	PostedBy         string      `db:"posted_by"`
	OriginalEntryID  *string     `db:"original_entry_id"`
	ReversingEntryID *string     `db:"reversing_entry_id"`
	AuditFields
}

// JournalLine is the persistence shape of a single entry line.
// account_code and account_name are denormalized at line creation.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	AccountName string          `db:"account_name"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Memo        string          `db:"memo"`
	TaxLabel    string          `db:"tax_label"`
	AuditFields
}
