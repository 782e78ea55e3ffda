package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// SourceType identifies the kind of document a journal entry was derived from.
type SourceType string

const (
	SourceManual  SourceType = "MANUAL"
	SourceInvoice SourceType = "INVOICE"
	SourceExpense SourceType = "EXPENSE"
)

// JournalLine is a single line within a journal entry, affecting one account.
// AccountCode and AccountName are denormalized at line creation so historical
// entries display correctly after an account rename.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry.entryID
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`  // >= 0
	Credit      decimal.Decimal `json:"credit"` // >= 0
	Memo        string          `json:"memo"`
	TaxLabel    string          `json:"taxLabel"`
	AuditFields
}

// NetAmount is the line's raw net effect, debit minus credit. How that moves an
// account balance depends on the account's normal balance side.
func (l JournalLine) NetAmount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// JournalEntry represents a single, balanced financial event composed of lines.
// Once posted it is immutable; the only further transition is a reversal.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`   // Primary Key (UUID)
	TenantID         string        `json:"tenantID"`  // Scope
	Reference        string        `json:"reference"` // Unique human-readable reference
	EntryDate        time.Time     `json:"entryDate"` // Date the event occurred
	Description      string        `json:"description"`
	Status           EntryStatus   `json:"status"`
	SourceType       SourceType    `json:"sourceType"`
	SourceID         string        `json:"sourceID"` // Weak back-reference to the originating document, may be empty
	PostedAt         *time.Time    `json:"postedAt,omitempty"` // Set once, on posting
	PostedBy         string        `json:"postedBy,omitempty"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on the reversing entry
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on the reversed entry
	Lines            []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebits sums the debit side of all lines.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of all lines.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits to two decimal places.
// Comparison happens on rounded decimals, never on floats.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Round(2).Equal(e.TotalCredits().Round(2))
}

// CanPost reports whether the entry is eligible for the draft -> posted transition.
func (e *JournalEntry) CanPost() bool {
	return e.Status == Draft && len(e.Lines) >= 2
}
