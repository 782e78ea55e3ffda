package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle of a source document. It is independent of
// EntryStatus but synchronized at posting time.
type DocumentStatus string

const (
	DocDraft     DocumentStatus = "DRAFT"
	DocSubmitted DocumentStatus = "SUBMITTED"
	DocApproved  DocumentStatus = "APPROVED"
	DocPosted    DocumentStatus = "POSTED"
	DocRejected  DocumentStatus = "REJECTED"
)

// Invoice is a sales document that originates an accounts-receivable posting.
// JournalEntryID is a lookup key, not an ownership edge: the journal entry
// knows nothing about the invoice.
type Invoice struct {
	InvoiceID    string          `json:"invoiceID"` // Primary Key (UUID)
	TenantID     string          `json:"tenantID"`
	Reference    string          `json:"reference"` // Human-readable invoice number
	CustomerName string          `json:"customerName"`
	InvoiceDate  time.Time       `json:"invoiceDate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Total        decimal.Decimal `json:"total"` // Tax-inclusive grand total
	TaxRateCode  string          `json:"taxRateCode"`
	Status       DocumentStatus  `json:"status"`
	// Optional explicit account overrides; adapters fall back to well-known defaults.
	ReceivableAccountID string  `json:"receivableAccountID,omitempty"`
	RevenueAccountID    string  `json:"revenueAccountID,omitempty"`
	JournalEntryID      *string `json:"journalEntryID,omitempty"`
	AuditFields
}

// Expense is a purchase/outlay document that originates an expense posting.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (UUID)
	TenantID    string          `json:"tenantID"`
	Reference   string          `json:"reference"`
	Payee       string          `json:"payee"`
	ExpenseDate time.Time       `json:"expenseDate"`
	Amount      decimal.Decimal `json:"amount"`    // Pre-tax amount
	TaxAmount   decimal.Decimal `json:"taxAmount"` // Added to Amount for the posting total
	Status      DocumentStatus  `json:"status"`
	// Optional explicit account designations; adapters fall back to defaults.
	ExpenseAccountID string  `json:"expenseAccountID,omitempty"`
	PaymentAccountID string  `json:"paymentAccountID,omitempty"`
	JournalEntryID   *string `json:"journalEntryID,omitempty"`
	AuditFields
}

// GrandTotal is the full economic value of the expense, tax included.
func (e Expense) GrandTotal() decimal.Decimal {
	return e.Amount.Add(e.TaxAmount)
}
