package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle of a source document row.
type DocumentStatus string

const (
	DocDraft     DocumentStatus = "DRAFT"
	DocSubmitted DocumentStatus = "SUBMITTED"
	DocApproved  DocumentStatus = "APPROVED"
	DocPosted    DocumentStatus = "POSTED"
	DocRejected  DocumentStatus = "REJECTED"
)

// Invoice is the persistence shape of a sales invoice.
type Invoice struct {
	InvoiceID           string          `db:"invoice_id"`
	TenantID            string          `db:"tenant_id"`
	Reference           string          `db:"reference"`
	CustomerName        string          `db:"customer_name"`
	InvoiceDate         time.Time       `db:"invoice_date"`
	Subtotal            decimal.Decimal `db:"subtotal"`
	TaxAmount           decimal.Decimal `db:"tax_amount"`
	Total               decimal.Decimal `db:"total"`
	TaxRateCode         string          `db:"tax_rate_code"`
	Status              DocumentStatus  `db:"status"`
	ReceivableAccountID string          `db:"receivable_account_id"`
	RevenueAccountID    string          `db:"revenue_account_id"`
	JournalEntryID      *string         `db:"journal_entry_id"` // Weak back-reference
	AuditFields
}

// Expense is the persistence shape of an expense document.
type Expense struct {
	ExpenseID        string          `db:"expense_id"`
	TenantID         string          `db:"tenant_id"`
	Reference        string          `db:"reference"`
	Payee            string          `db:"payee"`
	ExpenseDate      time.Time       `db:"expense_date"`
	Amount           decimal.Decimal `db:"amount"`
	TaxAmount        decimal.Decimal `db:"tax_amount"`
	Status           DocumentStatus  `db:"status"`
	ExpenseAccountID string          `db:"expense_account_id"`
	PaymentAccountID string          `db:"payment_account_id"`
	JournalEntryID   *string         `db:"journal_entry_id"` // Weak back-reference
	AuditFields
}
