package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
)

// EntryBuilder derives a balanced draft journal entry from a source document.
// Every builder output satisfies the balance invariant by construction: both
// lines are derived from the same total. The posting engine's balance check is
// defense in depth, not the primary correctness mechanism.
type EntryBuilder interface {
	BuildEntry(ctx context.Context, actorID string) (*domain.JournalEntry, error)
}

// InvoiceEntryBuilder builds the accounts-receivable posting for an invoice:
// one AR debit and one revenue credit, both for the tax-inclusive total.
// Line-item-level revenue attribution happens in a different read path, never
// at posting.
type InvoiceEntryBuilder struct {
	Accounts portssvc.AccountSvcFacade
	Invoice  *domain.Invoice
}

var _ EntryBuilder = (*InvoiceEntryBuilder)(nil)

func (b *InvoiceEntryBuilder) BuildEntry(ctx context.Context, actorID string) (*domain.JournalEntry, error) {
	inv := b.Invoice
	if !inv.Total.IsPositive() {
		return nil, fmt.Errorf("%w: invoice %s total must be positive", apperrors.ErrValidation, inv.Reference)
	}

	receivable, err := b.resolveReceivable(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve receivable account: %w", err)
	}

	revenue, err := b.resolveRevenue(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revenue account: %w", err)
	}

	entry := newDraftEntry(inv.TenantID, "JE-"+inv.Reference, inv.InvoiceDate,
		fmt.Sprintf("Invoice %s - %s", inv.Reference, inv.CustomerName),
		domain.SourceInvoice, inv.InvoiceID, actorID)
	entry.Lines = []domain.JournalLine{
		newLine(entry, receivable, inv.Total, decimal.Zero, "Invoice "+inv.Reference, inv.TaxRateCode, actorID),
		newLine(entry, revenue, decimal.Zero, inv.Total, "Invoice "+inv.Reference, inv.TaxRateCode, actorID),
	}
	return entry, nil
}

func (b *InvoiceEntryBuilder) resolveReceivable(ctx context.Context, actorID string) (*domain.Account, error) {
	if b.Invoice.ReceivableAccountID != "" {
		return b.Accounts.GetAccountByID(ctx, b.Invoice.TenantID, b.Invoice.ReceivableAccountID)
	}
	return b.Accounts.FindOrCreate(ctx, b.Invoice.TenantID, domain.AccountSelector{
		Code:         domain.DefaultReceivable.Code,
		Type:         domain.AccountTypeAsset,
		NameContains: "Receivable",
		Fallback:     domain.DefaultReceivable,
	}, actorID)
}

func (b *InvoiceEntryBuilder) resolveRevenue(ctx context.Context, actorID string) (*domain.Account, error) {
	if b.Invoice.RevenueAccountID != "" {
		return b.Accounts.GetAccountByID(ctx, b.Invoice.TenantID, b.Invoice.RevenueAccountID)
	}
	// First active revenue account wins; otherwise the default is provisioned.
	return b.Accounts.FindOrCreate(ctx, b.Invoice.TenantID, domain.AccountSelector{
		Type:     domain.AccountTypeRevenue,
		Fallback: domain.DefaultRevenue,
	}, actorID)
}

// ExpenseEntryBuilder builds the posting for an expense: a debit against the
// designated expense account and a credit against the payment/liability
// account, both for amount plus tax.
type ExpenseEntryBuilder struct {
	Accounts portssvc.AccountSvcFacade
	Expense  *domain.Expense
}

var _ EntryBuilder = (*ExpenseEntryBuilder)(nil)

func (b *ExpenseEntryBuilder) BuildEntry(ctx context.Context, actorID string) (*domain.JournalEntry, error) {
	exp := b.Expense
	total := exp.GrandTotal()
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: expense %s total must be positive", apperrors.ErrValidation, exp.Reference)
	}

	expenseAcc, err := b.resolveExpenseAccount(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expense account: %w", err)
	}

	paymentAcc, err := b.resolvePaymentAccount(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payment account: %w", err)
	}

	entry := newDraftEntry(exp.TenantID, "JE-"+exp.Reference, exp.ExpenseDate,
		fmt.Sprintf("Expense %s - %s", exp.Reference, exp.Payee),
		domain.SourceExpense, exp.ExpenseID, actorID)
	entry.Lines = []domain.JournalLine{
		newLine(entry, expenseAcc, total, decimal.Zero, "Expense "+exp.Reference, "", actorID),
		newLine(entry, paymentAcc, decimal.Zero, total, "Expense "+exp.Reference, "", actorID),
	}
	return entry, nil
}

func (b *ExpenseEntryBuilder) resolveExpenseAccount(ctx context.Context, actorID string) (*domain.Account, error) {
	if b.Expense.ExpenseAccountID != "" {
		return b.Accounts.GetAccountByID(ctx, b.Expense.TenantID, b.Expense.ExpenseAccountID)
	}
	return b.Accounts.FindOrCreate(ctx, b.Expense.TenantID, domain.AccountSelector{
		Type:     domain.AccountTypeExpense,
		Fallback: domain.DefaultExpense,
	}, actorID)
}

func (b *ExpenseEntryBuilder) resolvePaymentAccount(ctx context.Context, actorID string) (*domain.Account, error) {
	if b.Expense.PaymentAccountID != "" {
		return b.Accounts.GetAccountByID(ctx, b.Expense.TenantID, b.Expense.PaymentAccountID)
	}
	return b.Accounts.FindOrCreate(ctx, b.Expense.TenantID, domain.AccountSelector{
		Code:         domain.DefaultPayable.Code,
		Type:         domain.AccountTypeLiability,
		NameContains: "Payable",
		Fallback:     domain.DefaultPayable,
	}, actorID)
}

// ManualEntryBuilder emits one debit line and one credit line for the given
// amount verbatim, against two caller-supplied accounts.
type ManualEntryBuilder struct {
	Accounts        portssvc.AccountSvcFacade
	TenantID        string
	Reference       string
	Date            time.Time
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Memo            string
}

var _ EntryBuilder = (*ManualEntryBuilder)(nil)

func (b *ManualEntryBuilder) BuildEntry(ctx context.Context, actorID string) (*domain.JournalEntry, error) {
	if !b.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if b.DebitAccountID == b.CreditAccountID {
		return nil, fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	}

	debitAcc, err := b.Accounts.GetAccountByID(ctx, b.TenantID, b.DebitAccountID)
	if err != nil {
		return nil, fmt.Errorf("debit account: %w", err)
	}
	creditAcc, err := b.Accounts.GetAccountByID(ctx, b.TenantID, b.CreditAccountID)
	if err != nil {
		return nil, fmt.Errorf("credit account: %w", err)
	}

	entry := newDraftEntry(b.TenantID, b.Reference, b.Date, b.Description, domain.SourceManual, "", actorID)
	entry.Lines = []domain.JournalLine{
		newLine(entry, debitAcc, b.Amount, decimal.Zero, b.Memo, "", actorID),
		newLine(entry, creditAcc, decimal.Zero, b.Amount, b.Memo, "", actorID),
	}
	return entry, nil
}

// newDraftEntry assembles a draft header with fresh identity and audit fields.
func newDraftEntry(tenantID, reference string, date time.Time, description string, source domain.SourceType, sourceID, actorID string) *domain.JournalEntry {
	now := time.Now().UTC()
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		Reference:   reference,
		EntryDate:   date,
		Description: description,
		Status:      domain.Draft,
		SourceType:  source,
		SourceID:    sourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// newLine assembles a line, denormalizing the account's code and name so the
// entry displays correctly after later account renames.
func newLine(entry *domain.JournalEntry, account *domain.Account, debit, credit decimal.Decimal, memo, taxLabel, actorID string) domain.JournalLine {
	now := time.Now().UTC()
	return domain.JournalLine{
		LineID:      uuid.NewString(),
		EntryID:     entry.EntryID,
		AccountID:   account.AccountID,
		AccountCode: account.Code,
		AccountName: account.Name,
		Debit:       debit,
		Credit:      credit,
		Memo:        memo,
		TaxLabel:    taxLabel,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}
