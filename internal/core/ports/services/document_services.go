package services

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/dto"
)

// InvoiceSvcFacade manages invoices and their ledger posting.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]domain.Invoice, error)

	// UpdateInvoiceStatus runs the review lifecycle: draft to submitted,
	// submitted to approved or rejected. POSTED is only ever set by posting.
	UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.DocumentStatus, actorID string) (*domain.Invoice, error)

	// PostInvoice derives a balanced entry from the invoice, posts it, and
	// flips the invoice to POSTED in one atomic unit.
	PostInvoice(ctx context.Context, tenantID, invoiceID, actorID string) (*domain.Invoice, error)
}

// ExpenseSvcFacade manages expenses and their ledger posting.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, tenantID string, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error)
	GetExpenseByID(ctx context.Context, tenantID, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, tenantID string, limit, offset int) ([]domain.Expense, error)

	// UpdateExpenseStatus runs the review lifecycle with the same transition
	// rules as invoices.
	UpdateExpenseStatus(ctx context.Context, tenantID, expenseID string, status domain.DocumentStatus, actorID string) (*domain.Expense, error)

	// PostExpense checks the approver's authority against the expense total,
	// then derives, posts, and stamps in one atomic unit.
	PostExpense(ctx context.Context, tenantID, expenseID, actorID string, req dto.PostExpenseRequest) (*domain.Expense, error)
}
