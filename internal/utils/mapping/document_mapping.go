package mapping

import (
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:           d.InvoiceID,
		TenantID:            d.TenantID,
		Reference:           d.Reference,
		CustomerName:        d.CustomerName,
		InvoiceDate:         d.InvoiceDate,
		Subtotal:            d.Subtotal,
		TaxAmount:           d.TaxAmount,
		Total:               d.Total,
		TaxRateCode:         d.TaxRateCode,
		Status:              models.DocumentStatus(d.Status),
		ReceivableAccountID: d.ReceivableAccountID,
		RevenueAccountID:    d.RevenueAccountID,
		JournalEntryID:      d.JournalEntryID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:           m.InvoiceID,
		TenantID:            m.TenantID,
		Reference:           m.Reference,
		CustomerName:        m.CustomerName,
		InvoiceDate:         m.InvoiceDate,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		Total:               m.Total,
		TaxRateCode:         m.TaxRateCode,
		Status:              domain.DocumentStatus(m.Status),
		ReceivableAccountID: m.ReceivableAccountID,
		RevenueAccountID:    m.RevenueAccountID,
		JournalEntryID:      m.JournalEntryID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpense converts a domain Expense to a model Expense.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:        d.ExpenseID,
		TenantID:         d.TenantID,
		Reference:        d.Reference,
		Payee:            d.Payee,
		ExpenseDate:      d.ExpenseDate,
		Amount:           d.Amount,
		TaxAmount:        d.TaxAmount,
		Status:           models.DocumentStatus(d.Status),
		ExpenseAccountID: d.ExpenseAccountID,
		PaymentAccountID: d.PaymentAccountID,
		JournalEntryID:   d.JournalEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:        m.ExpenseID,
		TenantID:         m.TenantID,
		Reference:        m.Reference,
		Payee:            m.Payee,
		ExpenseDate:      m.ExpenseDate,
		Amount:           m.Amount,
		TaxAmount:        m.TaxAmount,
		Status:           domain.DocumentStatus(m.Status),
		ExpenseAccountID: m.ExpenseAccountID,
		PaymentAccountID: m.PaymentAccountID,
		JournalEntryID:   m.JournalEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
