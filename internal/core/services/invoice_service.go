package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// invoiceService is the invoice document adapter: it records invoices, derives
// their tax figures from stored rates, and turns an approved invoice into a
// posted accounts-receivable entry.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	taxRateRepo portsrepo.TaxRateRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditSink
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	taxRateRepo portsrepo.TaxRateRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	audit portssvc.AuditSink,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		taxRateRepo: taxRateRepo,
		accountSvc:  accountSvc,
		audit:       audit,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice records a draft invoice. When a tax rate code is given the tax
// figures are derived from the stored rate on the invoice date: exclusive
// rates add tax on top of the stated subtotal, inclusive rates treat the
// stated amount as the grand total and carve the embedded tax out of it.
func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Subtotal.IsPositive() {
		return nil, fmt.Errorf("%w: invoice subtotal must be positive", apperrors.ErrValidation)
	}

	subtotal := req.Subtotal
	taxAmount := decimal.Zero
	total := req.Subtotal
	rateCode := req.TaxRateCode
	var rate *domain.TaxRate
	var err error
	if rateCode != "" {
		rate, err = resolveEffectiveRate(ctx, s.taxRateRepo, tenantID, rateCode, req.Date)
		if err != nil {
			return nil, err
		}
	} else {
		// No explicit rate: the tenant's default sales rate applies when one
		// is configured and in its effective window.
		rate, err = resolveDefaultRateFor(ctx, s.taxRateRepo, tenantID, "sales", req.Date)
		if err != nil {
			return nil, err
		}
		if rate != nil {
			rateCode = rate.Code
		}
	}
	if rate != nil {
		if rate.IsInclusive {
			total = req.Subtotal
			taxAmount = rate.InclusiveTaxPortion(total)
			subtotal = total.Sub(taxAmount)
		} else {
			taxAmount = rate.TaxAmount(subtotal)
			total = rate.TotalWithTax(subtotal)
		}
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:           uuid.NewString(),
		TenantID:            tenantID,
		Reference:           req.Reference,
		CustomerName:        req.CustomerName,
		InvoiceDate:         req.Date,
		Subtotal:            subtotal,
		TaxAmount:           taxAmount,
		Total:               total,
		TaxRateCode:         rateCode,
		Status:              domain.DocDraft,
		ReceivableAccountID: req.ReceivableAccountID,
		RevenueAccountID:    req.RevenueAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: invoice reference %s already exists", apperrors.ErrDuplicate, req.Reference)
		}
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		return nil, err
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("reference", invoice.Reference),
		slog.String("total", invoice.Total.StringFixed(2)))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice by its identifier.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
}

// ListInvoices retrieves invoices for a tenant, newest first.
func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoiceRepo.ListInvoices(ctx, tenantID, limit, offset)
}

// UpdateInvoiceStatus moves an invoice through the review lifecycle: draft to
// submitted, submitted to approved or rejected. Posting owns the POSTED flip.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.DocumentStatus, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := validateDocTransition(invoice.Status, status); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, tenantID, invoiceID, status, actorID); err != nil {
		logger.Error("Failed to update invoice status",
			slog.String("error", err.Error()),
			slog.String("invoice_id", invoiceID))
		return nil, err
	}

	invoice.Status = status
	invoice.LastUpdatedAt = time.Now().UTC()
	invoice.LastUpdatedBy = actorID
	logger.Info("Invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(status)))
	return invoice, nil
}

// PostInvoice derives a balanced AR entry from the invoice and commits the
// entry, its balance effects, and the invoice's POSTED flip in one
// transaction. An invoice posts at most once.
func (s *invoiceService) PostInvoice(ctx context.Context, tenantID, invoiceID, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.DocPosted {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrAlreadyPosted, invoice.Reference)
	}
	if invoice.Status == domain.DocRejected {
		return nil, fmt.Errorf("%w: invoice %s is rejected", apperrors.ErrValidation, invoice.Reference)
	}

	builder := &InvoiceEntryBuilder{Accounts: s.accountSvc, Invoice: invoice}
	entry, err := builder.BuildEntry(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = actorID

	stamp := &portsrepo.DocumentStamp{Source: domain.SourceInvoice, DocumentID: invoice.InvoiceID}
	if err := s.journalRepo.SavePostedEntry(ctx, *entry, stamp); err != nil {
		logger.Error("Failed to post invoice entry",
			slog.String("error", err.Error()),
			slog.String("invoice_id", invoiceID))
		return nil, err
	}

	invoice.Status = domain.DocPosted
	invoice.JournalEntryID = &entry.EntryID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actorID

	s.audit.Record(ctx, domain.AuditRecord{
		Action:     "invoice.posted",
		TargetType: "invoice",
		TargetID:   invoice.InvoiceID,
		Metadata: map[string]string{
			"tenantID": tenantID,
			"entryID":  entry.EntryID,
			"total":    invoice.Total.StringFixed(2),
			"postedBy": actorID,
		},
	})
	logger.Info("Invoice posted",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("entry_id", entry.EntryID))
	return invoice, nil
}
