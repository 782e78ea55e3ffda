package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// CreateInvoiceRequest is the payload for recording a draft invoice.
// Subtotal is the pre-tax amount; tax and total are derived from the rate.
type CreateInvoiceRequest struct {
	Reference    string          `json:"reference" binding:"required"`
	CustomerName string          `json:"customerName" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	Subtotal     decimal.Decimal `json:"subtotal" binding:"required"`
	TaxRateCode  string          `json:"taxRateCode"`
	// Optional explicit account overrides for the posting.
	ReceivableAccountID string `json:"receivableAccountID"`
	RevenueAccountID    string `json:"revenueAccountID"`
}

// UpdateDocumentStatusRequest moves an invoice or expense through its review
// lifecycle. POSTED is never a valid target; posting owns that transition.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SUBMITTED APPROVED REJECTED"`
}

// InvoiceResponse is the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string          `json:"invoiceID"`
	Reference      string          `json:"reference"`
	CustomerName   string          `json:"customerName"`
	Date           time.Time       `json:"date"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	TaxRateCode    string          `json:"taxRateCode,omitempty"`
	Status         string          `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToInvoiceResponse converts a domain.Invoice.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		Reference:      inv.Reference,
		CustomerName:   inv.CustomerName,
		Date:           inv.InvoiceDate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		TaxRateCode:    inv.TaxRateCode,
		Status:         string(inv.Status),
		JournalEntryID: inv.JournalEntryID,
		CreatedAt:      inv.CreatedAt,
	}
}
