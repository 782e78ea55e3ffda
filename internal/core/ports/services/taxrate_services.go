package services

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/dto"
)

// TaxRateSvcFacade manages tax rate definitions and computations.
type TaxRateSvcFacade interface {
	CreateTaxRate(ctx context.Context, tenantID string, req dto.CreateTaxRateRequest, actorID string) (*domain.TaxRate, error)

	// UpdateTaxRate replaces the mutable fields of a rate addressed by code.
	// Code and rate type are immutable once created.
	UpdateTaxRate(ctx context.Context, tenantID, code string, req dto.UpdateTaxRateRequest, actorID string) (*domain.TaxRate, error)

	// GetTaxRate resolves a rate by its ID first, then by its code, so both
	// identifiers work on the read path.
	GetTaxRate(ctx context.Context, tenantID, idOrCode string) (*domain.TaxRate, error)
	ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error)

	// Calculate computes tax amount and total for a subtotal against a stored
	// rate. Rates outside their effective window are rejected with
	// apperrors.ErrValidation before any math runs.
	Calculate(ctx context.Context, tenantID string, req dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error)
}
