package repositories

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
)

// TaxRateReader defines read operations for tax rate data.
type TaxRateReader interface {
	// FindTaxRateByID retrieves a tax rate by its unique identifier.
	FindTaxRateByID(ctx context.Context, tenantID, rateID string) (*domain.TaxRate, error)

	// FindTaxRateByCode retrieves a tax rate by its tenant-scoped code.
	FindTaxRateByCode(ctx context.Context, tenantID, code string) (*domain.TaxRate, error)

	// FindDefaultTaxRate retrieves the default rate for a tenant and scope.
	FindDefaultTaxRate(ctx context.Context, tenantID, appliesTo string) (*domain.TaxRate, error)

	// ListTaxRates retrieves all active tax rates for a tenant.
	ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error)
}

// TaxRateWriter defines write operations for tax rate data.
type TaxRateWriter interface {
	// SaveTaxRate inserts a new tax rate. When the rate is flagged as default,
	// prior defaults for the same tenant and scope are unset in the same
	// database transaction as the insert.
	SaveTaxRate(ctx context.Context, rate domain.TaxRate) error

	// UpdateTaxRate updates an existing tax rate with the same default-
	// uniqueness guarantee as SaveTaxRate.
	UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error
}

// TaxRateRepositoryFacade combines all tax-rate repository interfaces.
type TaxRateRepositoryFacade interface {
	TaxRateReader
	TaxRateWriter
}
