package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	"github.com/openclerk/ledger/internal/models"
	"github.com/openclerk/ledger/internal/utils/mapping"
)

type PgxTaxRateRepository struct {
	BaseRepository
}

// newPgxTaxRateRepository creates a new repository for tax rate data.
func newPgxTaxRateRepository(pool *pgxpool.Pool) portsrepo.TaxRateRepositoryFacade {
	return &PgxTaxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxRateRepositoryFacade = (*PgxTaxRateRepository)(nil)

const taxRateColumns = `rate_id, tenant_id, code, name, rate_type, rate, fixed_amount, is_inclusive, applies_to, effective_from, effective_to, is_default, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanTaxRate scans one tax rate row in taxRateColumns order.
func scanTaxRate(row pgx.Row) (models.TaxRate, error) {
	var m models.TaxRate
	err := row.Scan(
		&m.RateID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.RateType,
		&m.Rate,
		&m.FixedAmount,
		&m.IsInclusive,
		&m.AppliesTo,
		&m.EffectiveFrom,
		&m.EffectiveTo,
		&m.IsDefault,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTaxRate inserts a new tax rate. When the rate is flagged default, prior
// defaults for the same tenant and scope are unset in the same transaction,
// so two defaults can never coexist.
func (r *PgxTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	m := mapping.ToModelTaxRate(rate)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if m.IsDefault {
		if err := r.unsetPriorDefaults(ctx, tx, m); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO tax_rates (` + taxRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		m.RateID,
		m.TenantID,
		m.Code,
		m.Name,
		m.RateType,
		m.Rate,
		m.FixedAmount,
		m.IsInclusive,
		m.AppliesTo,
		m.EffectiveFrom,
		m.EffectiveTo,
		m.IsDefault,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tax rate code %s already exists in tenant %s", apperrors.ErrDuplicate, m.Code, m.TenantID)
		}
		return fmt.Errorf("failed to save tax rate %s: %w", m.RateID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateTaxRate updates an existing tax rate with the same default-uniqueness
// guarantee as SaveTaxRate.
func (r *PgxTaxRateRepository) UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error {
	m := mapping.ToModelTaxRate(rate)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if m.IsDefault {
		if err := r.unsetPriorDefaults(ctx, tx, m); err != nil {
			return err
		}
	}

	query := `
		UPDATE tax_rates
		SET name = $3, rate_type = $4, rate = $5, fixed_amount = $6, is_inclusive = $7,
		    applies_to = $8, effective_from = $9, effective_to = $10, is_default = $11,
		    is_active = $12, last_updated_at = $13, last_updated_by = $14
		WHERE tenant_id = $1 AND rate_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TenantID,
		m.RateID,
		m.Name,
		m.RateType,
		m.Rate,
		m.FixedAmount,
		m.IsInclusive,
		m.AppliesTo,
		m.EffectiveFrom,
		m.EffectiveTo,
		m.IsDefault,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax rate %s: %w", m.RateID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindTaxRateByID retrieves a tax rate by its unique identifier.
func (r *PgxTaxRateRepository) FindTaxRateByID(ctx context.Context, tenantID, rateID string) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND rate_id = $2;
	`
	m, err := scanTaxRate(r.Pool.QueryRow(ctx, query, tenantID, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax rate by ID %s: %w", rateID, err)
	}
	d := mapping.ToDomainTaxRate(m)
	return &d, nil
}

// FindTaxRateByCode retrieves a tax rate by its tenant-scoped code.
func (r *PgxTaxRateRepository) FindTaxRateByCode(ctx context.Context, tenantID, code string) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND code = $2;
	`
	m, err := scanTaxRate(r.Pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tax rate %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find tax rate by code %s: %w", code, err)
	}
	d := mapping.ToDomainTaxRate(m)
	return &d, nil
}

// FindDefaultTaxRate retrieves the default rate for a tenant and scope.
func (r *PgxTaxRateRepository) FindDefaultTaxRate(ctx context.Context, tenantID, appliesTo string) (*domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND applies_to = $2 AND is_default = TRUE AND is_active = TRUE;
	`
	m, err := scanTaxRate(r.Pool.QueryRow(ctx, query, tenantID, appliesTo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default tax rate for scope %s: %w", appliesTo, err)
	}
	d := mapping.ToDomainTaxRate(m)
	return &d, nil
}

// ListTaxRates retrieves all active tax rates for a tenant.
func (r *PgxTaxRateRepository) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	query := `
		SELECT ` + taxRateColumns + `
		FROM tax_rates
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax rates for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	rates := []domain.TaxRate{}
	for rows.Next() {
		m, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate row for tenant %s: %w", tenantID, err)
		}
		rates = append(rates, mapping.ToDomainTaxRate(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating tax rate rows for tenant %s: %w", tenantID, rows.Err())
	}
	return rates, nil
}

// unsetPriorDefaults clears the default flag on other rates sharing the
// tenant and scope of the rate being written.
func (r *PgxTaxRateRepository) unsetPriorDefaults(ctx context.Context, tx pgx.Tx, m models.TaxRate) error {
	query := `
		UPDATE tax_rates
		SET is_default = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND applies_to = $2 AND is_default = TRUE AND rate_id <> $5;
	`
	_, err := tx.Exec(ctx, query, m.TenantID, m.AppliesTo, m.LastUpdatedAt, m.LastUpdatedBy, m.RateID)
	if err != nil {
		return fmt.Errorf("failed to unset prior default tax rates: %w", err)
	}
	return nil
}
