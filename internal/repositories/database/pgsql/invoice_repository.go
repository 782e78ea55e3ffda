package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	"github.com/openclerk/ledger/internal/models"
	"github.com/openclerk/ledger/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, tenant_id, reference, customer_name, invoice_date, subtotal, tax_amount, total, tax_rate_code, status, receivable_account_id, revenue_account_id, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// scanInvoice scans one invoice row in invoiceColumns order.
func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.TenantID,
		&m.Reference,
		&m.CustomerName,
		&m.InvoiceDate,
		&m.Subtotal,
		&m.TaxAmount,
		&m.Total,
		&m.TaxRateCode,
		&m.Status,
		&m.ReceivableAccountID,
		&m.RevenueAccountID,
		&m.JournalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInvoice inserts a new invoice.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InvoiceID,
		m.TenantID,
		m.Reference,
		m.CustomerName,
		m.InvoiceDate,
		m.Subtotal,
		m.TaxAmount,
		m.Total,
		m.TaxRateCode,
		m.Status,
		m.ReceivableAccountID,
		m.RevenueAccountID,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice reference %s already exists in tenant %s", apperrors.ErrDuplicate, m.Reference, m.TenantID)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its unique identifier.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	d := mapping.ToDomainInvoice(m)
	return &d, nil
}

// ListInvoices retrieves a paginated list of invoices, newest first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row for tenant %s: %w", tenantID, err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows for tenant %s: %w", tenantID, rows.Err())
	}
	return invoices, nil
}

// UpdateInvoiceStatus sets an invoice's lifecycle status.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.DocumentStatus, userID string) error {
	query := `
		UPDATE invoices
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, invoiceID, string(status), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s status: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}
