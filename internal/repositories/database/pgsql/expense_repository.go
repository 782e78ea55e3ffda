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

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, tenant_id, reference, payee, expense_date, amount, tax_amount, status, expense_account_id, payment_account_id, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// scanExpense scans one expense row in expenseColumns order.
func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.TenantID,
		&m.Reference,
		&m.Payee,
		&m.ExpenseDate,
		&m.Amount,
		&m.TaxAmount,
		&m.Status,
		&m.ExpenseAccountID,
		&m.PaymentAccountID,
		&m.JournalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveExpense inserts a new expense.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.TenantID,
		m.Reference,
		m.Payee,
		m.ExpenseDate,
		m.Amount,
		m.TaxAmount,
		m.Status,
		m.ExpenseAccountID,
		m.PaymentAccountID,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense reference %s already exists in tenant %s", apperrors.ErrDuplicate, m.Reference, m.TenantID)
		}
		return fmt.Errorf("failed to save expense %s: %w", m.ExpenseID, err)
	}
	return nil
}

// FindExpenseByID retrieves an expense by its unique identifier.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, tenantID, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = $1 AND expense_id = $2;
	`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, tenantID, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}

// ListExpenses retrieves a paginated list of expenses, newest first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, tenantID string, limit, offset int) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = $1
		ORDER BY expense_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row for tenant %s: %w", tenantID, err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows for tenant %s: %w", tenantID, rows.Err())
	}
	return expenses, nil
}

// UpdateExpenseStatus sets an expense's lifecycle status.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, tenantID, expenseID string, status domain.DocumentStatus, userID string) error {
	query := `
		UPDATE expenses
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND expense_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, expenseID, string(status), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update expense %s status: %w", expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return nil
}
