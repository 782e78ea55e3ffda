package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	"github.com/openclerk/ledger/internal/models"
	"github.com/openclerk/ledger/internal/utils/accounting"
	"github.com/openclerk/ledger/internal/utils/mapping"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, reference, entry_date, description, status, source_type, source_id, posted_at, posted_by, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, account_code, account_name, debit, credit, memo, tax_label, created_at, created_by, last_updated_at, last_updated_by`

// scanEntry scans one entry header row in entryColumns order.
func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.Reference,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.PostedAt,
		&m.PostedBy,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveDraftEntry inserts a draft header and its lines. No balances move.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLines(ctx, tx, entry.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// PostExistingEntry transitions a stored draft to posted. The status flip is
// guarded on status = DRAFT so two concurrent posts cannot both apply
// balance effects: the loser sees zero rows and gets ErrConflict.
func (r *PgxJournalRepository) PostExistingEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = $2, posted_at = $3, posted_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		string(entry.Status),
		entry.PostedAt,
		entry.PostedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to flip entry %s to posted: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s left draft state concurrently", apperrors.ErrConflict, entry.EntryID)
	}

	if err := r.applyEntryEffects(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.applyStamp(ctx, tx, stamp, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SavePostedEntry inserts an already-posted entry with its lines and applies
// all balance effects in one transaction.
func (r *PgxJournalRepository) SavePostedEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLines(ctx, tx, entry.Lines); err != nil {
		return err
	}
	if err := r.applyEntryEffects(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.applyStamp(ctx, tx, stamp, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkEntryReversed links a posted entry to its reversing entry. Guarded on
// status = POSTED so an entry reverses at most once.
func (r *PgxJournalRepository) MarkEntryReversed(ctx context.Context, entryID, reversingEntryID, userID string) error {
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, reversingEntryID, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in posted state", apperrors.ErrConflict, entryID)
	}
	return nil
}

// DeleteDraftEntry removes a still-draft header and its lines. The header
// delete is guarded on status = DRAFT; posted history is immutable.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, tenantID, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines for entry %s: %w", entryID, err)
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2 AND status = 'DRAFT';`,
		tenantID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: draft entry %s", apperrors.ErrNotFound, entryID)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header by its unique identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// FindEntryByReference retrieves an entry header by its tenant-scoped reference.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND reference = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by reference %s: %w", reference, err)
	}
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// FindLinesByEntryID retrieves all lines for an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.AccountCode,
			&m.AccountName,
			&m.Debit,
			&m.Credit,
			&m.Memo,
			&m.TaxLabel,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, rows.Err())
	}
	return lines, nil
}

// ListEntriesByTenant retrieves a paginated list of entry headers, newest
// first. Reversing entries are filtered out unless asked for.
func (r *PgxJournalRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int, includeReversals bool) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND ($4 OR original_entry_id IS NULL)
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset, includeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for tenant %s: %w", tenantID, err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating entry rows for tenant %s: %w", tenantID, rows.Err())
	}
	return entries, nil
}

// insertEntry inserts an entry header within the given transaction.
func (r *PgxJournalRepository) insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.TenantID,
		m.Reference,
		m.EntryDate,
		m.Description,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.PostedAt,
		m.PostedBy,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry reference %s already exists in tenant %s", apperrors.ErrDuplicate, m.Reference, m.TenantID)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLines batch-inserts entry lines within the given transaction.
func (r *PgxJournalRepository) insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.AccountCode,
			m.AccountName,
			m.Debit,
			m.Credit,
			m.Memo,
			m.TaxLabel,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line batch for entry %s: %w", lines[0].EntryID, err)
	}
	return nil
}

// applyEntryEffects locks every account the entry touches and writes its new
// balance. Lock order is sorted account ID so concurrent postings that share
// accounts cannot deadlock. Each write is version-guarded.
func (r *PgxJournalRepository) applyEntryEffects(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	seen := make(map[string]bool, len(entry.Lines))
	accountIDs := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	sort.Strings(accountIDs)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, entry.TenantID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for entry %s: %w", entry.EntryID, err)
	}

	newBalances := make(map[string]domain.Account, len(locked))
	for id, acc := range locked {
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		newBalances[id] = acc
	}
	for _, line := range entry.Lines {
		acc := newBalances[line.AccountID]
		acc.Balance = accounting.ApplyEffect(acc.NormalBalance, acc.Balance, line.Debit, line.Credit)
		newBalances[line.AccountID] = acc
	}

	now := entry.LastUpdatedAt
	userID := entry.LastUpdatedBy
	for _, id := range accountIDs {
		acc := newBalances[id]
		if err := r.accountRepo.UpdateAccountBalanceInTx(ctx, tx, id, acc.Balance, acc.Version, userID, now); err != nil {
			return err
		}
	}
	return nil
}

// applyStamp flips the source document named by stamp to POSTED and links it
// to the entry, inside the same transaction as the entry itself.
func (r *PgxJournalRepository) applyStamp(ctx context.Context, tx pgx.Tx, stamp *portsrepo.DocumentStamp, entry domain.JournalEntry) error {
	if stamp == nil {
		return nil
	}

	var query string
	switch stamp.Source {
	case domain.SourceInvoice:
		query = `
			UPDATE invoices
			SET status = 'POSTED', journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE invoice_id = $1 AND status <> 'POSTED';
		`
	case domain.SourceExpense:
		query = `
			UPDATE expenses
			SET status = 'POSTED', journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE expense_id = $1 AND status <> 'POSTED';
		`
	default:
		return fmt.Errorf("%w: unknown stamp source %s", apperrors.ErrInternal, stamp.Source)
	}

	cmdTag, err := tx.Exec(ctx, query, stamp.DocumentID, entry.EntryID, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to stamp %s %s: %w", stamp.Source, stamp.DocumentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s already posted or missing", apperrors.ErrConflict, stamp.Source, stamp.DocumentID)
	}
	return nil
}
