package repositories

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
)

// DocumentStamp tells the posting routine which source document to flip to
// POSTED inside the posting transaction.
type DocumentStamp struct {
	Source     domain.SourceType
	DocumentID string
}

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves an entry header by its tenant-scoped reference.
	FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines for an entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByTenant retrieves a paginated list of entries for a tenant.
	ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int, includeReversals bool) ([]domain.JournalEntry, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveDraftEntry inserts a draft header and its lines. No account balances
	// are touched; drafts have no ledger effect.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// PostExistingEntry transitions a stored draft to posted: it updates the
	// header, locks and updates every referenced account balance, and flips
	// the source document named by stamp (if any). One atomic transaction.
	PostExistingEntry(ctx context.Context, entry domain.JournalEntry, stamp *DocumentStamp) error

	// SavePostedEntry inserts an already-posted entry with its lines, applies
	// all account balance effects, and flips the source document named by
	// stamp (if any). One atomic transaction; used by document adapter flows
	// and reversals where the draft never rests in storage.
	SavePostedEntry(ctx context.Context, entry domain.JournalEntry, stamp *DocumentStamp) error

	// MarkEntryReversed links a posted entry to its reversing entry and sets
	// status to REVERSED.
	MarkEntryReversed(ctx context.Context, entryID, reversingEntryID, userID string) error

	// DeleteDraftEntry removes a still-draft header and its lines.
	DeleteDraftEntry(ctx context.Context, tenantID, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
