package services

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/dto"
)

// PostOptions controls how Post treats an entry that is no longer a draft.
type PostOptions struct {
	// Idempotent returns the already-posted entry instead of ErrAlreadyPosted.
	// Balances are never applied a second time either way.
	Idempotent bool
}

// JournalSvcFacade is the posting engine surface exposed to collaborators.
type JournalSvcFacade interface {
	// CreateJournalEntry persists a draft entry with explicit lines.
	CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// CreateManualEntry persists a two-line draft: one amount debited from one
	// account and credited to another.
	CreateManualEntry(ctx context.Context, tenantID string, req dto.CreateManualEntryRequest, actorID string) (*domain.JournalEntry, error)

	// Post runs the draft -> posted transition: balance validation, status
	// flip, and every account balance effect in one atomic transaction.
	Post(ctx context.Context, tenantID, entryID, actorID string, opts PostOptions) (*domain.JournalEntry, error)

	// Reverse creates an offsetting posted entry and marks the original
	// REVERSED. Reversals of reversals are rejected.
	Reverse(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)

	// GetJournalEntry retrieves an entry with its lines.
	GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// GetJournalEntryByReference retrieves an entry with its lines by its
	// tenant-scoped human-readable reference.
	GetJournalEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves entry headers for a tenant.
	ListJournalEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) ([]domain.JournalEntry, error)

	// DeleteDraftEntry removes a still-draft entry and its lines.
	DeleteDraftEntry(ctx context.Context, tenantID, entryID, actorID string) error
}
