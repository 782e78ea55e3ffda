package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
	"github.com/openclerk/ledger/internal/utils/accounting"
)

// journalService is the posting engine. It owns the draft -> posted ->
// reversed state machine; the repository layer guarantees that a status flip
// and its balance effects land in one transaction.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditSink
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, audit portssvc.AuditSink) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo, accountSvc: accountSvc, audit: audit}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournalEntry persists a draft with explicit lines. Drafts are allowed
// to be imbalanced; the balance invariant is enforced at posting time so an
// operator can stage a partial entry and finish it later.
func (s *journalService) CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry := newDraftEntry(tenantID, req.Reference, req.Date, req.Description, domain.SourceManual, "", actorID)
	entry.Lines = make([]domain.JournalLine, 0, len(req.Lines))
	for i, lr := range req.Lines {
		if lr.Debit.IsNegative() || lr.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d carries a negative amount", apperrors.ErrValidation, i+1)
		}
		// A line may carry both sides; one-sided lines are the convention,
		// not a rule. Balance is what gets enforced, at posting time.
		account, err := s.accountSvc.GetAccountByID(ctx, tenantID, lr.AccountID)
		if err != nil {
			return nil, fmt.Errorf("line %d account: %w", i+1, err)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
		line := newLine(entry, account, lr.Debit, lr.Credit, lr.Memo, lr.TaxLabel, actorID)
		entry.Lines = append(entry.Lines, line)
	}

	if err := s.journalRepo.SaveDraftEntry(ctx, *entry); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		return nil, err
	}

	logger.Info("Draft entry created", slog.String("entry_id", entry.EntryID), slog.String("reference", entry.Reference))
	return entry, nil
}

// CreateManualEntry persists the two-line shorthand draft: Amount debited from
// one account and credited to another.
func (s *journalService) CreateManualEntry(ctx context.Context, tenantID string, req dto.CreateManualEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	builder := &ManualEntryBuilder{
		Accounts:        s.accountSvc,
		TenantID:        tenantID,
		Reference:       req.Reference,
		Date:            req.Date,
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		Memo:            req.Memo,
	}
	entry, err := builder.BuildEntry(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveDraftEntry(ctx, *entry); err != nil {
		logger.Error("Failed to save manual entry", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		return nil, err
	}

	logger.Info("Manual entry created", slog.String("entry_id", entry.EntryID), slog.String("reference", entry.Reference))
	return entry, nil
}

// Post runs the draft -> posted transition. The sequence is strict: state
// check, balance check, then the atomic flip. Nothing is persisted when any
// check fails, so a rejected entry leaves every account balance untouched.
func (s *journalService) Post(ctx context.Context, tenantID, entryID, actorID string, opts portssvc.PostOptions) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status != domain.Draft {
		if opts.Idempotent && entry.Status == domain.Posted {
			logger.Info("Entry already posted, idempotent return", slog.String("entry_id", entryID))
			return entry, nil
		}
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrAlreadyPosted, entryID, entry.Status)
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		debits, credits := accounting.EntryTotals(entry.Lines)
		return nil, fmt.Errorf("%w: entry %s (debits %s, credits %s)",
			apperrors.ErrImbalancedEntry, entryID, debits.StringFixed(2), credits.StringFixed(2))
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = actorID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	if err := s.journalRepo.PostExistingEntry(ctx, *entry, stampFor(entry)); err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		Action:     "journal.posted",
		TargetType: "journal_entry",
		TargetID:   entry.EntryID,
		Metadata: map[string]string{
			"tenantID":  tenantID,
			"reference": entry.Reference,
			"postedBy":  actorID,
			"debits":    entry.TotalDebits().StringFixed(2),
		},
	})
	logger.Info("Entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("reference", entry.Reference),
		slog.String("posted_by", actorID))
	return entry, nil
}

// Reverse creates an offsetting posted entry with debits and credits swapped
// line by line, then links the original to it and marks it REVERSED. A draft
// cannot be reversed (delete it instead), and a reversal cannot be reversed.
func (s *journalService) Reverse(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	switch {
	case entry.Status == domain.Draft:
		return nil, fmt.Errorf("%w: entry %s is a draft, delete it instead of reversing", apperrors.ErrValidation, entryID)
	case entry.Status == domain.Reversed:
		return nil, fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrConflict, entryID)
	case entry.OriginalEntryID != nil:
		return nil, fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrValidation, entryID)
	}

	now := time.Now().UTC()
	reversing := &domain.JournalEntry{
		EntryID:         uuid.NewString(),
		TenantID:        entry.TenantID,
		Reference:       "REV-" + entry.Reference,
		EntryDate:       now,
		Description:     "Reversal of " + entry.Reference,
		Status:          domain.Posted,
		SourceType:      entry.SourceType,
		SourceID:        entry.SourceID,
		PostedAt:        &now,
		PostedBy:        actorID,
		OriginalEntryID: &entry.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	reversing.Lines = make([]domain.JournalLine, len(entry.Lines))
	for i, l := range entry.Lines {
		reversing.Lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversing.EntryID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Memo:        "Reversal: " + l.Memo,
			TaxLabel:    l.TaxLabel,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	if err := s.journalRepo.SavePostedEntry(ctx, *reversing, nil); err != nil {
		logger.Error("Failed to save reversing entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	if err := s.journalRepo.MarkEntryReversed(ctx, entry.EntryID, reversing.EntryID, actorID); err != nil {
		logger.Error("Failed to mark entry reversed",
			slog.String("error", err.Error()),
			slog.String("entry_id", entryID),
			slog.String("reversing_entry_id", reversing.EntryID))
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		Action:     "journal.reversed",
		TargetType: "journal_entry",
		TargetID:   entry.EntryID,
		Metadata: map[string]string{
			"tenantID":         tenantID,
			"reference":        entry.Reference,
			"reversingEntryID": reversing.EntryID,
			"reversedBy":       actorID,
		},
	})
	logger.Info("Entry reversed",
		slog.String("entry_id", entry.EntryID),
		slog.String("reversing_entry_id", reversing.EntryID))
	return reversing, nil
}

// GetJournalEntry retrieves an entry with its lines.
func (s *journalService) GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return s.loadEntry(ctx, tenantID, entryID)
}

// GetJournalEntryByReference retrieves an entry with its lines by the
// tenant-scoped human-readable reference.
func (s *journalService) GetJournalEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByReference(ctx, tenantID, reference)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entry.EntryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListJournalEntries retrieves entry headers for a tenant, newest first.
func (s *journalService) ListJournalEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) ([]domain.JournalEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.journalRepo.ListEntriesByTenant(ctx, tenantID, limit, offset, params.IncludeReversals)
}

// DeleteDraftEntry removes a draft and its lines. Posted and reversed entries
// are immutable ledger history and can never be deleted.
func (s *journalService) DeleteDraftEntry(ctx context.Context, tenantID, entryID, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s is %s and cannot be deleted", apperrors.ErrConflict, entryID, entry.Status)
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, tenantID, entryID); err != nil {
		logger.Error("Failed to delete draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return err
	}

	s.audit.Record(ctx, domain.AuditRecord{
		Action:     "journal.draft_deleted",
		TargetType: "journal_entry",
		TargetID:   entryID,
		Metadata:   map[string]string{"tenantID": tenantID, "deletedBy": actorID},
	})
	logger.Info("Draft entry deleted", slog.String("entry_id", entryID))
	return nil
}

// loadEntry fetches a tenant-scoped entry with its lines. Cross-tenant reads
// surface as not-found, never as a permission hint.
func (s *journalService) loadEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.TenantID != tenantID {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// stampFor maps a document-sourced entry to the stamp that flips its source
// document in the posting transaction. Manual entries carry no stamp.
func stampFor(entry *domain.JournalEntry) *portsrepo.DocumentStamp {
	if entry.SourceType == domain.SourceManual || entry.SourceID == "" {
		return nil
	}
	return &portsrepo.DocumentStamp{Source: entry.SourceType, DocumentID: entry.SourceID}
}
