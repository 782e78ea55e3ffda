package services_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/core/services"
	"github.com/openclerk/ledger/internal/utils/accounting"
)

// memoryLedger is a mutex-guarded in-memory journal store. It mirrors the
// pgsql repository's posting contract: the draft-to-posted flip and the
// balance effects of every line land under one lock, and a second flip of the
// same entry fails.
type memoryLedger struct {
	mu       sync.Mutex
	entries  map[string]domain.JournalEntry
	lines    map[string][]domain.JournalLine
	balances map[string]decimal.Decimal
	normals  map[string]domain.NormalBalance
	versions map[string]int64
}

var _ portsrepo.JournalRepositoryFacade = (*memoryLedger)(nil)

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		entries:  make(map[string]domain.JournalEntry),
		lines:    make(map[string][]domain.JournalLine),
		balances: make(map[string]decimal.Decimal),
		normals:  make(map[string]domain.NormalBalance),
		versions: make(map[string]int64),
	}
}

func (l *memoryLedger) addAccount(accountID string, normal domain.NormalBalance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[accountID] = decimal.Zero
	l.normals[accountID] = normal
	l.versions[accountID] = 1
}

func (l *memoryLedger) balance(accountID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountID]
}

func (l *memoryLedger) version(accountID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.versions[accountID]
}

func (l *memoryLedger) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (l *memoryLedger) FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.TenantID == tenantID && entry.Reference == reference {
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, reference)
}

func (l *memoryLedger) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := make([]domain.JournalLine, len(l.lines[entryID]))
	copy(lines, l.lines[entryID])
	return lines, nil
}

func (l *memoryLedger) ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int, includeReversals bool) ([]domain.JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []domain.JournalEntry
	for _, entry := range l.entries {
		if entry.TenantID == tenantID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (l *memoryLedger) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.storeLocked(entry)
	return nil
}

func (l *memoryLedger) PostExistingEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored, ok := l.entries[entry.EntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	if stored.Status != domain.Draft {
		return fmt.Errorf("%w: journal entry %s is %s", apperrors.ErrConflict, entry.EntryID, stored.Status)
	}
	l.storeLocked(entry)
	l.applyLocked(entry.Lines)
	return nil
}

func (l *memoryLedger) SavePostedEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.storeLocked(entry)
	l.applyLocked(entry.Lines)
	return nil
}

func (l *memoryLedger) MarkEntryReversed(ctx context.Context, entryID, reversingEntryID, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	entry.Status = domain.Reversed
	entry.ReversingEntryID = &reversingEntryID
	l.entries[entryID] = entry
	return nil
}

func (l *memoryLedger) DeleteDraftEntry(ctx context.Context, tenantID, entryID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, entryID)
	delete(l.lines, entryID)
	return nil
}

func (l *memoryLedger) storeLocked(entry domain.JournalEntry) {
	lines := make([]domain.JournalLine, len(entry.Lines))
	copy(lines, entry.Lines)
	entry.Lines = nil
	l.entries[entry.EntryID] = entry
	l.lines[entry.EntryID] = lines
}

func (l *memoryLedger) applyLocked(lines []domain.JournalLine) {
	for _, line := range lines {
		l.balances[line.AccountID] = accounting.ApplyEffect(l.normals[line.AccountID], l.balances[line.AccountID], line.Debit, line.Credit)
		l.versions[line.AccountID]++
	}
}

// quietAuditSink drops records; the concurrency tests only care about balances.
type quietAuditSink struct{}

var _ portssvc.AuditSink = (*quietAuditSink)(nil)

func (quietAuditSink) Record(ctx context.Context, rec domain.AuditRecord) {}

func seedDraft(ledger *memoryLedger, tenantID, debitAccountID, creditAccountID string, amount decimal.Decimal, n int) domain.JournalEntry {
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:    entryID,
		TenantID:   tenantID,
		Reference:  fmt.Sprintf("JE-C%03d", n),
		EntryDate:  time.Now().UTC(),
		Status:     domain.Draft,
		SourceType: domain.SourceManual,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: debitAccountID, Debit: amount, Credit: decimal.Zero},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: creditAccountID, Debit: decimal.Zero, Credit: amount},
		},
	}
	ledger.mu.Lock()
	ledger.storeLocked(entry)
	ledger.mu.Unlock()
	return entry
}

func TestConcurrentPostingsAccumulateAllEffects(t *testing.T) {
	ledger := newMemoryLedger()
	service := services.NewJournalService(ledger, new(MockAccountService), quietAuditSink{})
	ctx := context.Background()
	tenantID := uuid.NewString()
	actorID := uuid.NewString()

	cashID := uuid.NewString()
	payableID := uuid.NewString()
	ledger.addAccount(cashID, domain.DebitNormal)
	ledger.addAccount(payableID, domain.CreditNormal)

	const n = 32
	rng := rand.New(rand.NewSource(7))
	expected := decimal.Zero
	entries := make([]domain.JournalEntry, n)
	for i := range entries {
		amount := decimal.NewFromInt(int64(1 + rng.Intn(100000))).Div(decimal.NewFromInt(100))
		entries[i] = seedDraft(ledger, tenantID, cashID, payableID, amount, i)
		expected = expected.Add(amount)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Post(ctx, tenantID, entries[i].EntryID, actorID, portssvc.PostOptions{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "posting %d", i)
	}
	assert.True(t, expected.Equal(ledger.balance(cashID)),
		"cash balance %s, want %s", ledger.balance(cashID), expected)
	assert.True(t, expected.Equal(ledger.balance(payableID)),
		"payable balance %s, want %s", ledger.balance(payableID), expected)
	assert.Equal(t, int64(1+n), ledger.version(cashID))
	assert.Equal(t, int64(1+n), ledger.version(payableID))
}

func TestConcurrentDoublePostAppliesEffectsOnce(t *testing.T) {
	ledger := newMemoryLedger()
	service := services.NewJournalService(ledger, new(MockAccountService), quietAuditSink{})
	ctx := context.Background()
	tenantID := uuid.NewString()
	actorID := uuid.NewString()

	cashID := uuid.NewString()
	payableID := uuid.NewString()
	ledger.addAccount(cashID, domain.DebitNormal)
	ledger.addAccount(payableID, domain.CreditNormal)

	amount := decimal.RequireFromString("250.00")
	entry := seedDraft(ledger, tenantID, cashID, payableID, amount, 0)

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Post(ctx, tenantID, entry.EntryID, actorID, portssvc.PostOptions{})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, errors.Is(err, apperrors.ErrAlreadyPosted) || errors.Is(err, apperrors.ErrConflict),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded, "exactly one racer should win the flip")
	assert.True(t, amount.Equal(ledger.balance(cashID)), "effects applied more than once")
	assert.True(t, amount.Equal(ledger.balance(payableID)))
	assert.Equal(t, int64(2), ledger.version(cashID))
}
