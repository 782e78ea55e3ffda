package services

import (
	"context"
	"errors"
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
)

// expenseService is the expense document adapter: it records expenses,
// derives tax from stored rates, enforces approval authority, and turns an
// approved expense into a posted entry.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	taxRateRepo portsrepo.TaxRateRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditSink
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	taxRateRepo portsrepo.TaxRateRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	audit portssvc.AuditSink,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		journalRepo: journalRepo,
		taxRateRepo: taxRateRepo,
		accountSvc:  accountSvc,
		audit:       audit,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense records a draft expense. A tax rate code overrides any stated
// tax amount: exclusive rates compute tax on top of the stated amount,
// inclusive rates carve the embedded tax out of it.
func (s *expenseService) CreateExpense(ctx context.Context, tenantID string, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	if req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: expense tax amount must not be negative", apperrors.ErrValidation)
	}

	amount := req.Amount
	taxAmount := req.TaxAmount
	if req.TaxRateCode != "" {
		rate, err := resolveEffectiveRate(ctx, s.taxRateRepo, tenantID, req.TaxRateCode, req.Date)
		if err != nil {
			return nil, err
		}
		if rate.IsInclusive {
			taxAmount = rate.InclusiveTaxPortion(req.Amount)
			amount = req.Amount.Sub(taxAmount)
		} else {
			taxAmount = rate.TaxAmount(amount)
		}
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:        uuid.NewString(),
		TenantID:         tenantID,
		Reference:        req.Reference,
		Payee:            req.Payee,
		ExpenseDate:      req.Date,
		Amount:           amount,
		TaxAmount:        taxAmount,
		Status:           domain.DocDraft,
		ExpenseAccountID: req.ExpenseAccountID,
		PaymentAccountID: req.PaymentAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: expense reference %s already exists", apperrors.ErrDuplicate, req.Reference)
		}
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("reference", req.Reference))
		return nil, err
	}

	logger.Info("Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("reference", expense.Reference),
		slog.String("total", expense.GrandTotal().StringFixed(2)))
	return &expense, nil
}

// GetExpenseByID retrieves an expense by its identifier.
func (s *expenseService) GetExpenseByID(ctx context.Context, tenantID, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, tenantID, expenseID)
}

// ListExpenses retrieves expenses for a tenant, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, tenantID string, limit, offset int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.expenseRepo.ListExpenses(ctx, tenantID, limit, offset)
}

// UpdateExpenseStatus moves an expense through the review lifecycle with the
// same transition rules as invoices.
func (s *expenseService) UpdateExpenseStatus(ctx context.Context, tenantID, expenseID string, status domain.DocumentStatus, actorID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := validateDocTransition(expense.Status, status); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, tenantID, expenseID, status, actorID); err != nil {
		logger.Error("Failed to update expense status",
			slog.String("error", err.Error()),
			slog.String("expense_id", expenseID))
		return nil, err
	}

	expense.Status = status
	expense.LastUpdatedAt = time.Now().UTC()
	expense.LastUpdatedBy = actorID
	logger.Info("Expense status updated",
		slog.String("expense_id", expenseID),
		slog.String("status", string(status)))
	return expense, nil
}

// PostExpense checks the approver's authority against the expense total, then
// derives, posts, and stamps in one atomic unit. The authority check runs
// before anything is built, so an over-limit approval never reaches storage.
func (s *expenseService) PostExpense(ctx context.Context, tenantID, expenseID, actorID string, req dto.PostExpenseRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == domain.DocPosted {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrAlreadyPosted, expense.Reference)
	}
	if expense.Status == domain.DocRejected {
		return nil, fmt.Errorf("%w: expense %s is rejected", apperrors.ErrValidation, expense.Reference)
	}

	total := expense.GrandTotal()
	if req.ApprovalLimit != nil && total.GreaterThan(*req.ApprovalLimit) {
		return nil, fmt.Errorf("%w: expense total %s exceeds approval limit %s",
			apperrors.ErrInsufficientAuthority, total.StringFixed(2), req.ApprovalLimit.StringFixed(2))
	}

	builder := &ExpenseEntryBuilder{Accounts: s.accountSvc, Expense: expense}
	entry, err := builder.BuildEntry(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = actorID

	stamp := &portsrepo.DocumentStamp{Source: domain.SourceExpense, DocumentID: expense.ExpenseID}
	if err := s.journalRepo.SavePostedEntry(ctx, *entry, stamp); err != nil {
		logger.Error("Failed to post expense entry",
			slog.String("error", err.Error()),
			slog.String("expense_id", expenseID))
		return nil, err
	}

	expense.Status = domain.DocPosted
	expense.JournalEntryID = &entry.EntryID
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID

	s.audit.Record(ctx, domain.AuditRecord{
		Action:     "expense.posted",
		TargetType: "expense",
		TargetID:   expense.ExpenseID,
		Metadata: map[string]string{
			"tenantID": tenantID,
			"entryID":  entry.EntryID,
			"total":    total.StringFixed(2),
			"postedBy": actorID,
		},
	})
	logger.Info("Expense posted",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("entry_id", entry.EntryID))
	return expense, nil
}
