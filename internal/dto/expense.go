package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// CreateExpenseRequest is the payload for recording a draft expense.
type CreateExpenseRequest struct {
	Reference   string          `json:"reference" binding:"required"`
	Payee       string          `json:"payee" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	TaxRateCode string          `json:"taxRateCode"` // When set, TaxAmount is derived from the rate
	// Optional explicit account designations for the posting.
	ExpenseAccountID string `json:"expenseAccountID"`
	PaymentAccountID string `json:"paymentAccountID"`
}

// PostExpenseRequest carries the approval context for posting an expense.
// ApprovalLimit is the acting approver's spending authority; nil skips the
// limit check (the caller vouches for unlimited authority).
type PostExpenseRequest struct {
	ApprovalLimit *decimal.Decimal `json:"approvalLimit"`
}

// ExpenseResponse is the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID      string          `json:"expenseID"`
	Reference      string          `json:"reference"`
	Payee          string          `json:"payee"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToExpenseResponse converts a domain.Expense.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:      e.ExpenseID,
		Reference:      e.Reference,
		Payee:          e.Payee,
		Date:           e.ExpenseDate,
		Amount:         e.Amount,
		TaxAmount:      e.TaxAmount,
		Total:          e.GrandTotal(),
		Status:         string(e.Status),
		JournalEntryID: e.JournalEntryID,
		CreatedAt:      e.CreatedAt,
	}
}
