package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openclerk/ledger/internal/core/domain"
)

func line(debit, credit string) domain.JournalLine {
	return domain.JournalLine{
		Debit:  decimal.RequireFromString(debit),
		Credit: decimal.RequireFromString(credit),
	}
}

func TestJournalEntryTotals(t *testing.T) {
	entry := domain.JournalEntry{
		Lines: []domain.JournalLine{
			line("1000.00", "0"),
			line("120.00", "0"),
			line("0", "1120.00"),
		},
	}

	assert.True(t, decimal.RequireFromString("1120.00").Equal(entry.TotalDebits()))
	assert.True(t, decimal.RequireFromString("1120.00").Equal(entry.TotalCredits()))
}

func TestJournalEntryIsBalanced(t *testing.T) {
	balanced := domain.JournalEntry{
		Lines: []domain.JournalLine{
			line("500.00", "0"),
			line("0", "500.00"),
		},
	}
	assert.True(t, balanced.IsBalanced())

	imbalanced := domain.JournalEntry{
		Lines: []domain.JournalLine{
			line("500.00", "0"),
			line("0", "400.00"),
		},
	}
	assert.False(t, imbalanced.IsBalanced())
}

func TestJournalEntryIsBalancedRoundsToTwoPlaces(t *testing.T) {
	// 33.333 + 66.667 debits vs a single 100.00 credit: equal after rounding.
	entry := domain.JournalEntry{
		Lines: []domain.JournalLine{
			line("33.333", "0"),
			line("66.667", "0"),
			line("0", "100.00"),
		},
	}
	assert.True(t, entry.IsBalanced())
}

func TestJournalEntryCanPost(t *testing.T) {
	entry := domain.JournalEntry{
		Status: domain.Draft,
		Lines: []domain.JournalLine{
			line("100.00", "0"),
			line("0", "100.00"),
		},
	}
	assert.True(t, entry.CanPost())

	entry.Status = domain.Posted
	assert.False(t, entry.CanPost())

	single := domain.JournalEntry{
		Status: domain.Draft,
		Lines:  []domain.JournalLine{line("100.00", "0")},
	}
	assert.False(t, single.CanPost())
}

func TestJournalLineNetAmount(t *testing.T) {
	debitLine := line("250.00", "0")
	assert.True(t, decimal.RequireFromString("250.00").Equal(debitLine.NetAmount()))

	creditLine := line("0", "250.00")
	assert.True(t, decimal.RequireFromString("-250.00").Equal(creditLine.NetAmount()))
}
