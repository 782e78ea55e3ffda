package accounting

import (
	"fmt"

	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyEffect returns the account balance after applying one line's debit and
// credit. The asymmetry is the core accounting rule and must not be inverted:
// a debit-normal account grows by debit - credit, a credit-normal account by
// credit - debit. Shared by services and repositories so balance math never
// diverges between validation and persistence.
func ApplyEffect(normal domain.NormalBalance, balance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == domain.DebitNormal {
		return balance.Add(debit).Sub(credit)
	}
	return balance.Add(credit).Sub(debit)
}

// EntryTotals sums the debit and credit sides of an entry's lines.
func EntryTotals(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// ValidateEntryBalance checks the double-entry invariant over an entry's lines:
// at least two lines, no negative sides, and debits equal to credits when
// rounded to two decimal places.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}

	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("line %s carries a negative amount", l.LineID)
		}
	}

	debits, credits := EntryTotals(lines)
	if !debits.Round(2).Equal(credits.Round(2)) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s", debits.String(), credits.String())
	}

	return nil
}
