package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// SignedAmount applies the normal-balance convention to a journal line for the
// given account type and returns the delta to apply to the account balance.
// DEBIT to ASSET/EXPENSE -> positive, CREDIT -> negative;
// DEBIT to LIABILITY/EQUITY/INCOME -> negative, CREDIT -> positive.
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Amount()
	switch accountType {
	case domain.Asset, domain.Expense:
		if !line.IsDebit() {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Income:
		if line.IsDebit() {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountCode)
	}
	return amount, nil
}

// ValidateLine checks that exactly one of debit/credit is non-zero and that
// the non-zero side is positive.
func ValidateLine(line domain.JournalLine) error {
	debitSet := !line.Debit.IsZero()
	creditSet := !line.Credit.IsZero()
	if debitSet == creditSet {
		return fmt.Errorf("line for account %s must have exactly one of debit/credit non-zero", line.AccountCode)
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("line amount must be positive for account %s", line.AccountCode)
	}
	return nil
}

// ValidateEntryBalance checks the double-entry invariant for a set of lines:
// at least two lines, every line single-sided, and total debits equal total
// credits. It returns the common total on success.
func ValidateEntryBalance(lines []domain.JournalLine) (decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, fmt.Errorf("entry must have at least two lines")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return decimal.Zero, err
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return decimal.Zero, fmt.Errorf("entry is unbalanced: debits %s, credits %s", debits.String(), credits.String())
	}
	return debits, nil
}

// BalanceChanges folds a set of validated lines into per-account signed
// balance deltas.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountCode]
		if !ok {
			return nil, fmt.Errorf("account type not found for account %s", line.AccountCode)
		}
		signed, err := SignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountCode] = changes[line.AccountCode].Add(signed)
	}
	return changes, nil
}
