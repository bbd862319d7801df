package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	"github.com/wekeza-coop/sacco_ledger/internal/utils/accounting"
)

func debitLine(code string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountCode: code, Debit: decimal.NewFromInt(amount)}
}

func creditLine(code string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountCode: code, Credit: decimal.NewFromInt(amount)}
}

func TestSignedAmountNormalBalanceSides(t *testing.T) {
	// A debit grows assets and expenses, shrinks the rest.
	signed, err := accounting.SignedAmount(debitLine("1002", 100), domain.Asset)
	require.NoError(t, err)
	assert.True(t, signed.Equal(decimal.NewFromInt(100)))

	signed, err = accounting.SignedAmount(debitLine("2001", 100), domain.Liability)
	require.NoError(t, err)
	assert.True(t, signed.Equal(decimal.NewFromInt(-100)))

	// A credit is the mirror image.
	signed, err = accounting.SignedAmount(creditLine("4002", 100), domain.Income)
	require.NoError(t, err)
	assert.True(t, signed.Equal(decimal.NewFromInt(100)))

	signed, err = accounting.SignedAmount(creditLine("5002", 100), domain.Expense)
	require.NoError(t, err)
	assert.True(t, signed.Equal(decimal.NewFromInt(-100)))
}

func TestSignedAmountUnknownType(t *testing.T) {
	_, err := accounting.SignedAmount(debitLine("9999", 10), domain.AccountType("CONTRA"))
	assert.Error(t, err)
}

func TestValidateLineSingleSided(t *testing.T) {
	assert.NoError(t, accounting.ValidateLine(debitLine("1002", 50)))
	assert.NoError(t, accounting.ValidateLine(creditLine("2001", 50)))

	bothSides := domain.JournalLine{AccountCode: "1002", Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)}
	assert.Error(t, accounting.ValidateLine(bothSides))

	neitherSide := domain.JournalLine{AccountCode: "1002"}
	assert.Error(t, accounting.ValidateLine(neitherSide))

	negative := domain.JournalLine{AccountCode: "1002", Debit: decimal.NewFromInt(-50)}
	assert.Error(t, accounting.ValidateLine(negative))
}

func TestValidateEntryBalance(t *testing.T) {
	total, err := accounting.ValidateEntryBalance([]domain.JournalLine{
		debitLine("1002", 300),
		creditLine("2001", 200),
		creditLine("4002", 100),
	})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(300)))
}

func TestValidateEntryBalanceRejectsUnbalanced(t *testing.T) {
	_, err := accounting.ValidateEntryBalance([]domain.JournalLine{
		debitLine("1002", 300),
		creditLine("2001", 250),
	})
	assert.Error(t, err)
}

func TestValidateEntryBalanceRejectsSingleLine(t *testing.T) {
	_, err := accounting.ValidateEntryBalance([]domain.JournalLine{debitLine("1002", 300)})
	assert.Error(t, err)
}

func TestBalanceChangesAccumulatePerAccount(t *testing.T) {
	types := map[string]domain.AccountType{
		"1002": domain.Asset,
		"2001": domain.Liability,
	}
	changes, err := accounting.BalanceChanges([]domain.JournalLine{
		debitLine("1002", 100),
		debitLine("1002", 50),
		creditLine("2001", 150),
	}, types)
	require.NoError(t, err)

	// Two debits to the same asset fold into one delta.
	assert.True(t, changes["1002"].Equal(decimal.NewFromInt(150)))
	assert.True(t, changes["2001"].Equal(decimal.NewFromInt(150)))
}

func TestBalanceChangesUnknownAccount(t *testing.T) {
	_, err := accounting.BalanceChanges([]domain.JournalLine{debitLine("7777", 10)}, map[string]domain.AccountType{})
	assert.Error(t, err)
}
