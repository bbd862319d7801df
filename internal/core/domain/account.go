package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of a GL account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// DebitIncreases reports whether a debit grows the balance for this account
// type (the "normal balance side" convention).
func (t AccountType) DebitIncreases() bool {
	return t == Asset || t == Expense
}

// Account represents a single GL account in the chart of accounts.
// The balance is the cumulative signed sum of all posted lines under the
// normal-balance convention and is only ever mutated by the posting engine.
type Account struct {
	Code      string          `json:"code"` // Primary key, e.g. "1002"
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"` // Accounts are deactivated, never deleted
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
