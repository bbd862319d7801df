package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for storage.
type AccountType string

// Account is the database representation of a GL account.
type Account struct {
	Code      string          `db:"code"`
	Name      string          `db:"name"`
	Type      AccountType     `db:"account_type"`
	Balance   decimal.Decimal `db:"balance"`
	IsActive  bool            `db:"is_active"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
