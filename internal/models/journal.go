package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of a posted entry header.
type JournalEntry struct {
	EntryID         string    `db:"entry_id"`
	TransactionDate time.Time `db:"transaction_date"`
	PostedAt        time.Time `db:"posted_at"`
	Description     string    `db:"description"`
	ReferenceNo     string    `db:"reference_no"`
}

// JournalLine is the database representation of a single debit/credit line.
// The line holds a plain foreign key to its entry; there is no back-pointer.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
