package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single, balanced financial event composed of two
// or more lines. Entries are created atomically with all of their lines and
// are immutable once posted.
type JournalEntry struct {
	EntryID         string        `json:"entryID"`
	TransactionDate time.Time     `json:"transactionDate"` // Date the business event occurred
	PostedAt        time.Time     `json:"postedAt"`        // When the entry was written to the ledger
	Description     string        `json:"description"`
	ReferenceNo     string        `json:"referenceNo"` // Correlates to the originating business transaction
	Lines           []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single debit or credit against one account. Exactly one of
// Debit and Credit is non-zero; the other is exactly zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// IsDebit reports whether this line is the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
