package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is the database representation of a multi-destination deposit.
type Deposit struct {
	DepositID        string          `db:"deposit_id"`
	MemberID         string          `db:"member_id"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	PaymentReference string          `db:"payment_reference"`
	Notes            string          `db:"notes"`
	Error            string          `db:"error"`
	CreatedAt        time.Time       `db:"created_at"`
	ProcessedAt      *time.Time      `db:"processed_at"`
}

// DepositAllocation is the database representation of one allocation slice.
type DepositAllocation struct {
	AllocationID    string          `db:"allocation_id"`
	DepositID       string          `db:"deposit_id"`
	DestinationType string          `db:"destination_type"`
	DestinationID   string          `db:"destination_id"`
	Amount          decimal.Decimal `db:"amount"`
	Status          string          `db:"status"`
	ErrorMessage    string          `db:"error_message"`
}
