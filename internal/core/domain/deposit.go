package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus tracks a deposit through its processing pass.
type DepositStatus string

const (
	DepositPending    DepositStatus = "PENDING"
	DepositProcessing DepositStatus = "PROCESSING"
	DepositCompleted  DepositStatus = "COMPLETED"
	DepositFailed     DepositStatus = "FAILED"
)

// AllocationStatus mirrors the parent deposit's processing pass.
type AllocationStatus string

const (
	AllocationPending   AllocationStatus = "PENDING"
	AllocationCompleted AllocationStatus = "COMPLETED"
	AllocationFailed    AllocationStatus = "FAILED"
)

// DestinationType identifies where one slice of a deposit is routed.
type DestinationType string

const (
	DestinationSavingsAccount DestinationType = "SAVINGS_ACCOUNT"
	DestinationLoan           DestinationType = "LOAN"
	DestinationFine           DestinationType = "FINE"
	DestinationDepositProduct DestinationType = "DEPOSIT_PRODUCT"
)

// Deposit is a single confirmed incoming payment split across one or more
// destinations. The external payment reference is the idempotency key: a
// re-delivered confirmation for an already completed deposit must not post
// again.
type Deposit struct {
	DepositID        string          `json:"depositID"`
	MemberID         string          `json:"memberID"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           DepositStatus   `json:"status"`
	PaymentReference string          `json:"paymentReference"` // Unique
	Notes            string          `json:"notes"`
	Error            string          `json:"error,omitempty"`
	Allocations      []Allocation    `json:"allocations,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	ProcessedAt      *time.Time      `json:"processedAt,omitempty"`
}

// Allocation is one destination-and-amount slice of a deposit.
type Allocation struct {
	AllocationID    string           `json:"allocationID"`
	DepositID       string           `json:"depositID"`
	DestinationType DestinationType  `json:"destinationType"`
	DestinationID   string           `json:"destinationID"`
	Amount          decimal.Decimal  `json:"amount"`
	Status          AllocationStatus `json:"status"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
}
