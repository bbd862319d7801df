package domain

import "github.com/shopspring/decimal"

// The destination records below belong to collaborator modules (savings,
// loans, fines, contribution products). The allocation processor only reads
// them to resolve a destination and adjusts their balances inside its unit of
// work; all other lifecycle management happens elsewhere.

// SavingsAccount is a member savings account balance record.
type SavingsAccount struct {
	AccountID     string          `json:"accountID"`
	MemberID      string          `json:"memberID"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
}

// Loan is an outstanding loan balance record.
type Loan struct {
	LoanID             string          `json:"loanID"`
	MemberID           string          `json:"memberID"`
	LoanNumber         string          `json:"loanNumber"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	IsActive           bool            `json:"isActive"`
}

// Fine is a penalty levied against a member.
type Fine struct {
	FineID           string          `json:"fineID"`
	MemberID         string          `json:"memberID"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Paid             bool            `json:"paid"`
	PaymentReference string          `json:"paymentReference,omitempty"`
}

// DepositProduct is a group contribution target (e.g. a building fund).
type DepositProduct struct {
	ProductID     string           `json:"productID"`
	Name          string           `json:"name"`
	CurrentAmount decimal.Decimal  `json:"currentAmount"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	IsActive      bool             `json:"isActive"`
}
