package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// AllocationRequest is one destination-and-amount slice of a deposit.
type AllocationRequest struct {
	DestinationType domain.DestinationType `json:"destinationType" binding:"required,oneof=SAVINGS_ACCOUNT LOAN FINE DEPOSIT_PRODUCT"`
	DestinationID   string                 `json:"destinationID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
}

// CreateDepositRequest registers a confirmed incoming payment split across
// one or more destinations. The payment reference is the idempotency key.
type CreateDepositRequest struct {
	MemberID         string              `json:"memberID" binding:"required"`
	TotalAmount      decimal.Decimal     `json:"totalAmount" binding:"required"`
	PaymentReference string              `json:"paymentReference" binding:"required"`
	Notes            string              `json:"notes"`
	Allocations      []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// AllocationResponse is the read projection of one allocation.
type AllocationResponse struct {
	AllocationID    string                  `json:"allocationID"`
	DestinationType domain.DestinationType  `json:"destinationType"`
	DestinationID   string                  `json:"destinationID"`
	Amount          decimal.Decimal         `json:"amount"`
	Status          domain.AllocationStatus `json:"status"`
	ErrorMessage    string                  `json:"errorMessage,omitempty"`
}

// DepositResponse is the read projection of a deposit with its allocations.
type DepositResponse struct {
	DepositID        string               `json:"depositID"`
	MemberID         string               `json:"memberID"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	Status           domain.DepositStatus `json:"status"`
	PaymentReference string               `json:"paymentReference"`
	Notes            string               `json:"notes,omitempty"`
	Error            string               `json:"error,omitempty"`
	Allocations      []AllocationResponse `json:"allocations"`
	CreatedAt        time.Time            `json:"createdAt"`
	ProcessedAt      *time.Time           `json:"processedAt,omitempty"`
}

// ToDepositResponse converts a domain deposit.
func ToDepositResponse(d *domain.Deposit) DepositResponse {
	resp := DepositResponse{
		DepositID:        d.DepositID,
		MemberID:         d.MemberID,
		TotalAmount:      d.TotalAmount,
		Status:           d.Status,
		PaymentReference: d.PaymentReference,
		Notes:            d.Notes,
		Error:            d.Error,
		Allocations:      make([]AllocationResponse, 0, len(d.Allocations)),
		CreatedAt:        d.CreatedAt,
		ProcessedAt:      d.ProcessedAt,
	}
	for _, a := range d.Allocations {
		resp.Allocations = append(resp.Allocations, AllocationResponse{
			AllocationID:    a.AllocationID,
			DestinationType: a.DestinationType,
			DestinationID:   a.DestinationID,
			Amount:          a.Amount,
			Status:          a.Status,
			ErrorMessage:    a.ErrorMessage,
		})
	}
	return resp
}
