package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// PostEventRequest posts a single-effect business event against its mapped
// account pair.
type PostEventRequest struct {
	EventName   string          `json:"eventName" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ReferenceNo string          `json:"referenceNo" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	// DebitAccountOverride replaces the mapping's debit account when set
	// (e.g. a payment received into bank instead of cash).
	DebitAccountOverride string `json:"debitAccountOverride,omitempty"`
}

// CompoundLine is one caller-assembled line of a compound entry. Exactly one
// of debit/credit must be non-zero.
type CompoundLine struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PostCompoundRequest posts a caller-assembled multi-line entry.
type PostCompoundRequest struct {
	Description     string         `json:"description" binding:"required"`
	ReferenceNo     string         `json:"referenceNo" binding:"required"`
	TransactionDate time.Time      `json:"transactionDate" binding:"required"`
	Lines           []CompoundLine `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse is the read projection of a posted line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is the read projection of a posted entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	TransactionDate time.Time             `json:"transactionDate"`
	PostedAt        time.Time             `json:"postedAt"`
	Description     string                `json:"description"`
	ReferenceNo     string                `json:"referenceNo"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain entry (with lines, if loaded).
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:         e.EntryID,
		TransactionDate: e.TransactionDate,
		PostedAt:        e.PostedAt,
		Description:     e.Description,
		ReferenceNo:     e.ReferenceNo,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:      line.LineID,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}
	return resp
}
