package dto

import (
	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// CreateAccountRequest registers a manual GL account.
type CreateAccountRequest struct {
	Code string             `json:"code" binding:"required"`
	Name string             `json:"name" binding:"required"`
	Type domain.AccountType `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

// SetAccountActiveRequest toggles the active flag of an account.
type SetAccountActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// AccountResponse is the balance snapshot exposed to dashboards/statements.
type AccountResponse struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Type     domain.AccountType `json:"type"`
	Balance  decimal.Decimal    `json:"balance"`
	IsActive bool               `json:"isActive"`
}

// ToAccountResponse converts a domain account.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:     a.Code,
		Name:     a.Name,
		Type:     a.Type,
		Balance:  a.Balance,
		IsActive: a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
