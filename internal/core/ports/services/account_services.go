package services

import (
	"context"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
)

// AccountSvcFacade manages the chart of accounts. Balances are mutated only by
// the posting engine, never through this facade.
type AccountSvcFacade interface {
	RegisterAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	SetAccountActive(ctx context.Context, code string, active bool) (*domain.Account, error)
}

// MappingSvcFacade is the business-event to account-pair registry.
type MappingSvcFacade interface {
	// Resolve returns the mapping for a named event. An unmapped event is a
	// configuration error; it is never silently defaulted.
	Resolve(ctx context.Context, eventName string) (*domain.EventMapping, error)
	UpsertMapping(ctx context.Context, req dto.UpsertMappingRequest) (*domain.EventMapping, error)
	ListMappings(ctx context.Context) ([]domain.EventMapping, error)
}
