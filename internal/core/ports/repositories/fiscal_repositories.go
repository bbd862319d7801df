package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// FiscalPeriodRepository persists accounting periods. The storage layer
// guarantees at most one active period at any time.
type FiscalPeriodRepository interface {
	FindActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error)
	// FindActivePeriodInTx reads the active period with a shared row lock so a
	// concurrent rotation cannot close the period under a posting in flight.
	FindActivePeriodInTx(ctx context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	// RotatePeriod atomically closes and deactivates the current active period
	// (if any) and activates the given new one. The ledger is never left with
	// zero or multiple active periods.
	RotatePeriod(ctx context.Context, newPeriod domain.FiscalPeriod) error
}

// EventMappingRepository persists the business-event to account-pair registry.
type EventMappingRepository interface {
	FindByEventName(ctx context.Context, eventName string) (*domain.EventMapping, error)
	UpsertMapping(ctx context.Context, mapping domain.EventMapping) error
	ListMappings(ctx context.Context) ([]domain.EventMapping, error)
}
