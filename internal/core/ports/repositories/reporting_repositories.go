package repositories

import (
	"context"
	"time"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// ReportingRepository aggregates committed journal lines. Pure reads; failed
// or in-flight entries are never visible.
type ReportingRepository interface {
	// GetAccountTotalsUpToDate sums line debits/credits per account for all
	// entries whose transaction date is on or before asOf.
	GetAccountTotalsUpToDate(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error)
	// GetAccountTotalsInRange restricts the aggregation to a date interval.
	GetAccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error)
}
