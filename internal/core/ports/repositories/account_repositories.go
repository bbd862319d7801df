package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// AccountRepository persists the chart of accounts. Balance columns are only
// written through the InTx methods, from within the posting engine's unit of
// work.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	SetAccountActive(ctx context.Context, code string, active bool, now time.Time) error

	// FindAccountsByCodesForUpdate locks the account rows for the duration of
	// the surrounding transaction and fails if any code is missing.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error)
	// UpdateAccountBalancesInTx applies signed balance deltas to the locked rows.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}
