package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	"github.com/wekeza-coop/sacco_ledger/internal/models"
	"github.com/wekeza-coop/sacco_ledger/internal/utils/mapping"
)

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepository = (*PgxFiscalPeriodRepository)(nil)

const periodColumns = `period_id, name, start_date, end_date, is_active, is_closed, created_at, updated_at`

func scanPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsActive,
		&m.IsClosed,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// FindActivePeriod retrieves the single active period. The partial unique
// index on is_active guarantees at most one row.
func (r *PgxFiscalPeriodRepository) FindActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE is_active = TRUE;`

	modelPeriod, err := scanPeriod(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active fiscal period: %w", err)
	}

	domainPeriod := mapping.ToDomainFiscalPeriod(modelPeriod)
	return &domainPeriod, nil
}

// FindActivePeriodInTx retrieves the active period with a shared row lock.
// A concurrent RotatePeriod blocks on its FOR UPDATE until the surrounding
// posting transaction releases the share lock.
func (r *PgxFiscalPeriodRepository) FindActivePeriodInTx(ctx context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE is_active = TRUE FOR SHARE;`

	modelPeriod, err := scanPeriod(tx.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active fiscal period for share: %w", err)
	}

	domainPeriod := mapping.ToDomainFiscalPeriod(modelPeriod)
	return &domainPeriod, nil
}

// ListPeriods retrieves all fiscal periods, newest first.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		modelPeriod, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainFiscalPeriod(modelPeriod))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", err)
	}
	return periods, nil
}

// RotatePeriod atomically closes the current active period (if any) and
// activates the new one. The exclusive lock on the active row serializes
// rotation against every in-flight posting holding a share lock.
func (r *PgxFiscalPeriodRepository) RotatePeriod(ctx context.Context, newPeriod domain.FiscalPeriod) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	closeQuery := `
		SELECT period_id FROM fiscal_periods WHERE is_active = TRUE FOR UPDATE;
	`
	var currentID string
	err = tx.QueryRow(ctx, closeQuery).Scan(&currentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to lock active fiscal period: %w", err)
	}
	if err == nil {
		updateQuery := `
			UPDATE fiscal_periods
			SET is_active = FALSE, is_closed = TRUE, updated_at = $2
			WHERE period_id = $1;
		`
		if _, err := tx.Exec(ctx, updateQuery, currentID, newPeriod.CreatedAt); err != nil {
			return fmt.Errorf("failed to close fiscal period %s: %w", currentID, err)
		}
	}

	insertQuery := `
		INSERT INTO fiscal_periods (period_id, name, start_date, end_date, is_active, is_closed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, insertQuery,
		newPeriod.PeriodID,
		newPeriod.Name,
		newPeriod.StartDate,
		newPeriod.EndDate,
		newPeriod.IsActive,
		newPeriod.IsClosed,
		newPeriod.CreatedAt,
		newPeriod.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fiscal period %s: %w", newPeriod.PeriodID, err)
	}

	return r.Commit(ctx, tx)
}
