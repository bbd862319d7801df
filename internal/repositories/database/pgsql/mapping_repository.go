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

type PgxEventMappingRepository struct {
	pool *pgxpool.Pool
}

// newPgxEventMappingRepository creates a new repository for GL event mappings.
func newPgxEventMappingRepository(pool *pgxpool.Pool) portsrepo.EventMappingRepository {
	return &PgxEventMappingRepository{pool: pool}
}

var _ portsrepo.EventMappingRepository = (*PgxEventMappingRepository)(nil)

const mappingColumns = `event_name, debit_account_code, credit_account_code, description_template, created_at, updated_at`

func scanMapping(row pgx.Row) (models.EventMapping, error) {
	var m models.EventMapping
	err := row.Scan(
		&m.EventName,
		&m.DebitAccountCode,
		&m.CreditAccountCode,
		&m.DescriptionTemplate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// FindByEventName retrieves the mapping registered for an event.
func (r *PgxEventMappingRepository) FindByEventName(ctx context.Context, eventName string) (*domain.EventMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM gl_mappings WHERE event_name = $1;`

	modelMapping, err := scanMapping(r.pool.QueryRow(ctx, query, eventName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mapping for event %s: %w", eventName, err)
	}

	domainMapping := mapping.ToDomainEventMapping(modelMapping)
	return &domainMapping, nil
}

// UpsertMapping inserts or replaces the account pair for an event.
func (r *PgxEventMappingRepository) UpsertMapping(ctx context.Context, m domain.EventMapping) error {
	query := `
		INSERT INTO gl_mappings (event_name, debit_account_code, credit_account_code, description_template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_name) DO UPDATE
		SET debit_account_code = EXCLUDED.debit_account_code,
		    credit_account_code = EXCLUDED.credit_account_code,
		    description_template = EXCLUDED.description_template,
		    updated_at = EXCLUDED.updated_at;
	`
	_, err := r.pool.Exec(ctx, query,
		m.EventName,
		m.DebitAccountCode,
		m.CreditAccountCode,
		m.DescriptionTemplate,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert mapping for event %s: %w", m.EventName, err)
	}
	return nil
}

// ListMappings retrieves all registered event mappings ordered by event name.
func (r *PgxEventMappingRepository) ListMappings(ctx context.Context) ([]domain.EventMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM gl_mappings ORDER BY event_name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query event mappings: %w", err)
	}
	defer rows.Close()

	mappings := []domain.EventMapping{}
	for rows.Next() {
		modelMapping, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event mapping row: %w", err)
		}
		mappings = append(mappings, mapping.ToDomainEventMapping(modelMapping))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event mapping rows: %w", err)
	}
	return mappings, nil
}
