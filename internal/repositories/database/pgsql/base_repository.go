package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// PgxTxManager is the unit-of-work boundary for the posting engine and the
// allocation processor.
type PgxTxManager struct {
	BaseRepository
}

// newPgxTxManager creates a transaction manager over the pool.
func newPgxTxManager(pool *pgxpool.Pool) portsrepo.TxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TxManager = (*PgxTxManager)(nil)

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits successfully
	defer m.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}
