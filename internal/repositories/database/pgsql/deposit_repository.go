package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	"github.com/wekeza-coop/sacco_ledger/internal/models"
	"github.com/wekeza-coop/sacco_ledger/internal/utils/mapping"
)

type PgxDepositRepository struct {
	BaseRepository
}

// newPgxDepositRepository creates a new repository for deposit data.
func newPgxDepositRepository(pool *pgxpool.Pool) portsrepo.DepositRepository {
	return &PgxDepositRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DepositRepository = (*PgxDepositRepository)(nil)

const depositColumns = `deposit_id, member_id, total_amount, status, payment_reference, notes, error, created_at, processed_at`

func scanDeposit(row pgx.Row) (models.Deposit, error) {
	var m models.Deposit
	err := row.Scan(
		&m.DepositID,
		&m.MemberID,
		&m.TotalAmount,
		&m.Status,
		&m.PaymentReference,
		&m.Notes,
		&m.Error,
		&m.CreatedAt,
		&m.ProcessedAt,
	)
	return m, err
}

// CreateDeposit inserts the deposit and all of its allocations atomically.
func (r *PgxDepositRepository) CreateDeposit(ctx context.Context, deposit domain.Deposit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	depositQuery := `
		INSERT INTO deposits (deposit_id, member_id, total_amount, status, payment_reference, notes, error, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, depositQuery,
		deposit.DepositID,
		deposit.MemberID,
		deposit.TotalAmount,
		string(deposit.Status),
		deposit.PaymentReference,
		deposit.Notes,
		deposit.Error,
		deposit.CreatedAt,
		deposit.ProcessedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: deposit with payment reference %s already exists", apperrors.ErrDuplicate, deposit.PaymentReference)
		}
		return fmt.Errorf("failed to insert deposit %s: %w", deposit.DepositID, err)
	}

	allocationQuery := `
		INSERT INTO deposit_allocations (allocation_id, deposit_id, destination_type, destination_id, amount, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, alloc := range deposit.Allocations {
		batch.Queue(allocationQuery,
			alloc.AllocationID,
			alloc.DepositID,
			string(alloc.DestinationType),
			alloc.DestinationID,
			alloc.Amount,
			string(alloc.Status),
			alloc.ErrorMessage,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert allocations for deposit %s: %w", deposit.DepositID, err)
	}

	return r.Commit(ctx, tx)
}

// FindDepositByID retrieves a deposit with its allocations.
func (r *PgxDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE deposit_id = $1;`
	return r.findOne(ctx, query, depositID)
}

// FindDepositByPaymentReference retrieves a deposit by its idempotency key.
func (r *PgxDepositRepository) FindDepositByPaymentReference(ctx context.Context, paymentReference string) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE payment_reference = $1;`
	return r.findOne(ctx, query, paymentReference)
}

func (r *PgxDepositRepository) findOne(ctx context.Context, query string, arg any) (*domain.Deposit, error) {
	modelDeposit, err := scanDeposit(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deposit: %w", err)
	}

	domainDeposit := mapping.ToDomainDeposit(modelDeposit)
	allocations, err := r.findAllocations(ctx, domainDeposit.DepositID)
	if err != nil {
		return nil, err
	}
	domainDeposit.Allocations = allocations
	return &domainDeposit, nil
}

func (r *PgxDepositRepository) findAllocations(ctx context.Context, depositID string) ([]domain.Allocation, error) {
	query := `
		SELECT allocation_id, deposit_id, destination_type, destination_id, amount, status, error_message
		FROM deposit_allocations
		WHERE deposit_id = $1
		ORDER BY allocation_id;
	`
	rows, err := r.Pool.Query(ctx, query, depositID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for deposit %s: %w", depositID, err)
	}
	defer rows.Close()

	allocations := []domain.Allocation{}
	for rows.Next() {
		var m models.DepositAllocation
		err := rows.Scan(
			&m.AllocationID,
			&m.DepositID,
			&m.DestinationType,
			&m.DestinationID,
			&m.Amount,
			&m.Status,
			&m.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row for deposit %s: %w", depositID, err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows for deposit %s: %w", depositID, err)
	}
	return allocations, nil
}

// ListDepositsByMember retrieves all deposits for a member, newest first,
// with allocations attached.
func (r *PgxDepositRepository) ListDepositsByMember(ctx context.Context, memberID string) ([]domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE member_id = $1 ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits for member %s: %w", memberID, err)
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		modelDeposit, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit row for member %s: %w", memberID, err)
		}
		deposits = append(deposits, mapping.ToDomainDeposit(modelDeposit))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit rows for member %s: %w", memberID, err)
	}

	for i := range deposits {
		allocations, err := r.findAllocations(ctx, deposits[i].DepositID)
		if err != nil {
			return nil, err
		}
		deposits[i].Allocations = allocations
	}
	return deposits, nil
}

// UpdateDepositStatus records a status transition outside the processing
// transaction.
func (r *PgxDepositRepository) UpdateDepositStatus(ctx context.Context, depositID string, status domain.DepositStatus, errMsg string, processedAt *time.Time) error {
	query := `
		UPDATE deposits
		SET status = $2, error = $3, processed_at = $4
		WHERE deposit_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, depositID, string(status), errMsg, processedAt)
	if err != nil {
		return fmt.Errorf("failed to update status for deposit %s: %w", depositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FailDeposit records the failure on the deposit and flips every allocation
// that is not already FAILED. Allocations already marked FAILED keep their own
// error message.
func (r *PgxDepositRepository) FailDeposit(ctx context.Context, depositID string, errMsg string, processedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	depositQuery := `
		UPDATE deposits
		SET status = $2, error = $3, processed_at = $4
		WHERE deposit_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, depositQuery, depositID, string(domain.DepositFailed), errMsg, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark deposit %s failed: %w", depositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	allocationQuery := `
		UPDATE deposit_allocations
		SET status = $2
		WHERE deposit_id = $1 AND status <> $2;
	`
	if _, err := tx.Exec(ctx, allocationQuery, depositID, string(domain.AllocationFailed)); err != nil {
		return fmt.Errorf("failed to fail allocations for deposit %s: %w", depositID, err)
	}

	return r.Commit(ctx, tx)
}

// ResetDepositForRetry rewinds a failed deposit to PENDING and swaps in the
// redelivered allocation set, all under the original deposit row.
func (r *PgxDepositRepository) ResetDepositForRetry(ctx context.Context, deposit domain.Deposit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	depositQuery := `
		UPDATE deposits
		SET total_amount = $2, status = $3, notes = $4, error = '', processed_at = NULL
		WHERE deposit_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, depositQuery, deposit.DepositID, deposit.TotalAmount, string(domain.DepositPending), deposit.Notes)
	if err != nil {
		return fmt.Errorf("failed to reset deposit %s: %w", deposit.DepositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deposit_allocations WHERE deposit_id = $1;`, deposit.DepositID); err != nil {
		return fmt.Errorf("failed to clear allocations for deposit %s: %w", deposit.DepositID, err)
	}

	allocationQuery := `
		INSERT INTO deposit_allocations (allocation_id, deposit_id, destination_type, destination_id, amount, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, alloc := range deposit.Allocations {
		batch.Queue(allocationQuery,
			alloc.AllocationID,
			alloc.DepositID,
			string(alloc.DestinationType),
			alloc.DestinationID,
			alloc.Amount,
			string(alloc.Status),
			alloc.ErrorMessage,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert retry allocations for deposit %s: %w", deposit.DepositID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkAllocationFailed records the failure reason on one allocation.
func (r *PgxDepositRepository) MarkAllocationFailed(ctx context.Context, allocationID string, errMsg string) error {
	query := `
		UPDATE deposit_allocations
		SET status = $2, error_message = $3
		WHERE allocation_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, allocationID, string(domain.AllocationFailed), errMsg)
	if err != nil {
		return fmt.Errorf("failed to mark allocation %s failed: %w", allocationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompleteDepositInTx flips the deposit and every allocation to COMPLETED
// inside the processing transaction.
func (r *PgxDepositRepository) CompleteDepositInTx(ctx context.Context, tx pgx.Tx, depositID string, processedAt time.Time) error {
	depositQuery := `
		UPDATE deposits
		SET status = $2, error = '', processed_at = $3
		WHERE deposit_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, depositQuery, depositID, string(domain.DepositCompleted), processedAt)
	if err != nil {
		return fmt.Errorf("failed to complete deposit %s: %w", depositID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, depositID)
	}

	allocationQuery := `
		UPDATE deposit_allocations
		SET status = $2
		WHERE deposit_id = $1;
	`
	if _, err := tx.Exec(ctx, allocationQuery, depositID, string(domain.AllocationCompleted)); err != nil {
		return fmt.Errorf("failed to complete allocations for deposit %s: %w", depositID, err)
	}
	return nil
}
