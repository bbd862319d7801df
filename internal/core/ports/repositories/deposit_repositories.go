package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// DepositRepository persists deposits with their embedded allocations.
type DepositRepository interface {
	// CreateDeposit inserts the deposit and all allocations. A duplicate
	// payment reference surfaces as apperrors.ErrDuplicate.
	CreateDeposit(ctx context.Context, deposit domain.Deposit) error
	FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error)
	FindDepositByPaymentReference(ctx context.Context, paymentReference string) (*domain.Deposit, error)
	ListDepositsByMember(ctx context.Context, memberID string) ([]domain.Deposit, error)

	// UpdateDepositStatus records a status transition outside the processing
	// transaction (the PROCESSING flip before the unit of work starts).
	UpdateDepositStatus(ctx context.Context, depositID string, status domain.DepositStatus, errMsg string, processedAt *time.Time) error
	// FailDeposit marks the deposit FAILED with the triggering error and flips
	// every allocation that is not already FAILED, so no allocation is left
	// PENDING under a failed deposit.
	FailDeposit(ctx context.Context, depositID string, errMsg string, processedAt time.Time) error
	MarkAllocationFailed(ctx context.Context, allocationID string, errMsg string) error
	// ResetDepositForRetry rewinds a FAILED deposit to PENDING and replaces its
	// allocations with the redelivered set, keeping the deposit row and its
	// payment reference.
	ResetDepositForRetry(ctx context.Context, deposit domain.Deposit) error
	// CompleteDepositInTx flips the deposit and every allocation to COMPLETED
	// inside the processing transaction.
	CompleteDepositInTx(ctx context.Context, tx pgx.Tx, depositID string, processedAt time.Time) error
}

// DestinationRepository reads and adjusts the collaborator-owned balance
// records that deposit allocations route money into. All mutations run inside
// the allocation processor's transaction.
type DestinationRepository interface {
	FindSavingsAccountByID(ctx context.Context, accountID string) (*domain.SavingsAccount, error)
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error)
	FindDepositProductByID(ctx context.Context, productID string) (*domain.DepositProduct, error)

	CreditSavingsInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, now time.Time) error
	// ReduceLoanInTx decreases the outstanding balance and fails on overpayment.
	ReduceLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, amount decimal.Decimal, now time.Time) error
	MarkFinePaidInTx(ctx context.Context, tx pgx.Tx, fineID string, paymentReference string, now time.Time) error
	AddToDepositProductInTx(ctx context.Context, tx pgx.Tx, productID string, amount decimal.Decimal, now time.Time) error
}
