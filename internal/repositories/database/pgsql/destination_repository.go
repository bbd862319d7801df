package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
)

type PgxDestinationRepository struct {
	pool *pgxpool.Pool
}

// newPgxDestinationRepository creates a new repository over the collaborator
// balance records that deposit allocations route money into.
func newPgxDestinationRepository(pool *pgxpool.Pool) portsrepo.DestinationRepository {
	return &PgxDestinationRepository{pool: pool}
}

var _ portsrepo.DestinationRepository = (*PgxDestinationRepository)(nil)

// FindSavingsAccountByID retrieves a member savings account.
func (r *PgxDestinationRepository) FindSavingsAccountByID(ctx context.Context, accountID string) (*domain.SavingsAccount, error) {
	query := `
		SELECT account_id, member_id, account_number, balance, is_active
		FROM savings_accounts
		WHERE account_id = $1;
	`
	var account domain.SavingsAccount
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&account.AccountID,
		&account.MemberID,
		&account.AccountNumber,
		&account.Balance,
		&account.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("savings account " + accountID + " not found")
		}
		return nil, fmt.Errorf("failed to find savings account %s: %w", accountID, err)
	}
	return &account, nil
}

// FindLoanByID retrieves a loan balance record.
func (r *PgxDestinationRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT loan_id, member_id, loan_number, outstanding_balance, is_active
		FROM loans
		WHERE loan_id = $1;
	`
	var loan domain.Loan
	err := r.pool.QueryRow(ctx, query, loanID).Scan(
		&loan.LoanID,
		&loan.MemberID,
		&loan.LoanNumber,
		&loan.OutstandingBalance,
		&loan.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("loan " + loanID + " not found")
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	return &loan, nil
}

// FindFineByID retrieves a fine record.
func (r *PgxDestinationRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	query := `
		SELECT fine_id, member_id, description, amount, paid, payment_reference
		FROM fines
		WHERE fine_id = $1;
	`
	var fine domain.Fine
	err := r.pool.QueryRow(ctx, query, fineID).Scan(
		&fine.FineID,
		&fine.MemberID,
		&fine.Description,
		&fine.Amount,
		&fine.Paid,
		&fine.PaymentReference,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("fine " + fineID + " not found")
		}
		return nil, fmt.Errorf("failed to find fine %s: %w", fineID, err)
	}
	return &fine, nil
}

// FindDepositProductByID retrieves a group contribution product.
func (r *PgxDestinationRepository) FindDepositProductByID(ctx context.Context, productID string) (*domain.DepositProduct, error) {
	query := `
		SELECT product_id, name, current_amount, target_amount, is_active
		FROM deposit_products
		WHERE product_id = $1;
	`
	var product domain.DepositProduct
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&product.ProductID,
		&product.Name,
		&product.CurrentAmount,
		&product.TargetAmount,
		&product.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("deposit product " + productID + " not found")
		}
		return nil, fmt.Errorf("failed to find deposit product %s: %w", productID, err)
	}
	return &product, nil
}

// CreditSavingsInTx adds the amount to a savings account balance inside the
// processing transaction.
func (r *PgxDestinationRepository) CreditSavingsInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, now time.Time) error {
	query := `
		UPDATE savings_accounts
		SET balance = balance + $2, updated_at = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, amount, now)
	if err != nil {
		return fmt.Errorf("failed to credit savings account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: savings account %s not credited", apperrors.ErrConflict, accountID)
	}
	return nil
}

// ReduceLoanInTx decreases the outstanding balance. The balance guard in the
// WHERE clause rejects overpayment even under concurrent repayments.
func (r *PgxDestinationRepository) ReduceLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, amount decimal.Decimal, now time.Time) error {
	query := `
		UPDATE loans
		SET outstanding_balance = outstanding_balance - $2, updated_at = $3
		WHERE loan_id = $1 AND is_active = TRUE AND outstanding_balance >= $2;
	`
	cmdTag, err := tx.Exec(ctx, query, loanID, amount, now)
	if err != nil {
		return fmt.Errorf("failed to reduce loan %s: %w", loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s repayment of %s rejected", apperrors.ErrConflict, loanID, amount.String())
	}
	return nil
}

// MarkFinePaidInTx settles a fine inside the processing transaction. The paid
// guard makes settling a settled fine fail rather than silently repeat.
func (r *PgxDestinationRepository) MarkFinePaidInTx(ctx context.Context, tx pgx.Tx, fineID string, paymentReference string, now time.Time) error {
	query := `
		UPDATE fines
		SET paid = TRUE, payment_reference = $2, updated_at = $3
		WHERE fine_id = $1 AND paid = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, fineID, paymentReference, now)
	if err != nil {
		return fmt.Errorf("failed to mark fine %s paid: %w", fineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fine %s is already paid", apperrors.ErrConflict, fineID)
	}
	return nil
}

// AddToDepositProductInTx adds the amount to a contribution product inside
// the processing transaction.
func (r *PgxDestinationRepository) AddToDepositProductInTx(ctx context.Context, tx pgx.Tx, productID string, amount decimal.Decimal, now time.Time) error {
	query := `
		UPDATE deposit_products
		SET current_amount = current_amount + $2, updated_at = $3
		WHERE product_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := tx.Exec(ctx, query, productID, amount, now)
	if err != nil {
		return fmt.Errorf("failed to add to deposit product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: deposit product %s not updated", apperrors.ErrConflict, productID)
	}
	return nil
}
