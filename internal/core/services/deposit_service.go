package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
	"github.com/wekeza-coop/sacco_ledger/internal/observability/metrics"
)

var (
	// ErrAllocationMismatch is returned when allocation amounts do not sum to
	// the deposit total.
	ErrAllocationMismatch = errors.New("allocation amounts do not sum to deposit total")

	// ErrDestinationOwnership is returned when a destination does not belong
	// to the depositing member.
	ErrDestinationOwnership = errors.New("destination does not belong to member")

	// ErrDestinationInactive is returned when a destination cannot receive
	// money (closed account, settled fine, inactive product).
	ErrDestinationInactive = errors.New("destination cannot receive funds")
)

// destinationEvents maps each destination type to the business event whose
// mapping supplies the GL credit account for that slice of the deposit.
var destinationEvents = map[domain.DestinationType]string{
	domain.DestinationSavingsAccount: "SAVINGS_DEPOSIT",
	domain.DestinationLoan:           "LOAN_REPAYMENT_PRINCIPAL",
	domain.DestinationFine:           "FINE_PAYMENT",
	domain.DestinationDepositProduct: "PRODUCT_CONTRIBUTION",
}

// depositService is the allocation processor. A deposit's ledger entry,
// destination balance effects, and status flip commit in one transaction;
// any failure rolls back everything and marks the deposit FAILED.
type depositService struct {
	txManager       portsrepo.TxManager
	depositRepo     portsrepo.DepositRepository
	destinationRepo portsrepo.DestinationRepository
	postingSvc      portssvc.PostingSvcFacade
	mappingSvc      portssvc.MappingSvcFacade
	cashAccountCode string
}

// NewDepositService creates a new DepositService. cashAccountCode is the GL
// account all incoming deposits are debited to.
func NewDepositService(
	txManager portsrepo.TxManager,
	depositRepo portsrepo.DepositRepository,
	destinationRepo portsrepo.DestinationRepository,
	postingSvc portssvc.PostingSvcFacade,
	mappingSvc portssvc.MappingSvcFacade,
	cashAccountCode string,
) portssvc.DepositSvcFacade {
	return &depositService{
		txManager:       txManager,
		depositRepo:     depositRepo,
		destinationRepo: destinationRepo,
		postingSvc:      postingSvc,
		mappingSvc:      mappingSvc,
		cashAccountCode: cashAccountCode,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

// CreateDeposit validates, persists, and processes a deposit. A re-delivered
// payment reference for an already completed deposit returns that deposit
// without posting anything again; a reference whose prior attempt FAILED is
// reprocessed with the redelivered allocations.
func (s *depositService) CreateDeposit(ctx context.Context, req dto.CreateDepositRequest) (*domain.Deposit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateAmounts(req); err != nil {
		return nil, err
	}

	// Idempotency check on the external payment reference.
	existing, err := s.depositRepo.FindDepositByPaymentReference(ctx, req.PaymentReference)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check payment reference: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case domain.DepositCompleted:
			logger.Info("Deposit already completed for payment reference, returning existing",
				slog.String("payment_reference", req.PaymentReference),
				slog.String("deposit_id", existing.DepositID),
			)
			return existing, nil
		case domain.DepositFailed:
			return s.retryFailedDeposit(ctx, existing, req)
		default:
			return nil, fmt.Errorf("%w: payment reference %s is already in state %s",
				apperrors.ErrDuplicate, req.PaymentReference, existing.Status)
		}
	}

	deposit := s.buildDeposit(req)
	if err := s.depositRepo.CreateDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	return s.runProcessing(ctx, &deposit)
}

// retryFailedDeposit reprocesses a redelivered payment reference whose prior
// attempt ended FAILED. The original deposit row is kept; its allocations are
// replaced with the redelivered set.
func (s *depositService) retryFailedDeposit(ctx context.Context, existing *domain.Deposit, req dto.CreateDepositRequest) (*domain.Deposit, error) {
	if existing.MemberID != req.MemberID {
		return nil, fmt.Errorf("%w: payment reference %s was recorded for another member",
			apperrors.ErrConflict, req.PaymentReference)
	}

	deposit := s.buildDeposit(req)
	deposit.DepositID = existing.DepositID
	deposit.CreatedAt = existing.CreatedAt
	for i := range deposit.Allocations {
		deposit.Allocations[i].DepositID = deposit.DepositID
	}

	if err := s.depositRepo.ResetDepositForRetry(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to reset deposit for retry: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Retrying failed deposit",
		slog.String("payment_reference", req.PaymentReference),
		slog.String("deposit_id", deposit.DepositID),
	)
	return s.runProcessing(ctx, &deposit)
}

// runProcessing drives a persisted PENDING deposit to COMPLETED or FAILED.
// On failure the deposit and every allocation end FAILED, with the triggering
// error on the deposit and, where one allocation caused it, on that allocation.
func (s *depositService) runProcessing(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.process(ctx, deposit); err != nil {
		metrics.DepositsFailed.Inc()
		if failErr := s.depositRepo.FailDeposit(ctx, deposit.DepositID, err.Error(), time.Now().UTC()); failErr != nil {
			logger.Error("Failed to mark deposit as failed",
				slog.String("deposit_id", deposit.DepositID),
				slog.String("error", failErr.Error()),
			)
		}
		logger.Warn("Deposit processing failed, all effects rolled back",
			slog.String("deposit_id", deposit.DepositID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.DepositsCompleted.Inc()
	return s.depositRepo.FindDepositByID(ctx, deposit.DepositID)
}

func (s *depositService) validateAmounts(req dto.CreateDepositRequest) error {
	if !req.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: deposit total must be positive", apperrors.ErrValidation)
	}
	sum := decimal.Zero
	for _, alloc := range req.Allocations {
		if !alloc.Amount.IsPositive() {
			return fmt.Errorf("%w: allocation amount must be positive for destination %s", apperrors.ErrValidation, alloc.DestinationID)
		}
		sum = sum.Add(alloc.Amount)
	}
	if !sum.Equal(req.TotalAmount) {
		return fmt.Errorf("%w: allocations sum to %s, deposit total is %s",
			ErrAllocationMismatch, sum.String(), req.TotalAmount.String())
	}
	return nil
}

func (s *depositService) buildDeposit(req dto.CreateDepositRequest) domain.Deposit {
	now := time.Now().UTC()
	deposit := domain.Deposit{
		DepositID:        uuid.NewString(),
		MemberID:         req.MemberID,
		TotalAmount:      req.TotalAmount,
		Status:           domain.DepositPending,
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
		CreatedAt:        now,
	}
	for _, alloc := range req.Allocations {
		deposit.Allocations = append(deposit.Allocations, domain.Allocation{
			AllocationID:    uuid.NewString(),
			DepositID:       deposit.DepositID,
			DestinationType: alloc.DestinationType,
			DestinationID:   alloc.DestinationID,
			Amount:          alloc.Amount,
			Status:          domain.AllocationPending,
		})
	}
	return deposit
}

// process runs the all-or-nothing pass over a persisted deposit. Destination
// validation happens before the transaction; the ledger entry, destination
// effects, and the COMPLETED flip happen inside it.
func (s *depositService) process(ctx context.Context, deposit *domain.Deposit) error {
	if err := s.depositRepo.UpdateDepositStatus(ctx, deposit.DepositID, domain.DepositProcessing, "", nil); err != nil {
		return fmt.Errorf("failed to mark deposit processing: %w", err)
	}

	creditCodes := make([]string, len(deposit.Allocations))
	for i, alloc := range deposit.Allocations {
		if err := s.validateDestination(ctx, deposit.MemberID, alloc); err != nil {
			if markErr := s.depositRepo.MarkAllocationFailed(ctx, alloc.AllocationID, err.Error()); markErr != nil {
				middleware.GetLoggerFromCtx(ctx).Error("Failed to mark allocation as failed",
					slog.String("allocation_id", alloc.AllocationID),
					slog.String("error", markErr.Error()),
				)
			}
			return err
		}

		mapping, err := s.mappingSvc.Resolve(ctx, destinationEvents[alloc.DestinationType])
		if err != nil {
			return err
		}
		creditCodes[i] = mapping.CreditAccountCode
	}

	compound := s.buildCompoundRequest(deposit, creditCodes)

	var entry *domain.JournalEntry
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		entry, txErr = s.postingSvc.PostCompoundInTx(ctx, tx, compound)
		if txErr != nil {
			return txErr
		}

		now := time.Now().UTC()
		for _, alloc := range deposit.Allocations {
			if txErr = s.applyDestinationEffect(ctx, tx, deposit, alloc, now); txErr != nil {
				return txErr
			}
		}

		return s.depositRepo.CompleteDepositInTx(ctx, tx, deposit.DepositID, now)
	})
	if err != nil {
		return err
	}

	metrics.EntriesPosted.Inc()
	s.postingSvc.FirePostCommitHooks(ctx, *entry)
	middleware.GetLoggerFromCtx(ctx).Info("Deposit processed",
		slog.String("deposit_id", deposit.DepositID),
		slog.String("entry_id", entry.EntryID),
		slog.String("total", deposit.TotalAmount.String()),
		slog.Int("allocations", len(deposit.Allocations)),
	)
	return nil
}

// buildCompoundRequest assembles the single balanced entry for a deposit:
// one debit to the cash account for the full amount and one credit per
// allocation. Credits to the same GL account are merged into one line.
func (s *depositService) buildCompoundRequest(deposit *domain.Deposit, creditCodes []string) dto.PostCompoundRequest {
	creditTotals := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(creditCodes))
	for i, alloc := range deposit.Allocations {
		code := creditCodes[i]
		if _, seen := creditTotals[code]; !seen {
			order = append(order, code)
		}
		creditTotals[code] = creditTotals[code].Add(alloc.Amount)
	}

	lines := make([]dto.CompoundLine, 0, len(order)+1)
	lines = append(lines, dto.CompoundLine{AccountCode: s.cashAccountCode, Debit: deposit.TotalAmount})
	for _, code := range order {
		lines = append(lines, dto.CompoundLine{AccountCode: code, Credit: creditTotals[code]})
	}

	return dto.PostCompoundRequest{
		Description:     fmt.Sprintf("Member deposit %s", deposit.PaymentReference),
		ReferenceNo:     deposit.PaymentReference,
		TransactionDate: time.Now().UTC(),
		Lines:           lines,
	}
}

// validateDestination checks existence, ownership, and receivability of one
// allocation target before any money moves.
func (s *depositService) validateDestination(ctx context.Context, memberID string, alloc domain.Allocation) error {
	switch alloc.DestinationType {
	case domain.DestinationSavingsAccount:
		account, err := s.destinationRepo.FindSavingsAccountByID(ctx, alloc.DestinationID)
		if err != nil {
			return err
		}
		if account.MemberID != memberID {
			return fmt.Errorf("%w: savings account %s", ErrDestinationOwnership, alloc.DestinationID)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: savings account %s", ErrDestinationInactive, alloc.DestinationID)
		}
	case domain.DestinationLoan:
		loan, err := s.destinationRepo.FindLoanByID(ctx, alloc.DestinationID)
		if err != nil {
			return err
		}
		if loan.MemberID != memberID {
			return fmt.Errorf("%w: loan %s", ErrDestinationOwnership, alloc.DestinationID)
		}
		if !loan.IsActive {
			return fmt.Errorf("%w: loan %s", ErrDestinationInactive, alloc.DestinationID)
		}
		if alloc.Amount.GreaterThan(loan.OutstandingBalance) {
			return fmt.Errorf("%w: repayment %s exceeds outstanding balance %s on loan %s",
				apperrors.ErrValidation, alloc.Amount.String(), loan.OutstandingBalance.String(), alloc.DestinationID)
		}
	case domain.DestinationFine:
		fine, err := s.destinationRepo.FindFineByID(ctx, alloc.DestinationID)
		if err != nil {
			return err
		}
		if fine.MemberID != memberID {
			return fmt.Errorf("%w: fine %s", ErrDestinationOwnership, alloc.DestinationID)
		}
		if fine.Paid {
			return fmt.Errorf("%w: fine %s is already paid", ErrDestinationInactive, alloc.DestinationID)
		}
		if !alloc.Amount.Equal(fine.Amount) {
			return fmt.Errorf("%w: fine %s requires exact payment of %s, got %s",
				apperrors.ErrValidation, alloc.DestinationID, fine.Amount.String(), alloc.Amount.String())
		}
	case domain.DestinationDepositProduct:
		product, err := s.destinationRepo.FindDepositProductByID(ctx, alloc.DestinationID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return fmt.Errorf("%w: deposit product %s", ErrDestinationInactive, alloc.DestinationID)
		}
	default:
		return fmt.Errorf("%w: unknown destination type %q", apperrors.ErrValidation, alloc.DestinationType)
	}
	return nil
}

// applyDestinationEffect adjusts the destination's balance record inside the
// processing transaction.
func (s *depositService) applyDestinationEffect(ctx context.Context, tx pgx.Tx, deposit *domain.Deposit, alloc domain.Allocation, now time.Time) error {
	switch alloc.DestinationType {
	case domain.DestinationSavingsAccount:
		return s.destinationRepo.CreditSavingsInTx(ctx, tx, alloc.DestinationID, alloc.Amount, now)
	case domain.DestinationLoan:
		return s.destinationRepo.ReduceLoanInTx(ctx, tx, alloc.DestinationID, alloc.Amount, now)
	case domain.DestinationFine:
		return s.destinationRepo.MarkFinePaidInTx(ctx, tx, alloc.DestinationID, deposit.PaymentReference, now)
	case domain.DestinationDepositProduct:
		return s.destinationRepo.AddToDepositProductInTx(ctx, tx, alloc.DestinationID, alloc.Amount, now)
	default:
		return fmt.Errorf("%w: unknown destination type %q", apperrors.ErrValidation, alloc.DestinationType)
	}
}

// GetDeposit returns a deposit with its allocations.
func (s *depositService) GetDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return s.depositRepo.FindDepositByID(ctx, depositID)
}

// ListMemberDeposits returns all deposits recorded for a member.
func (s *depositService) ListMemberDeposits(ctx context.Context, memberID string) ([]domain.Deposit, error) {
	return s.depositRepo.ListDepositsByMember(ctx, memberID)
}
