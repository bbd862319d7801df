package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
	"github.com/wekeza-coop/sacco_ledger/internal/observability/metrics"
)

var (
	// ErrNoActivePeriod is returned when no fiscal period is currently active.
	ErrNoActivePeriod = errors.New("no active fiscal period")

	// ErrPeriodClosed is returned when the active period has been closed.
	ErrPeriodClosed = errors.New("fiscal period is closed")

	// ErrDateOutsidePeriod is returned when a transaction date falls outside
	// the active period's bounds.
	ErrDateOutsidePeriod = errors.New("transaction date outside active fiscal period")

	// ErrInvalidPeriodBounds is returned when a new period's end does not
	// follow its start.
	ErrInvalidPeriodBounds = errors.New("period end date must be after start date")
)

// fiscalService is the fiscal period guard. Every posting consults it before
// writing; rotation serializes against in-flight postings at the storage
// layer through row locks.
type fiscalService struct {
	fiscalRepo portsrepo.FiscalPeriodRepository
}

// NewFiscalService creates a new FiscalService.
func NewFiscalService(fiscalRepo portsrepo.FiscalPeriodRepository) portssvc.FiscalSvcFacade {
	return &fiscalService{fiscalRepo: fiscalRepo}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

func (s *fiscalService) checkPeriod(period *domain.FiscalPeriod, date time.Time) error {
	if period.IsClosed {
		return fmt.Errorf("%w: %s", ErrPeriodClosed, period.Name)
	}
	if !period.Contains(date) {
		return fmt.Errorf("%w: %s is outside %s (%s to %s)",
			ErrDateOutsidePeriod,
			date.Format("2006-01-02"), period.Name,
			period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"))
	}
	return nil
}

// AssertOpenPeriodFor rejects the date unless the active period is open and
// contains it.
func (s *fiscalService) AssertOpenPeriodFor(ctx context.Context, date time.Time) error {
	period, err := s.fiscalRepo.FindActivePeriod(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrNoActivePeriod
		}
		return fmt.Errorf("failed to load active fiscal period: %w", err)
	}
	return s.checkPeriod(period, date)
}

// AssertOpenPeriodForInTx performs the same check under a shared row lock so
// a concurrent rotation cannot close the period while the surrounding posting
// transaction is in flight.
func (s *fiscalService) AssertOpenPeriodForInTx(ctx context.Context, tx pgx.Tx, date time.Time) error {
	period, err := s.fiscalRepo.FindActivePeriodInTx(ctx, tx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrNoActivePeriod
		}
		return fmt.Errorf("failed to load active fiscal period: %w", err)
	}
	return s.checkPeriod(period, date)
}

// GetActivePeriod returns the single active fiscal period.
func (s *fiscalService) GetActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	period, err := s.fiscalRepo.FindActivePeriod(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoActivePeriod
		}
		return nil, err
	}
	return period, nil
}

// ListPeriods returns all fiscal periods, past and present.
func (s *fiscalService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	return s.fiscalRepo.ListPeriods(ctx)
}

// RotatePeriod closes the current active period (if any) and activates a new
// one atomically. Closure is one-way; a closed period is never reopened.
func (s *fiscalService) RotatePeriod(ctx context.Context, req dto.RotatePeriodRequest) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrInvalidPeriodBounds,
			req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	newPeriod := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
		IsClosed:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.fiscalRepo.RotatePeriod(ctx, newPeriod); err != nil {
		logger.Error("Failed to rotate fiscal period", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to rotate fiscal period: %w", err)
	}

	metrics.PeriodRotations.Inc()
	logger.Info("Fiscal period rotated",
		slog.String("period_id", newPeriod.PeriodID),
		slog.String("name", newPeriod.Name),
	)
	return &newPeriod, nil
}
