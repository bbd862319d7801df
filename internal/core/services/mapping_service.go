package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
)

var (
	// ErrEventNotMapped is returned when a business event has no registered
	// account pair. Callers must treat this as a configuration error; the
	// engine never guesses accounts.
	ErrEventNotMapped = errors.New("no account mapping registered for event")

	// ErrMappingSameAccount is returned when a mapping would debit and credit
	// the same account.
	ErrMappingSameAccount = errors.New("mapping debit and credit accounts must differ")
)

// mappingService maintains the business-event to account-pair registry.
type mappingService struct {
	mappingRepo portsrepo.EventMappingRepository
	accountRepo portsrepo.AccountRepository
}

// NewMappingService creates a new MappingService.
func NewMappingService(mappingRepo portsrepo.EventMappingRepository, accountRepo portsrepo.AccountRepository) portssvc.MappingSvcFacade {
	return &mappingService{mappingRepo: mappingRepo, accountRepo: accountRepo}
}

var _ portssvc.MappingSvcFacade = (*mappingService)(nil)

// Resolve returns the mapping for a named event or ErrEventNotMapped.
func (s *mappingService) Resolve(ctx context.Context, eventName string) (*domain.EventMapping, error) {
	mapping, err := s.mappingRepo.FindByEventName(ctx, eventName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotMapped, eventName)
		}
		return nil, fmt.Errorf("failed to resolve mapping for event %s: %w", eventName, err)
	}
	return mapping, nil
}

// UpsertMapping creates or replaces the account pair for an event. Both
// accounts must exist and be active at registration time.
func (s *mappingService) UpsertMapping(ctx context.Context, req dto.UpsertMappingRequest) (*domain.EventMapping, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DebitAccountCode == req.CreditAccountCode {
		return nil, fmt.Errorf("%w: %s", ErrMappingSameAccount, req.DebitAccountCode)
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, []string{req.DebitAccountCode, req.CreditAccountCode})
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping accounts: %w", err)
	}
	for _, code := range []string{req.DebitAccountCode, req.CreditAccountCode} {
		account, ok := accounts[code]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
		}
	}

	now := time.Now().UTC()
	mapping := domain.EventMapping{
		EventName:           req.EventName,
		DebitAccountCode:    req.DebitAccountCode,
		CreditAccountCode:   req.CreditAccountCode,
		DescriptionTemplate: req.DescriptionTemplate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.mappingRepo.UpsertMapping(ctx, mapping); err != nil {
		logger.Error("Failed to upsert event mapping", slog.String("event", req.EventName), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to upsert mapping for event %s: %w", req.EventName, err)
	}

	logger.Info("Event mapping upserted",
		slog.String("event", mapping.EventName),
		slog.String("debit_account", mapping.DebitAccountCode),
		slog.String("credit_account", mapping.CreditAccountCode),
	)
	return &mapping, nil
}

// ListMappings returns all registered event mappings.
func (s *mappingService) ListMappings(ctx context.Context) ([]domain.EventMapping, error) {
	return s.mappingRepo.ListMappings(ctx)
}
