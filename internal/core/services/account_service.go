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

// accountService manages the chart of accounts. Balances are not touched
// here; only the posting engine writes them.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount creates a new GL account with a zero opening balance.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch req.Type {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.Type)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already registered", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account registered", slog.String("code", account.Code), slog.String("type", string(account.Type)))
	return &account, nil
}

// GetAccount returns the account with its current running balance.
func (s *accountService) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// ListAccounts returns the full chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// SetAccountActive toggles the active flag. Accounts are never deleted, so
// deactivation is the only way to retire one; its history stays queryable.
func (s *accountService) SetAccountActive(ctx context.Context, code string, active bool) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if account.IsActive == active {
		return account, nil
	}

	now := time.Now().UTC()
	if err := s.accountRepo.SetAccountActive(ctx, code, active, now); err != nil {
		logger.Error("Failed to update account active flag", slog.String("code", code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update account %s: %w", code, err)
	}

	account.IsActive = active
	account.UpdatedAt = now
	logger.Info("Account active flag updated", slog.String("code", code), slog.Bool("active", active))
	return account, nil
}
