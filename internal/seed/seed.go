package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
)

// seedAccount is the JSON shape of one chart-of-accounts entry.
type seedAccount struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// defaultMappings are the event mappings a fresh installation starts with.
// An administrator can retarget any of them later; seeding never overwrites
// an existing mapping.
var defaultMappings = []domain.EventMapping{
	{EventName: "SAVINGS_DEPOSIT", DebitAccountCode: "1002", CreditAccountCode: "2001", DescriptionTemplate: "Member savings deposit {reference}"},
	{EventName: "LOAN_DISBURSEMENT", DebitAccountCode: "1200", CreditAccountCode: "1002", DescriptionTemplate: "Loan disbursement {reference}"},
	{EventName: "LOAN_REPAYMENT_PRINCIPAL", DebitAccountCode: "1002", CreditAccountCode: "1200", DescriptionTemplate: "Loan principal repayment {reference}"},
	{EventName: "LOAN_REPAYMENT_INTEREST", DebitAccountCode: "1002", CreditAccountCode: "4002", DescriptionTemplate: "Loan interest payment {reference}"},
	{EventName: "REGISTRATION_FEE", DebitAccountCode: "1002", CreditAccountCode: "4001", DescriptionTemplate: "Member registration fee {reference}"},
	{EventName: "LOAN_PROCESSING_FEE", DebitAccountCode: "1002", CreditAccountCode: "4005", DescriptionTemplate: "Loan processing fee {reference}"},
	{EventName: "SHARE_CAPITAL_PURCHASE", DebitAccountCode: "1002", CreditAccountCode: "3001", DescriptionTemplate: "Share capital purchase {reference}"},
	{EventName: "DIVIDEND_PAYMENT", DebitAccountCode: "2003", CreditAccountCode: "1002", DescriptionTemplate: "Dividend payment {reference}"},
	{EventName: "FINE_PAYMENT", DebitAccountCode: "1002", CreditAccountCode: "4004", DescriptionTemplate: "Fine payment {reference}"},
	{EventName: "PRODUCT_CONTRIBUTION", DebitAccountCode: "1002", CreditAccountCode: "2002", DescriptionTemplate: "Product contribution {reference}"},
}

// Run seeds the chart of accounts, the default event mappings, and an initial
// fiscal period when none is active. Existing data is never overwritten;
// individual failures are logged and skipped so a partial seed does not block
// startup.
func Run(ctx context.Context, logger *slog.Logger, repos portsrepo.RepositoryProvider, chartPath string) error {
	if err := seedAccounts(ctx, logger, repos.AccountRepo, chartPath); err != nil {
		return err
	}
	seedMappings(ctx, logger, repos.MappingRepo)
	return seedFiscalPeriod(ctx, logger, repos.FiscalRepo)
}

func seedAccounts(ctx context.Context, logger *slog.Logger, accountRepo portsrepo.AccountRepository, chartPath string) error {
	raw, err := os.ReadFile(chartPath)
	if err != nil {
		return fmt.Errorf("failed to read chart of accounts file %s: %w", chartPath, err)
	}

	var seedAccounts []seedAccount
	if err := json.Unmarshal(raw, &seedAccounts); err != nil {
		return fmt.Errorf("failed to parse chart of accounts file %s: %w", chartPath, err)
	}

	now := time.Now().UTC()
	created := 0
	for _, sa := range seedAccounts {
		_, err := accountRepo.FindAccountByCode(ctx, sa.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Skipping account seed", slog.String("code", sa.Code), slog.String("error", err.Error()))
			continue
		}

		account := domain.Account{
			Code:      sa.Code,
			Name:      sa.Name,
			Type:      domain.AccountType(sa.Type),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := accountRepo.SaveAccount(ctx, account); err != nil {
			logger.Warn("Failed to seed account", slog.String("code", sa.Code), slog.String("error", err.Error()))
			continue
		}
		created++
	}
	logger.Info("Chart of accounts seeded", slog.Int("created", created), slog.Int("total", len(seedAccounts)))
	return nil
}

func seedMappings(ctx context.Context, logger *slog.Logger, mappingRepo portsrepo.EventMappingRepository) {
	now := time.Now().UTC()
	created := 0
	for _, m := range defaultMappings {
		_, err := mappingRepo.FindByEventName(ctx, m.EventName)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Skipping mapping seed", slog.String("event", m.EventName), slog.String("error", err.Error()))
			continue
		}

		m.CreatedAt = now
		m.UpdatedAt = now
		if err := mappingRepo.UpsertMapping(ctx, m); err != nil {
			logger.Warn("Failed to seed mapping", slog.String("event", m.EventName), slog.String("error", err.Error()))
			continue
		}
		created++
	}
	logger.Info("Default event mappings seeded", slog.Int("created", created))
}

func seedFiscalPeriod(ctx context.Context, logger *slog.Logger, fiscalRepo portsrepo.FiscalPeriodRepository) error {
	_, err := fiscalRepo.FindActivePeriod(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check active fiscal period: %w", err)
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      fmt.Sprintf("FY%d", now.Year()),
		StartDate: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
		IsClosed:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := fiscalRepo.RotatePeriod(ctx, period); err != nil {
		return fmt.Errorf("failed to seed initial fiscal period: %w", err)
	}
	logger.Info("Initial fiscal period opened", slog.String("name", period.Name))
	return nil
}
