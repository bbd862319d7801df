package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeza-coop/sacco_ledger/internal/apperrors"
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
)

// reportingService derives financial reports from committed journal lines.
// It never reads the denormalized account balance column, so a report is
// always consistent with the journal regardless of in-flight postings.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AccountTotalsAsOf returns cumulative per-account debit/credit sums through
// the given date.
func (s *reportingService) AccountTotalsAsOf(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error) {
	return s.reportingRepo.GetAccountTotalsUpToDate(ctx, asOf)
}

// AccountTotalsInRange returns per-account debit/credit sums within a date
// interval.
func (s *reportingService) AccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", apperrors.ErrValidation)
	}
	return s.reportingRepo.GetAccountTotalsInRange(ctx, from, to)
}

// netBalance folds a totals row onto the account's normal balance side.
func netBalance(row domain.AccountTotalsRow) decimal.Decimal {
	if row.AccountType.DebitIncreases() {
		return row.Debit.Sub(row.Credit)
	}
	return row.Credit.Sub(row.Debit)
}

// TrialBalance lists every account's debit and credit totals with the net
// position under the normal-balance convention. For a consistent ledger the
// debit and credit columns sum to the same figure.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	totals, err := s.reportingRepo.GetAccountTotalsUpToDate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	rows := make([]domain.TrialBalanceRow, len(totals))
	for i, row := range totals {
		rows[i] = domain.TrialBalanceRow{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: row.AccountType,
			Debit:       row.Debit,
			Credit:      row.Credit,
			NetBalance:  netBalance(row),
		}
	}
	return rows, nil
}

// IncomeStatement summarizes income and expense activity within a period and
// the resulting net surplus (or deficit, when negative).
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	totals, err := s.AccountTotalsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatementReport{
		Income:     []domain.AccountAmount{},
		Expenses:   []domain.AccountAmount{},
		NetSurplus: decimal.Zero,
	}
	for _, row := range totals {
		net := netBalance(row)
		item := domain.AccountAmount{AccountCode: row.AccountCode, Name: row.AccountName, NetAmount: net}
		switch row.AccountType {
		case domain.Income:
			report.Income = append(report.Income, item)
			report.NetSurplus = report.NetSurplus.Add(net)
		case domain.Expense:
			report.Expenses = append(report.Expenses, item)
			report.NetSurplus = report.NetSurplus.Sub(net)
		}
	}
	return report, nil
}

// BalanceSheet presents the as-of financial position. Undistributed surplus
// from income and expense accounts is folded into equity as a synthetic
// accumulated surplus line so the statement balances.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	totals, err := s.reportingRepo.GetAccountTotalsUpToDate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	report := &domain.BalanceSheetReport{
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	surplus := decimal.Zero
	for _, row := range totals {
		net := netBalance(row)
		item := domain.AccountAmount{AccountCode: row.AccountCode, Name: row.AccountName, NetAmount: net}
		switch row.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, item)
			report.TotalAssets = report.TotalAssets.Add(net)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, item)
			report.TotalLiabilities = report.TotalLiabilities.Add(net)
		case domain.Equity:
			report.Equity = append(report.Equity, item)
			report.TotalEquity = report.TotalEquity.Add(net)
		case domain.Income:
			surplus = surplus.Add(net)
		case domain.Expense:
			surplus = surplus.Sub(net)
		}
	}

	if !surplus.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Name:      "Accumulated Surplus",
			NetAmount: surplus,
		})
		report.TotalEquity = report.TotalEquity.Add(surplus)
	}
	return report, nil
}
