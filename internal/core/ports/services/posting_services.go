package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
)

// PostCommitHook runs after a posting transaction has durably committed.
// Hook failures are logged and never roll back or block the ledger write.
type PostCommitHook func(ctx context.Context, entry domain.JournalEntry)

// PostingSvcFacade is the journal posting engine. Every call is one atomic
// unit of work: either the entry, its lines, and every balance effect commit
// together, or nothing does.
type PostingSvcFacade interface {
	// PostEvent resolves the named event mapping and posts a two-line entry.
	PostEvent(ctx context.Context, req dto.PostEventRequest) (*domain.JournalEntry, error)
	// PostCompound posts a caller-assembled multi-line entry.
	PostCompound(ctx context.Context, req dto.PostCompoundRequest) (*domain.JournalEntry, error)
	// PostCompoundInTx runs the compound path inside a caller-owned
	// transaction so other effects can share the unit of work. The caller is
	// responsible for invoking FirePostCommitHooks after its commit.
	PostCompoundInTx(ctx context.Context, tx pgx.Tx, req dto.PostCompoundRequest) (*domain.JournalEntry, error)

	RegisterPostCommitHook(hook PostCommitHook)
	FirePostCommitHooks(ctx context.Context, entry domain.JournalEntry)

	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindEntriesByReference(ctx context.Context, referenceNo string) ([]domain.JournalEntry, error)
	ListEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error)
}

// FiscalSvcFacade is the fiscal period guard.
type FiscalSvcFacade interface {
	// AssertOpenPeriodFor rejects the date unless the single active period is
	// open and contains it.
	AssertOpenPeriodFor(ctx context.Context, date time.Time) error
	// AssertOpenPeriodForInTx performs the same check under a shared row lock
	// inside a posting transaction.
	AssertOpenPeriodForInTx(ctx context.Context, tx pgx.Tx, date time.Time) error
	GetActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
	RotatePeriod(ctx context.Context, req dto.RotatePeriodRequest) (*domain.FiscalPeriod, error)
}

// DepositSvcFacade is the allocation processor.
type DepositSvcFacade interface {
	// CreateDeposit validates and persists the deposit, then processes it.
	// Re-delivery of an already completed payment reference returns the
	// existing deposit without re-applying any effect; a reference whose
	// prior attempt failed is reprocessed under the same deposit.
	CreateDeposit(ctx context.Context, req dto.CreateDepositRequest) (*domain.Deposit, error)
	GetDeposit(ctx context.Context, depositID string) (*domain.Deposit, error)
	ListMemberDeposits(ctx context.Context, memberID string) ([]domain.Deposit, error)
}

// ReportingSvcFacade serves read-only balance aggregation for downstream
// reporting. It never mutates ledger state.
type ReportingSvcFacade interface {
	AccountTotalsAsOf(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error)
	AccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error)
	TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
}
