package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
)

// --- Mock TxManager ---

type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TxManager = (*MockTxManager)(nil)

// WithTx runs fn with a nil tx; the mocked repositories ignore the handle.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, code string, active bool, now time.Time) error {
	args := m.Called(ctx, code, active, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByReference(ctx context.Context, referenceNo string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, referenceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

// --- Mock FiscalPeriodRepository ---

type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepository = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) FindActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindActivePeriodInTx(ctx context.Context, tx pgx.Tx) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) RotatePeriod(ctx context.Context, newPeriod domain.FiscalPeriod) error {
	args := m.Called(ctx, newPeriod)
	return args.Error(0)
}

// --- Mock EventMappingRepository ---

type MockEventMappingRepository struct {
	mock.Mock
}

var _ portsrepo.EventMappingRepository = (*MockEventMappingRepository)(nil)

func (m *MockEventMappingRepository) FindByEventName(ctx context.Context, eventName string) (*domain.EventMapping, error) {
	args := m.Called(ctx, eventName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventMapping), args.Error(1)
}

func (m *MockEventMappingRepository) UpsertMapping(ctx context.Context, mapping domain.EventMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockEventMappingRepository) ListMappings(ctx context.Context) ([]domain.EventMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventMapping), args.Error(1)
}

// --- Mock DepositRepository ---

type MockDepositRepository struct {
	mock.Mock
}

var _ portsrepo.DepositRepository = (*MockDepositRepository)(nil)

func (m *MockDepositRepository) CreateDeposit(ctx context.Context, deposit domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) FindDepositByPaymentReference(ctx context.Context, paymentReference string) (*domain.Deposit, error) {
	args := m.Called(ctx, paymentReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListDepositsByMember(ctx context.Context, memberID string) ([]domain.Deposit, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) UpdateDepositStatus(ctx context.Context, depositID string, status domain.DepositStatus, errMsg string, processedAt *time.Time) error {
	args := m.Called(ctx, depositID, status, errMsg, processedAt)
	return args.Error(0)
}

func (m *MockDepositRepository) FailDeposit(ctx context.Context, depositID string, errMsg string, processedAt time.Time) error {
	args := m.Called(ctx, depositID, errMsg, processedAt)
	return args.Error(0)
}

func (m *MockDepositRepository) MarkAllocationFailed(ctx context.Context, allocationID string, errMsg string) error {
	args := m.Called(ctx, allocationID, errMsg)
	return args.Error(0)
}

func (m *MockDepositRepository) ResetDepositForRetry(ctx context.Context, deposit domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) CompleteDepositInTx(ctx context.Context, tx pgx.Tx, depositID string, processedAt time.Time) error {
	args := m.Called(ctx, tx, depositID, processedAt)
	return args.Error(0)
}

// --- Mock DestinationRepository ---

type MockDestinationRepository struct {
	mock.Mock
}

var _ portsrepo.DestinationRepository = (*MockDestinationRepository)(nil)

func (m *MockDestinationRepository) FindSavingsAccountByID(ctx context.Context, accountID string) (*domain.SavingsAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsAccount), args.Error(1)
}

func (m *MockDestinationRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockDestinationRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockDestinationRepository) FindDepositProductByID(ctx context.Context, productID string) (*domain.DepositProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositProduct), args.Error(1)
}

func (m *MockDestinationRepository) CreditSavingsInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, accountID, amount, now)
	return args.Error(0)
}

func (m *MockDestinationRepository) ReduceLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, amount decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, loanID, amount, now)
	return args.Error(0)
}

func (m *MockDestinationRepository) MarkFinePaidInTx(ctx context.Context, tx pgx.Tx, fineID string, paymentReference string, now time.Time) error {
	args := m.Called(ctx, tx, fineID, paymentReference, now)
	return args.Error(0)
}

func (m *MockDestinationRepository) AddToDepositProductInTx(ctx context.Context, tx pgx.Tx, productID string, amount decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, productID, amount, now)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountTotalsUpToDate(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotalsRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotalsRow), args.Error(1)
}

// --- Mock FiscalSvcFacade (as used by the posting engine) ---

type MockFiscalService struct {
	mock.Mock
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

func (m *MockFiscalService) AssertOpenPeriodFor(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockFiscalService) AssertOpenPeriodForInTx(ctx context.Context, tx pgx.Tx, date time.Time) error {
	args := m.Called(ctx, tx, date)
	return args.Error(0)
}

func (m *MockFiscalService) GetActivePeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) RotatePeriod(ctx context.Context, req dto.RotatePeriodRequest) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

// --- Mock MappingSvcFacade ---

type MockMappingService struct {
	mock.Mock
}

var _ portssvc.MappingSvcFacade = (*MockMappingService)(nil)

func (m *MockMappingService) Resolve(ctx context.Context, eventName string) (*domain.EventMapping, error) {
	args := m.Called(ctx, eventName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventMapping), args.Error(1)
}

func (m *MockMappingService) UpsertMapping(ctx context.Context, req dto.UpsertMappingRequest) (*domain.EventMapping, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventMapping), args.Error(1)
}

func (m *MockMappingService) ListMappings(ctx context.Context) ([]domain.EventMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventMapping), args.Error(1)
}

// --- Mock PostingSvcFacade (as used by the allocation processor) ---

type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostEvent(ctx context.Context, req dto.PostEventRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) PostCompound(ctx context.Context, req dto.PostCompoundRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) PostCompoundInTx(ctx context.Context, tx pgx.Tx, req dto.PostCompoundRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) RegisterPostCommitHook(hook portssvc.PostCommitHook) {
	m.Called(hook)
}

func (m *MockPostingService) FirePostCommitHooks(ctx context.Context, entry domain.JournalEntry) {
	m.Called(ctx, entry)
}

func (m *MockPostingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) FindEntriesByReference(ctx context.Context, referenceNo string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, referenceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) ListEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}
