package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) AccountTotalsAsOf(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotalsRow), args.Error(1)
}

func (m *MockReportingService) AccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotalsRow), args.Error(1)
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

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

func newReportingRouter(svc portssvc.ReportingSvcFacade) *gin.Engine {
	r := gin.New()
	registerReportingRoutes(r.Group("/api/v1"), svc)
	return r
}

func TestTrialBalanceAsOfCoversWholeDay(t *testing.T) {
	mockSvc := new(MockReportingService)
	var captured time.Time
	mockSvc.On("TrialBalance", mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(time.Time)
		}).Return([]domain.TrialBalanceRow{}, nil)
	router := newReportingRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2026-01-15", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	// An entry posted mid-morning on the 15th must satisfy a <= cutoff filter.
	posted := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.False(t, posted.After(captured))
	assert.True(t, captured.Before(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)))
}

func TestTrialBalanceRejectsMalformedAsOf(t *testing.T) {
	mockSvc := new(MockReportingService)
	router := newReportingRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/trial-balance?asOf=15-01-2026", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "TrialBalance", mock.Anything, mock.Anything)
}

func TestIncomeStatementRangeCoversEndDay(t *testing.T) {
	mockSvc := new(MockReportingService)
	var from, to time.Time
	mockSvc.On("IncomeStatement", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			from = args.Get(1).(time.Time)
			to = args.Get(2).(time.Time)
		}).Return(&domain.IncomeStatementReport{}, nil)
	router := newReportingRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/income-statement?from=2026-01-01&to=2026-01-31", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	lastDayEntry := time.Date(2026, 1, 31, 18, 30, 0, 0, time.UTC)
	assert.False(t, lastDayEntry.After(to))
	assert.True(t, to.Before(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAccountTotalsRangeCoversEndDay(t *testing.T) {
	mockSvc := new(MockReportingService)
	var to time.Time
	mockSvc.On("AccountTotalsInRange", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			to = args.Get(2).(time.Time)
		}).Return([]domain.AccountTotalsRow{}, nil)
	router := newReportingRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/account-totals?from=2026-03-01&to=2026-03-10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	lastDayEntry := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.False(t, lastDayEntry.After(to))
	assert.True(t, to.Before(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestListEntriesRangeCoversEndDay(t *testing.T) {
	mockSvc := new(MockPostingService)
	var to time.Time
	mockSvc.On("ListEntriesInRange", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			to = args.Get(2).(time.Time)
		}).Return([]domain.JournalEntry{}, nil)
	r := gin.New()
	registerPostingRoutes(r.Group("/api/v1"), mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal/entries?from=2026-01-01&to=2026-01-15", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	lastDayEntry := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.False(t, lastDayEntry.After(to))
	assert.True(t, to.Before(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)))
}
