package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
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
	"github.com/wekeza-coop/sacco_ledger/internal/utils/accounting"
)

var (
	// ErrEntryMinAccounts is returned when an entry would touch fewer than
	// two distinct accounts.
	ErrEntryMinAccounts = errors.New("entry must affect at least two different accounts")

	// ErrAccountInactive is returned when a line targets a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrAmountNotPositive is returned when an event amount is zero or negative.
	ErrAmountNotPositive = errors.New("amount must be positive")
)

// postingService is the journal posting engine. Every posting is a single
// database transaction covering the period check, the entry and its lines,
// and the balance updates of every touched account.
type postingService struct {
	txManager   portsrepo.TxManager
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
	fiscalSvc   portssvc.FiscalSvcFacade
	mappingSvc  portssvc.MappingSvcFacade

	hooksMu sync.RWMutex
	hooks   []portssvc.PostCommitHook
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	txManager portsrepo.TxManager,
	journalRepo portsrepo.JournalRepository,
	accountRepo portsrepo.AccountRepository,
	fiscalSvc portssvc.FiscalSvcFacade,
	mappingSvc portssvc.MappingSvcFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fiscalSvc:   fiscalSvc,
		mappingSvc:  mappingSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// RegisterPostCommitHook adds a hook invoked after every durable commit.
// Hooks run synchronously in registration order and cannot affect the
// already-committed write.
func (s *postingService) RegisterPostCommitHook(hook portssvc.PostCommitHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// FirePostCommitHooks runs the registered hooks for a committed entry. A
// panicking hook is recovered and logged so one bad subscriber cannot take
// down the caller.
func (s *postingService) FirePostCommitHooks(ctx context.Context, entry domain.JournalEntry) {
	logger := middleware.GetLoggerFromCtx(ctx)
	s.hooksMu.RLock()
	hooks := make([]portssvc.PostCommitHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.RUnlock()

	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Post-commit hook panicked",
						slog.String("entry_id", entry.EntryID),
						slog.Any("panic", r),
					)
				}
			}()
			hook(ctx, entry)
		}()
	}
}

// PostEvent resolves the named event's account mapping and posts a balanced
// two-line entry dated now. The mapping's debit side may be overridden per
// call (e.g. money received into bank instead of cash).
func (s *postingService) PostEvent(ctx context.Context, req dto.PostEventRequest) (*domain.JournalEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s for event %s", ErrAmountNotPositive, req.Amount.String(), req.EventName)
	}

	mapping, err := s.mappingSvc.Resolve(ctx, req.EventName)
	if err != nil {
		return nil, err
	}

	debitCode := mapping.DebitAccountCode
	if req.DebitAccountOverride != "" {
		debitCode = req.DebitAccountOverride
	}

	description := req.Description
	if description == "" && mapping.DescriptionTemplate != "" {
		description = strings.ReplaceAll(mapping.DescriptionTemplate, "{reference}", req.ReferenceNo)
	}

	compound := dto.PostCompoundRequest{
		Description:     description,
		ReferenceNo:     req.ReferenceNo,
		TransactionDate: time.Now().UTC(),
		Lines: []dto.CompoundLine{
			{AccountCode: debitCode, Debit: req.Amount},
			{AccountCode: mapping.CreditAccountCode, Credit: req.Amount},
		},
	}
	return s.PostCompound(ctx, compound)
}

// PostCompound validates and posts a caller-assembled multi-line entry in its
// own transaction, then fires the post-commit hooks.
func (s *postingService) PostCompound(ctx context.Context, req dto.PostCompoundRequest) (*domain.JournalEntry, error) {
	entry, lines, err := s.buildEntry(req)
	if err != nil {
		metrics.PostingFailures.Inc()
		return nil, err
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		return s.postInTx(ctx, tx, entry, lines)
	})
	if err != nil {
		metrics.PostingFailures.Inc()
		return nil, err
	}

	metrics.EntriesPosted.Inc()
	entry.Lines = lines
	s.logPosted(ctx, entry)
	s.FirePostCommitHooks(ctx, *entry)
	return entry, nil
}

// PostCompoundInTx posts inside a caller-owned transaction so other effects
// can share the unit of work. The caller fires the hooks after its commit.
func (s *postingService) PostCompoundInTx(ctx context.Context, tx pgx.Tx, req dto.PostCompoundRequest) (*domain.JournalEntry, error) {
	entry, lines, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}
	if err := s.postInTx(ctx, tx, entry, lines); err != nil {
		return nil, err
	}
	entry.Lines = lines
	s.logPosted(ctx, entry)
	return entry, nil
}

// buildEntry converts the request into a domain entry and validates the
// double-entry invariants that need no database access.
func (s *postingService) buildEntry(req dto.PostCompoundRequest) (*domain.JournalEntry, []domain.JournalLine, error) {
	if req.Description == "" {
		return nil, nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		EntryID:         uuid.NewString(),
		TransactionDate: req.TransactionDate.UTC(),
		PostedAt:        now,
		Description:     req.Description,
		ReferenceNo:     req.ReferenceNo,
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	accountSet := make(map[string]bool, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountCode: lineReq.AccountCode,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
		}
		accountSet[lineReq.AccountCode] = true
	}

	if len(accountSet) < 2 {
		return nil, nil, ErrEntryMinAccounts
	}
	if _, err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return entry, lines, nil
}

// postInTx performs the in-transaction part of a posting: period check under
// a shared lock, account row locks, the entry insert, and the balance deltas.
func (s *postingService) postInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, lines []domain.JournalLine) error {
	if err := s.fiscalSvc.AssertOpenPeriodForInTx(ctx, tx, entry.TransactionDate); err != nil {
		return err
	}

	// Lock in a stable order so concurrent postings touching overlapping
	// account sets cannot deadlock.
	codeSet := make(map[string]bool, len(lines))
	for _, line := range lines {
		codeSet[line.AccountCode] = true
	}
	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	accounts, err := s.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return err
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for code, account := range accounts {
		if !account.IsActive {
			return fmt.Errorf("%w: %s", ErrAccountInactive, code)
		}
		accountTypes[code] = account.Type
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return fmt.Errorf("failed to compute balance changes: %w", err)
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, *entry, lines); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, entry.PostedAt); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func (s *postingService) logPosted(ctx context.Context, entry *domain.JournalEntry) {
	total := decimal.Zero
	for _, line := range entry.Lines {
		total = total.Add(line.Debit)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("reference_no", entry.ReferenceNo),
		slog.Int("lines", len(entry.Lines)),
		slog.String("total", total.String()),
	)
}

// GetEntry returns an entry with its lines attached.
func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// FindEntriesByReference returns entry headers correlated to a business
// reference, lines not attached.
func (s *postingService) FindEntriesByReference(ctx context.Context, referenceNo string) ([]domain.JournalEntry, error) {
	return s.journalRepo.FindEntriesByReference(ctx, referenceNo)
}

// ListEntriesInRange returns entry headers with transaction dates inside the
// given interval, lines not attached.
func (s *postingService) ListEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", apperrors.ErrValidation)
	}
	return s.journalRepo.ListEntriesInRange(ctx, from, to)
}
