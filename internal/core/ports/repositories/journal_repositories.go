package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
)

// JournalRepository persists journal entries with their lines. Entries are
// append-only: there is no update or delete path.
type JournalRepository interface {
	// SaveEntryInTx inserts the entry header and all of its lines inside the
	// surrounding transaction. Lines never exist without their parent entry.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
	FindEntriesByReference(ctx context.Context, referenceNo string) ([]domain.JournalEntry, error)
	ListEntriesInRange(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error)
}

// TxManager runs a function within a single database transaction, committing
// on nil and rolling back on error. It is the unit-of-work boundary for the
// posting engine and the allocation processor.
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
