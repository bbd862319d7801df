package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

const totalsSelect = `
	SELECT
		a.code,
		a.name AS account_name,
		a.account_type,
		SUM(l.debit) AS total_debit,
		SUM(l.credit) AS total_credit
	FROM journal_lines l
	JOIN accounts a ON l.account_code = a.code
	JOIN journal_entries e ON l.entry_id = e.entry_id
`

// GetAccountTotalsUpToDate sums line debits/credits per account for all
// entries dated on or before asOf.
func (r *reportingRepository) GetAccountTotalsUpToDate(ctx context.Context, asOf time.Time) ([]domain.AccountTotalsRow, error) {
	query := totalsSelect + `
	WHERE e.transaction_date <= $1
	GROUP BY a.code, a.name, a.account_type
	ORDER BY a.code;
	`
	return r.queryTotals(ctx, query, asOf)
}

// GetAccountTotalsInRange restricts the aggregation to a date interval.
func (r *reportingRepository) GetAccountTotalsInRange(ctx context.Context, from, to time.Time) ([]domain.AccountTotalsRow, error) {
	query := totalsSelect + `
	WHERE e.transaction_date BETWEEN $1 AND $2
	GROUP BY a.code, a.name, a.account_type
	ORDER BY a.code;
	`
	return r.queryTotals(ctx, query, from, to)
}

func (r *reportingRepository) queryTotals(ctx context.Context, query string, args ...any) ([]domain.AccountTotalsRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTotalsRow{}
	for rows.Next() {
		var row domain.AccountTotalsRow
		var accountType string

		if err := rows.Scan(
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account totals row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account totals rows: %w", err)
	}
	return result, nil
}
