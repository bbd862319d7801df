package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
)

// ReportJob periodically runs a trial balance over the ledger and logs
// whether the books are in balance. It is an operational consistency check,
// not a user-facing report.
type ReportJob struct {
	reportingSvc portssvc.ReportingSvcFacade
	logger       *slog.Logger
	interval     time.Duration
}

// NewReportJob creates a new report job.
func NewReportJob(reportingSvc portssvc.ReportingSvcFacade, logger *slog.Logger, interval time.Duration) *ReportJob {
	return &ReportJob{
		reportingSvc: reportingSvc,
		logger:       logger,
		interval:     interval,
	}
}

// Start runs the job loop until the context is cancelled. The first check
// runs immediately so an unbalanced ledger is flagged at startup.
func (j *ReportJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Report job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *ReportJob) runOnce(ctx context.Context) {
	asOf := time.Now().UTC()
	rows, err := j.reportingSvc.TrialBalance(ctx, asOf)
	if err != nil {
		j.logger.Error("Trial balance check failed", slog.String("error", err.Error()))
		return
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, row := range rows {
		debits = debits.Add(row.Debit)
		credits = credits.Add(row.Credit)
	}

	if debits.Equal(credits) {
		j.logger.Info("Trial balance check passed",
			slog.Int("accounts", len(rows)),
			slog.String("total", debits.String()),
		)
		return
	}
	j.logger.Error("Trial balance check failed: ledger out of balance",
		slog.String("total_debits", debits.String()),
		slog.String("total_credits", credits.String()),
	)
}
