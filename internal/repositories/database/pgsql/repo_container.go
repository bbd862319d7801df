package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/wekeza-coop/sacco_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       newPgxTxManager(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		FiscalRepo:      newPgxFiscalPeriodRepository(dbPool),
		MappingRepo:     newPgxEventMappingRepository(dbPool),
		DepositRepo:     newPgxDepositRepository(dbPool),
		DestinationRepo: newPgxDestinationRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
