package repositories

// RepositoryProvider bundles every repository implementation the service
// layer needs, so wiring in main stays a single value.
type RepositoryProvider struct {
	TxManager       TxManager
	AccountRepo     AccountRepository
	JournalRepo     JournalRepository
	FiscalRepo      FiscalPeriodRepository
	MappingRepo     EventMappingRepository
	DepositRepo     DepositRepository
	DestinationRepo DestinationRepository
	ReportingRepo   ReportingRepository
}
