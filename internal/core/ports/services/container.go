package services

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Mapping   MappingSvcFacade
	Fiscal    FiscalSvcFacade
	Posting   PostingSvcFacade
	Deposit   DepositSvcFacade
	Reporting ReportingSvcFacade
}
