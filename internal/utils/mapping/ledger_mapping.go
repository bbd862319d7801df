package mapping

import (
	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	"github.com/wekeza-coop/sacco_ledger/internal/models"
)

// ToModelAccount converts a domain account for storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:      d.Code,
		Name:      d.Name,
		Type:      models.AccountType(d.Type),
		Balance:   d.Balance,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainAccount converts a stored account back to the domain type.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:      m.Code,
		Name:      m.Name,
		Type:      domain.AccountType(m.Type),
		Balance:   m.Balance,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToModelEntry converts a domain journal entry header for storage.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TransactionDate: d.TransactionDate,
		PostedAt:        d.PostedAt,
		Description:     d.Description,
		ReferenceNo:     d.ReferenceNo,
	}
}

// ToDomainEntry converts a stored entry header back to the domain type.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		TransactionDate: m.TransactionDate,
		PostedAt:        m.PostedAt,
		Description:     m.Description,
		ReferenceNo:     m.ReferenceNo,
	}
}

// ToModelLine converts a domain journal line for storage.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
	}
}

// ToDomainLine converts a stored line back to the domain type.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
	}
}

// ToDomainLineSlice converts stored lines back to domain lines.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

// ToDomainFiscalPeriod converts a stored fiscal period back to the domain type.
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:  m.PeriodID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsActive:  m.IsActive,
		IsClosed:  m.IsClosed,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainEventMapping converts a stored mapping back to the domain type.
func ToDomainEventMapping(m models.EventMapping) domain.EventMapping {
	return domain.EventMapping{
		EventName:           m.EventName,
		DebitAccountCode:    m.DebitAccountCode,
		CreditAccountCode:   m.CreditAccountCode,
		DescriptionTemplate: m.DescriptionTemplate,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// ToDomainDeposit converts a stored deposit (without allocations) back to the
// domain type.
func ToDomainDeposit(m models.Deposit) domain.Deposit {
	return domain.Deposit{
		DepositID:        m.DepositID,
		MemberID:         m.MemberID,
		TotalAmount:      m.TotalAmount,
		Status:           domain.DepositStatus(m.Status),
		PaymentReference: m.PaymentReference,
		Notes:            m.Notes,
		Error:            m.Error,
		CreatedAt:        m.CreatedAt,
		ProcessedAt:      m.ProcessedAt,
	}
}

// ToDomainAllocation converts a stored allocation back to the domain type.
func ToDomainAllocation(m models.DepositAllocation) domain.Allocation {
	return domain.Allocation{
		AllocationID:    m.AllocationID,
		DepositID:       m.DepositID,
		DestinationType: domain.DestinationType(m.DestinationType),
		DestinationID:   m.DestinationID,
		Amount:          m.Amount,
		Status:          domain.AllocationStatus(m.Status),
		ErrorMessage:    m.ErrorMessage,
	}
}
