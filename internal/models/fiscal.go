package models

import "time"

// FiscalPeriod is the database representation of an accounting period.
// A partial unique index on is_active guarantees at most one active row.
type FiscalPeriod struct {
	PeriodID  string    `db:"period_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsActive  bool      `db:"is_active"`
	IsClosed  bool      `db:"is_closed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// EventMapping is the database representation of a GL event mapping.
type EventMapping struct {
	EventName           string    `db:"event_name"`
	DebitAccountCode    string    `db:"debit_account_code"`
	CreditAccountCode   string    `db:"credit_account_code"`
	DescriptionTemplate string    `db:"description_template"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}
