package domain

import "time"

// EventMapping maps a named business event to the GL account pair it posts
// against. Mappings are maintained administratively and are read-only to the
// posting engine at call time.
type EventMapping struct {
	EventName           string    `json:"eventName"` // Unique key, e.g. "SAVINGS_DEPOSIT"
	DebitAccountCode    string    `json:"debitAccountCode"`
	CreditAccountCode   string    `json:"creditAccountCode"`
	DescriptionTemplate string    `json:"descriptionTemplate"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
