package dto

import "time"

// RotatePeriodRequest closes the current active fiscal period (if any) and
// opens a new one in a single administrative operation.
type RotatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// UpsertMappingRequest creates or updates a GL event mapping.
type UpsertMappingRequest struct {
	EventName           string `json:"eventName" binding:"required"`
	DebitAccountCode    string `json:"debitAccountCode" binding:"required"`
	CreditAccountCode   string `json:"creditAccountCode" binding:"required"`
	DescriptionTemplate string `json:"descriptionTemplate"`
}
