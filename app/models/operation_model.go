package models

import "time"

const (
	OperationStatusActive    = "ACTIVE"
	OperationStatusCompleted = "COMPLETED"
	OperationStatusCancelled = "CANCELLED"
)

// Operation groups missions under a named campaign. Deleting an operation
// cascades to its missions and their tasks.
type Operation struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	StartDate   time.Time  `json:"startDate" db:"start_date"`
	EndDate     *time.Time `json:"endDate" db:"end_date"`
	Status      string     `json:"status" db:"status"`
	Missions    []Mission  `json:"missions" db:"-"`
}

type CreateOperationRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2048"`
}

type UpdateOperationRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2048"`
	Status      *string    `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`
	EndDate     *time.Time `json:"endDate"`
}

func (r UpdateOperationRequest) HasFields() bool {
	return r.Name != nil || r.Description != nil || r.Status != nil || r.EndDate != nil
}

func (r UpdateOperationRequest) Apply(o *Operation) {
	if r.Name != nil {
		o.Name = *r.Name
	}
	if r.Description != nil {
		o.Description = *r.Description
	}
	if r.Status != nil {
		o.Status = *r.Status
	}
	if r.EndDate != nil {
		o.EndDate = r.EndDate
	}
}
