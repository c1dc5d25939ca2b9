package timesheets

import (
	"time"

	"github.com/google/uuid"
)

// Status is the timesheet lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// Timesheet records hours worked by an employee on one day.
type Timesheet struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EmployeeID uuid.UUID  `json:"employee_id" db:"employee_id"`
	WorkDate   time.Time  `json:"work_date" db:"work_date"`
	Hours      float64    `json:"hours" db:"hours"`
	Project    string     `json:"project" db:"project"`
	Notes      string     `json:"notes,omitempty" db:"notes"`
	Status     Status     `json:"status" db:"status"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
