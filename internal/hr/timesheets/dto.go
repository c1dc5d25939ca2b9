package timesheets

type CreateTimesheetRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid4"`
	WorkDate   string  `json:"work_date" validate:"required,datetime=2006-01-02"`
	Hours      float64 `json:"hours" validate:"required,gt=0,lte=24"`
	Project    string  `json:"project" validate:"required,max=200"`
	Notes      string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateTimesheetRequest struct {
	WorkDate *string  `json:"work_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Hours    *float64 `json:"hours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Project  *string  `json:"project,omitempty" validate:"omitempty,max=200"`
	Notes    *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type RejectTimesheetRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ListTimesheetsRequest struct {
	EmployeeID *string `json:"employee_id,omitempty" validate:"omitempty,uuid4"`
	Status     *Status `json:"status,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}
