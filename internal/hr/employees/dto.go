package employees

type CreateEmployeeRequest struct {
	ID         string `json:"id" validate:"required,uuid4"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required,max=100"`
	Position   string `json:"position" validate:"required,max=100"`
	HireDate   string `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

type UpdateEmployeeRequest struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
}

type ListEmployeesRequest struct {
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Search     *string `json:"search,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}
