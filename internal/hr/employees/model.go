package employees

import (
	"time"

	"github.com/google/uuid"
)

// Employee is one HR record. Its ID doubles as the owning account's user
// ID, which is what self-access checks compare against.
type Employee struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
	Position   string    `json:"position" db:"position"`
	HireDate   time.Time `json:"hire_date" db:"hire_date"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
