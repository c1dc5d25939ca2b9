package rbac

import "time"

// Well-known role names used across operation descriptors.
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RolePM       = "PM"
	RoleEmployee = "EMPLOYEE"
)

// Role represents a high-level permission grouping. The decision engine
// compares role names only; permissions are advisory metadata.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission represents an atomic capability.
type Permission struct {
	ID          int64
	Name        string
	Description string
}
