package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthRequired occurs when a role-gated operation is called without a principal.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden occurs when the caller fails both role and ownership checks.
	ErrForbidden = errors.New("forbidden")
)
