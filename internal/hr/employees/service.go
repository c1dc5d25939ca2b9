package employees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chronos-hr/chronos/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, fmt.Errorf("employees: invalid id: %w", err)
	}
	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, fmt.Errorf("employees: invalid hire date: %w", err)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("employees: check existing: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: employee email already registered", shared.ErrAlreadyExists)
	}

	employee := Employee{
		ID:         id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   hireDate,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("employees: create: %w", err)
	}
	return &employee, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListEmployeesRequest) ([]Employee, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*Employee, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("employees: update: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
