package timesheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSelfApproval rejects approving or rejecting one's own timesheet.
var ErrSelfApproval = errors.New("timesheets: cannot approve own timesheet")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateTimesheetRequest) (*Timesheet, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("timesheets: invalid employee id: %w", err)
	}
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("timesheets: invalid work date: %w", err)
	}

	timesheet := Timesheet{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		WorkDate:   workDate,
		Hours:      req.Hours,
		Project:    req.Project,
		Notes:      req.Notes,
		Status:     StatusDraft,
	}
	if err := s.repo.Create(ctx, timesheet); err != nil {
		return nil, err
	}
	return &timesheet, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Timesheet, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListTimesheetsRequest) ([]Timesheet, int, error) {
	return s.repo.List(ctx, req)
}

// Update edits a draft. Submitted and decided timesheets are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTimesheetRequest) (*Timesheet, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be edited", ErrStatusConflict)
	}

	updates := make(map[string]any)
	if req.WorkDate != nil {
		workDate, err := time.Parse("2006-01-02", *req.WorkDate)
		if err != nil {
			return nil, fmt.Errorf("timesheets: invalid work date: %w", err)
		}
		updates["work_date"] = workDate
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.Project != nil {
		updates["project"] = *req.Project
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Submit moves a draft into review.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*Timesheet, error) {
	if err := s.repo.SetStatus(ctx, id, StatusDraft, StatusSubmitted, nil); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Approve accepts a submitted timesheet. Approvers cannot decide their own.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, approverID uuid.UUID) (*Timesheet, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.EmployeeID == approverID {
		return nil, ErrSelfApproval
	}
	if err := s.repo.SetStatus(ctx, id, StatusSubmitted, StatusApproved, &approverID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Reject declines a submitted timesheet back to the employee.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, approverID uuid.UUID) (*Timesheet, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.EmployeeID == approverID {
		return nil, ErrSelfApproval
	}
	if err := s.repo.SetStatus(ctx, id, StatusSubmitted, StatusRejected, &approverID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
