package timesheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronos-hr/chronos/internal/shared"
)

// Repository persists timesheets.
type Repository interface {
	Create(ctx context.Context, t Timesheet) error
	Get(ctx context.Context, id uuid.UUID) (*Timesheet, error)
	List(ctx context.Context, req ListTimesheetsRequest) ([]Timesheet, int, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetStatus(ctx context.Context, id uuid.UUID, from, to Status, approvedBy *uuid.UUID) error
}

// ErrStatusConflict indicates the timesheet was not in the expected state.
var ErrStatusConflict = errors.New("timesheets: status conflict")

// PGRepository is the pgx-backed Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const timesheetColumns = `id, employee_id, work_date, hours, project, notes, status, approved_by, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, t Timesheet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO timesheets (id, employee_id, work_date, hours, project, notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.EmployeeID, t.WorkDate, t.Hours, t.Project, t.Notes, t.Status)
	if err != nil {
		return fmt.Errorf("timesheets: create: %w", err)
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Timesheet, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+timesheetColumns+` FROM timesheets WHERE id = $1`, id)
	return scanTimesheet(row)
}

func (r *PGRepository) List(ctx context.Context, req ListTimesheetsRequest) ([]Timesheet, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	idx := 1
	if req.EmployeeID != nil {
		where = append(where, fmt.Sprintf("employee_id = $%d", idx))
		args = append(args, *req.EmployeeID)
		idx++
	}
	if req.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, *req.Status)
		idx++
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM timesheets WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("timesheets: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM timesheets WHERE %s ORDER BY work_date DESC, created_at DESC OFFSET $%d LIMIT $%d`,
		timesheetColumns, clause, idx, idx+1)
	rows, err := r.pool.Query(ctx, query, append(args, req.Offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("timesheets: list: %w", err)
	}
	defer rows.Close()

	var result []Timesheet
	for rows.Next() {
		var t Timesheet
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.WorkDate, &t.Hours, &t.Project, &t.Notes,
			&t.Status, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("timesheets: scan: %w", err)
		}
		result = append(result, t)
	}
	return result, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	sets := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	idx := 1
	for _, col := range []string{"work_date", "hours", "project", "notes"} {
		if v, ok := updates[col]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
			args = append(args, v)
			idx++
		}
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE timesheets SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		return fmt.Errorf("timesheets: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStatus transitions a timesheet atomically: the row must currently be
// in the expected state or the transition is rejected.
func (r *PGRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to Status, approvedBy *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE timesheets SET status = $1, approved_by = $2, updated_at = NOW() WHERE id = $3 AND status = $4`,
		to, approvedBy, id, from)
	if err != nil {
		return fmt.Errorf("timesheets: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

func scanTimesheet(row pgx.Row) (*Timesheet, error) {
	var t Timesheet
	err := row.Scan(&t.ID, &t.EmployeeID, &t.WorkDate, &t.Hours, &t.Project, &t.Notes,
		&t.Status, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("timesheets: scan: %w", err)
	}
	return &t, nil
}
