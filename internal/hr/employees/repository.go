package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chronos-hr/chronos/internal/shared"
)

// Repository persists employees.
type Repository interface {
	Create(ctx context.Context, e Employee) error
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context, req ListEmployeesRequest) ([]Employee, int, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PGRepository is the pgx-backed Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const employeeColumns = `id, first_name, last_name, email, department, position, hire_date, is_active, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, e Employee) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO employees (id, first_name, last_name, email, department, position, hire_date, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.HireDate, e.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("employees: create: %w", err)
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
	return scanEmployee(row)
}

func (r *PGRepository) List(ctx context.Context, req ListEmployeesRequest) ([]Employee, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	idx := 1
	if req.Department != nil {
		where = append(where, fmt.Sprintf("department = $%d", idx))
		args = append(args, *req.Department)
		idx++
	}
	if req.IsActive != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", idx))
		args = append(args, *req.IsActive)
		idx++
	}
	if req.Search != nil {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+*req.Search+"%")
		idx++
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("employees: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY last_name, first_name OFFSET $%d LIMIT $%d`,
		employeeColumns, clause, idx, idx+1)
	rows, err := r.pool.Query(ctx, query, append(args, req.Offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("employees: list: %w", err)
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
			&e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("employees: scan: %w", err)
		}
		result = append(result, e)
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
	for _, col := range []string{"first_name", "last_name", "email", "department", "position"} {
		if v, ok := updates[col]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
			args = append(args, v)
			idx++
		}
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx), args...)
	if err != nil {
		return fmt.Errorf("employees: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("employees: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
		&e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("employees: scan: %w", err)
	}
	return &e, nil
}
