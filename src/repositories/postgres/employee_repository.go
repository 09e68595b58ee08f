package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

// employeeColumns is shared by every SELECT; salary is read as text to keep
// the exact NUMERIC value.
const employeeColumns = `id, name, email, position, department, phone, hire_date, salary::text, created_at, updated_at`

// EmployeeRepository is the pgx implementation of repositories.EmployeeRepository
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates an employee repository backed by pool
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	e := &models.Employee{}
	var salary *string
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Position, &e.Department,
		&e.Phone, &e.HireDate, &salary, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if salary != nil {
		d, err := decimal.NewFromString(*salary)
		if err != nil {
			return nil, fmt.Errorf("invalid salary %q in employee %d: %w", *salary, e.ID, err)
		}
		e.Salary = &d
	}
	return e, nil
}

// salaryParam renders the salary for a $n::numeric placeholder
func salaryParam(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (name, email, position, department, phone, hire_date, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		e.Name, e.Email, e.Position, e.Department, e.Phone, e.HireDate, salaryParam(e.Salary),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", translate(err))
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, mutate repositories.EmployeeMutator) (*models.Employee, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	e, err := scanEmployee(tx.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock employee %d: %w", id, translate(err))
	}

	if err := mutate(e); err != nil {
		return nil, err
	}

	query := `
		UPDATE employees
		SET name = $2, email = $3, position = $4, department = $5,
		    phone = $6, hire_date = $7, salary = $8::numeric, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, query,
		id, e.Name, e.Email, e.Position, e.Department, e.Phone, e.HireDate, salaryParam(e.Salary),
	).Scan(&e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee %d: %w", id, translate(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit employee update: %w", translate(err))
	}
	e.ID = id
	return e, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete employee %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

var _ repositories.EmployeeRepository = (*EmployeeRepository)(nil)
