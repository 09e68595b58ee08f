package repositories

import (
	"context"
	"errors"

	"github.com/staffdesk/employee-directory/src/models"
)

var (
	// ErrNotFound indicates that no row matched the lookup
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates a unique constraint rejected the write
	ErrDuplicateKey = errors.New("duplicate key")
)

// AdminRepository defines the interface for administrator data access
type AdminRepository interface {
	// Create inserts the administrator and fills in ID and CreatedAt.
	// Returns ErrDuplicateKey if the username is taken.
	Create(ctx context.Context, admin *models.Administrator) error
	// GetByUsername returns ErrNotFound if no administrator has the username.
	GetByUsername(ctx context.Context, username string) (*models.Administrator, error)
	Count(ctx context.Context) (int64, error)
}

// EmployeeMutator changes an employee in place inside an update transaction
type EmployeeMutator func(e *models.Employee) error

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	List(ctx context.Context) ([]models.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts the employee and fills in ID, CreatedAt and UpdatedAt.
	// Returns ErrDuplicateKey if the email is taken.
	Create(ctx context.Context, employee *models.Employee) error

	// Update locks the row, applies mutate and writes the result in one
	// transaction. Returns ErrNotFound for an unknown id and ErrDuplicateKey
	// if the new email collides with another row.
	Update(ctx context.Context, id int64, mutate EmployeeMutator) (*models.Employee, error)

	// Delete returns ErrNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error
}
