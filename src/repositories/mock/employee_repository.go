package mock

import (
	"context"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

// EmployeeRepository is a mock implementation of repositories.EmployeeRepository
type EmployeeRepository struct {
	// Function stubs that can be overridden in tests
	ListFunc          func(ctx context.Context) ([]models.Employee, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	CreateFunc        func(ctx context.Context, employee *models.Employee) error
	UpdateFunc        func(ctx context.Context, id int64, mutate repositories.EmployeeMutator) (*models.Employee, error)
	DeleteFunc        func(ctx context.Context, id int64) error

	// Call tracking
	Calls map[string][]interface{}
}

// NewEmployeeRepository creates a new mock employee repository
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	m.Calls["List"] = append(m.Calls["List"], nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.Calls["ExistsByEmail"] = append(m.Calls["ExistsByEmail"], email)
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	m.Calls["Create"] = append(m.Calls["Create"], employee)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, employee)
	}
	return nil
}

func (m *EmployeeRepository) Update(ctx context.Context, id int64, mutate repositories.EmployeeMutator) (*models.Employee, error) {
	m.Calls["Update"] = append(m.Calls["Update"], id)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, mutate)
	}
	return nil, repositories.ErrNotFound
}

func (m *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Ensure EmployeeRepository implements the interface
var _ repositories.EmployeeRepository = (*EmployeeRepository)(nil)
