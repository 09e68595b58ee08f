// Package memory provides in-process repositories with the same uniqueness
// rules as the Postgres schema. Used by tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

// AdminRepository stores administrators keyed by username
type AdminRepository struct {
	mu     sync.RWMutex
	byName map[string]models.Administrator
	nextID int64
}

// NewAdminRepository creates an empty administrator store
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{byName: make(map[string]models.Administrator)}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Administrator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[admin.Username]; exists {
		return repositories.ErrDuplicateKey
	}

	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now().UTC()
	r.byName[admin.Username] = *admin
	return nil
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.byName[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &admin, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byName)), ctx.Err()
}

// EmployeeRepository stores employees keyed by id
type EmployeeRepository struct {
	mu     sync.RWMutex
	rows   map[int64]models.Employee
	nextID int64
}

// NewEmployeeRepository creates an empty employee store
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{rows: make(map[int64]models.Employee)}
}

// Len returns the number of stored employees
func (r *EmployeeRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, 0), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(employee.Email, 0) {
		return repositories.ErrDuplicateKey
	}

	r.nextID++
	now := time.Now().UTC()
	employee.ID = r.nextID
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.rows[employee.ID] = *employee
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, mutate repositories.EmployeeMutator) (*models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	// mutate a copy so a failed update leaves the stored row untouched
	updated := current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	updated.ID = id

	if r.emailTaken(updated.Email, id) {
		return nil, repositories.ErrDuplicateKey
	}

	updated.UpdatedAt = time.Now().UTC()
	r.rows[id] = updated
	return &updated, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// emailTaken must be called with r.mu held
func (r *EmployeeRepository) emailTaken(email string, exceptID int64) bool {
	for id, e := range r.rows {
		if id != exceptID && e.Email == email {
			return true
		}
	}
	return false
}

var (
	_ repositories.AdminRepository    = (*AdminRepository)(nil)
	_ repositories.EmployeeRepository = (*EmployeeRepository)(nil)
)
