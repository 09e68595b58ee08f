package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

// maxSalary is the first value that does not fit NUMERIC(14,2)
var maxSalary = decimal.New(1, maxSalaryDigits)

const maxSalaryDigits = 12

// EmployeeService manages the employee directory
type EmployeeService struct {
	repo      repositories.EmployeeRepository
	analytics *AnalyticsService
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo repositories.EmployeeRepository, analytics *AnalyticsService) *EmployeeService {
	return &EmployeeService{repo: repo, analytics: analytics}
}

// List returns every employee ordered by id
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

// Create validates the input and inserts a new employee. actor is the
// authenticated administrator.
func (s *EmployeeService) Create(ctx context.Context, actor string, in *models.EmployeeInput) (*models.Employee, error) {
	employee, err := newEmployeeFromInput(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, employee.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		// lost a race with a concurrent insert of the same email
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.analytics.TrackEmployeeCreated(ctx, actor, employee.ID)
	return employee, nil
}

// Update applies a merge-patch: only the keys present in the input change
func (s *EmployeeService) Update(ctx context.Context, actor string, id int64, in *models.EmployeeInput) (*models.Employee, error) {
	if id <= 0 {
		return nil, ErrEmployeeNotFound
	}

	patch, err := newEmployeePatch(in)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.Update(ctx, id, patch.apply)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrEmployeeNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateEmail
		default:
			return nil, fmt.Errorf("failed to update employee %d: %w", id, err)
		}
	}

	s.analytics.TrackEmployeeUpdated(ctx, actor, employee.ID, patch.fields)
	return employee, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return ErrEmployeeNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}

	s.analytics.TrackEmployeeDeleted(ctx, actor, id)
	return nil
}

func newEmployeeFromInput(in *models.EmployeeInput) (*models.Employee, error) {
	if in == nil {
		in = &models.EmployeeInput{}
	}

	e := &models.Employee{}
	var err error
	if e.Name, err = requiredField("name", in.Name); err != nil {
		return nil, err
	}
	if e.Email, err = requiredField("email", in.Email); err != nil {
		return nil, err
	}
	if e.Position, err = requiredField("position", in.Position); err != nil {
		return nil, err
	}
	if e.Department, err = requiredField("department", in.Department); err != nil {
		return nil, err
	}
	if e.HireDate, err = parseHireDate(in.HireDate); err != nil {
		return nil, err
	}
	if e.Salary, err = parseSalary(in.Salary); err != nil {
		return nil, err
	}
	e.Phone = optionalText(in.Phone)
	return e, nil
}

// employeePatch is a validated update. Every setter assigns fresh values and
// never writes through pointers already held by the employee.
type employeePatch struct {
	fields  []string
	setters []func(e *models.Employee)
}

func (p *employeePatch) add(field string, set func(e *models.Employee)) {
	p.fields = append(p.fields, field)
	p.setters = append(p.setters, set)
}

func (p *employeePatch) apply(e *models.Employee) error {
	for _, set := range p.setters {
		set(e)
	}
	return nil
}

func newEmployeePatch(in *models.EmployeeInput) (*employeePatch, error) {
	p := &employeePatch{}
	if in == nil {
		return p, nil
	}

	required := []struct {
		field string
		value models.Optional[string]
		set   func(e *models.Employee, v string)
	}{
		{"name", in.Name, func(e *models.Employee, v string) { e.Name = v }},
		{"email", in.Email, func(e *models.Employee, v string) { e.Email = v }},
		{"position", in.Position, func(e *models.Employee, v string) { e.Position = v }},
		{"department", in.Department, func(e *models.Employee, v string) { e.Department = v }},
	}
	for _, r := range required {
		if !r.value.Set {
			continue
		}
		v, err := requiredField(r.field, r.value)
		if err != nil {
			return nil, err
		}
		set := r.set
		p.add(r.field, func(e *models.Employee) { set(e, v) })
	}

	if in.Phone.Set {
		phone := optionalText(in.Phone)
		p.add("phone", func(e *models.Employee) { e.Phone = phone })
	}
	if in.HireDate.Set {
		hired, err := parseHireDate(in.HireDate)
		if err != nil {
			return nil, err
		}
		p.add("hire_date", func(e *models.Employee) { e.HireDate = hired })
	}
	if in.Salary.Set {
		salary, err := parseSalary(in.Salary)
		if err != nil {
			return nil, err
		}
		p.add("salary", func(e *models.Employee) { e.Salary = salary })
	}

	return p, nil
}

func requiredField(field string, value models.Optional[string]) (string, error) {
	if !value.Set || value.Null {
		return "", &ValidationError{Field: field}
	}
	v := strings.TrimSpace(value.Value)
	if v == "" {
		return "", &ValidationError{Field: field}
	}
	return v, nil
}

// optionalText returns nil for null or blank values
func optionalText(value models.Optional[string]) *string {
	if !value.Set || value.Null {
		return nil
	}
	v := strings.TrimSpace(value.Value)
	if v == "" {
		return nil
	}
	return &v
}

// parseHireDate accepts YYYY-MM-DD; null and "" clear the date
func parseHireDate(value models.Optional[string]) (*time.Time, error) {
	if !value.Set || value.Null {
		return nil, nil
	}
	v := strings.TrimSpace(value.Value)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHireDate, v)
	}
	return &t, nil
}

// parseSalary accepts a non-negative decimal, rounded to cents; null and ""
// clear the salary
func parseSalary(value models.Optional[models.NumericText]) (*decimal.Decimal, error) {
	if !value.Set || value.Null {
		return nil, nil
	}
	v := strings.TrimSpace(string(value.Value))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSalary, v)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidSalary, v)
	}
	if d.IsZero() {
		zero := decimal.Zero
		return &zero, nil
	}
	// Round expands the exponent, so range-check on digit counts first
	magnitude := int64(len(d.Coefficient().Text(10))) + int64(d.Exponent())
	if magnitude > maxSalaryDigits {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidSalary, v)
	}
	if magnitude < -2 {
		zero := decimal.Zero
		return &zero, nil
	}
	d = d.Round(2)
	if d.GreaterThanOrEqual(maxSalary) {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidSalary, v)
	}
	return &d, nil
}
