package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of hire dates
const DateLayout = "2006-01-02"

// Employee represents a row of the employee directory
type Employee struct {
	ID         int64
	Name       string
	Email      string
	Position   string
	Department string
	Phone      *string
	HireDate   *time.Time
	Salary     *decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// employeeJSON is the wire representation of an Employee
type employeeJSON struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Position   string       `json:"position"`
	Department string       `json:"department"`
	Phone      *string      `json:"phone"`
	HireDate   *string      `json:"hire_date"`
	Salary     *json.Number `json:"salary"`
}

// MarshalJSON renders hire_date as YYYY-MM-DD and salary as a plain JSON number
func (e Employee) MarshalJSON() ([]byte, error) {
	out := employeeJSON{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Phone:      e.Phone,
	}
	if e.HireDate != nil {
		s := e.HireDate.Format(DateLayout)
		out.HireDate = &s
	}
	if e.Salary != nil {
		n := json.Number(e.Salary.String())
		out.Salary = &n
	}
	return json.Marshal(out)
}

// Optional records whether a JSON key was present, and whether it was null.
// A missing key leaves Set false.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON is only invoked by encoding/json when the key is present
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Some returns a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding JSON null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// NumericText holds the literal text of a JSON number or string. It lets salary
// accept both 12000.5 and "12000.50" and defers validation to the service.
type NumericText string

// UnmarshalJSON keeps the raw token; quoted values are unquoted
func (n *NumericText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	*n = NumericText(data)
	return nil
}

// EmployeeInput is the body of create and update requests.
// On update only the keys present in the request are applied.
type EmployeeInput struct {
	Name       Optional[string]      `json:"name"`
	Email      Optional[string]      `json:"email"`
	Position   Optional[string]      `json:"position"`
	Department Optional[string]      `json:"department"`
	Phone      Optional[string]      `json:"phone"`
	HireDate   Optional[string]      `json:"hire_date"`
	Salary     Optional[NumericText] `json:"salary"`
}
