package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrInvalidCredentials indicates username/password authentication failed.
	// It never says which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates an identity provider token failed verification
	ErrInvalidToken = errors.New("invalid identity token")

	// ErrIdentityEmailMissing indicates a verified identity token carried no email
	ErrIdentityEmailMissing = errors.New("identity token has no email claim")

	// ErrFederatedLoginDisabled indicates Google Sign-In is not configured
	ErrFederatedLoginDisabled = errors.New("federated login is not configured")

	// ErrUnauthenticated indicates a missing, malformed or expired bearer token
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrDuplicateEmail indicates another employee already uses the email
	ErrDuplicateEmail = errors.New("employee email already exists")

	// ErrInvalidSalary indicates the salary is not a non-negative decimal
	ErrInvalidSalary = errors.New("salary must be a non-negative decimal number")

	// ErrInvalidHireDate indicates the hire date is not YYYY-MM-DD
	ErrInvalidHireDate = errors.New("hire_date must use the YYYY-MM-DD format")

	// ErrEmployeeNotFound indicates the employee id does not exist
	ErrEmployeeNotFound = errors.New("employee not found")
)

// ValidationError reports a missing or blank required field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
