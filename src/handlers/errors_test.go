package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffdesk/employee-directory/src/services"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"invalid identity token", fmt.Errorf("%w: bad audience", services.ErrInvalidToken), http.StatusUnauthorized, "invalid_token"},
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"identity without email", services.ErrIdentityEmailMissing, http.StatusBadRequest, "missing_email"},
		{"federated login disabled", services.ErrFederatedLoginDisabled, http.StatusServiceUnavailable, "federated_login_disabled"},
		{"duplicate email", services.ErrDuplicateEmail, http.StatusBadRequest, "duplicate_email"},
		{"invalid salary", fmt.Errorf("%w: \"abc\"", services.ErrInvalidSalary), http.StatusBadRequest, "invalid_salary"},
		{"invalid hire date", services.ErrInvalidHireDate, http.StatusBadRequest, "invalid_hire_date"},
		{"not found", services.ErrEmployeeNotFound, http.StatusNotFound, "not_found"},
		{"validation", &services.ValidationError{Field: "email"}, http.StatusBadRequest, "validation_error"},
		{"unexpected", errors.New(`pq: relation "employees" does not exist`), http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := newTestContext(http.MethodGet, "/api/employees")

			respondError(c, tt.err)

			assertErrorBody(t, w, tt.wantStatus, tt.wantError)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	w, c := newTestContext(http.MethodPost, "/api/employees")

	respondError(c, errors.New("password authentication failed for user postgres"))

	assert.NotContains(t, w.Body.String(), "postgres")
	assert.JSONEq(t, `{"error":"server_error","message":"Server error"}`, w.Body.String())
}

func TestRespondError_ValidationMessage(t *testing.T) {
	w, c := newTestContext(http.MethodPost, "/api/employees")

	respondError(c, &services.ValidationError{Field: "name"})

	assert.Contains(t, decodeBody(t, w)["message"], "name is required")
}

func TestRespondInvalidRequest(t *testing.T) {
	w, c := newTestContext(http.MethodPost, "/api/login")

	respondInvalidRequest(c, "username and password are required")

	assertErrorBody(t, w, http.StatusBadRequest, "invalid_request")
}
