package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staffdesk/employee-directory/src/logging"
	"github.com/staffdesk/employee-directory/src/middleware"
	"github.com/staffdesk/employee-directory/src/services"
)

// errorResponse is the status, code and message for a known domain error
type errorResponse struct {
	status  int
	code    string
	message string
}

var knownErrors = []struct {
	err  error
	resp errorResponse
}{
	{services.ErrInvalidCredentials, errorResponse{http.StatusUnauthorized, "invalid_credentials", "Invalid username or password"}},
	{services.ErrInvalidToken, errorResponse{http.StatusUnauthorized, "invalid_token", "Invalid identity token"}},
	{services.ErrUnauthenticated, errorResponse{http.StatusUnauthorized, "unauthenticated", "Invalid or expired token"}},
	{services.ErrIdentityEmailMissing, errorResponse{http.StatusBadRequest, "missing_email", "Identity token has no email"}},
	{services.ErrFederatedLoginDisabled, errorResponse{http.StatusServiceUnavailable, "federated_login_disabled", "Google sign-in is not configured"}},
	{services.ErrDuplicateEmail, errorResponse{http.StatusBadRequest, "duplicate_email", "Employee with this email already exists"}},
	{services.ErrInvalidSalary, errorResponse{http.StatusBadRequest, "invalid_salary", "Salary must be a non-negative number"}},
	{services.ErrInvalidHireDate, errorResponse{http.StatusBadRequest, "invalid_hire_date", "hire_date must use the YYYY-MM-DD format"}},
	{services.ErrEmployeeNotFound, errorResponse{http.StatusNotFound, "not_found", "Employee not found"}},
}

// respondError writes the JSON error body for err. Unknown errors are logged
// and reported as a generic server error.
func respondError(c *gin.Context, err error) {
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			c.JSON(known.resp.status, gin.H{
				"error":   known.resp.code,
				"message": known.resp.message,
			})
			return
		}
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Error(),
		})
		return
	}

	logger := logging.ComponentLogger("api", middleware.GetRequestID(c))
	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("request failed")
	_ = c.Error(err)

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "server_error",
		"message": "Server error",
	})
}

// respondInvalidRequest reports a body that could not be decoded
func respondInvalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}
