package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staffdesk/employee-directory/src/middleware"
	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/services"
)

const requestTimeout = 10 * time.Second

// EmployeeHandler handles the employee directory endpoints
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// employeeID parses the :id path parameter. Anything other than a positive
// integer is treated as an unknown employee.
func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, services.ErrEmployeeNotFound)
		return 0, false
	}
	return id, true
}

// HandleList handles GET /api/employees
func (h *EmployeeHandler) HandleList(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	employees, err := h.employeeService.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

// HandleCreate handles POST /api/employees
func (h *EmployeeHandler) HandleCreate(c *gin.Context) {
	var in models.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalidRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	employee, err := h.employeeService.Create(ctx, middleware.GetUsername(c), &in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee created",
		"id":      employee.ID,
	})
}

// HandleUpdate handles PUT /api/employees/:id as a merge-patch
func (h *EmployeeHandler) HandleUpdate(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var in models.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalidRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	employee, err := h.employeeService.Update(ctx, middleware.GetUsername(c), id, &in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee updated",
		"id":      employee.ID,
	})
}

// HandleDelete handles DELETE /api/employees/:id
func (h *EmployeeHandler) HandleDelete(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.employeeService.Delete(ctx, middleware.GetUsername(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}
