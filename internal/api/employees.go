package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/model"
	"github.com/assetdesk/assetdesk/internal/store"
)

// EmployeesHandler handles employee endpoints.
type EmployeesHandler struct {
	DB *sql.DB
}

type employeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := store.ListEmployees(r.Context(), h.DB, r.URL.Query().Get("department"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	jsonResponse(w, http.StatusOK, employees)
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		jsonError(w, http.StatusBadRequest, "name and email required")
		return
	}

	employee, err := store.CreateEmployee(r.Context(), h.DB, req.Name, req.Email, req.Department)
	if err != nil {
		jsonError(w, http.StatusConflict, "email already in use")
		return
	}

	jsonResponse(w, http.StatusCreated, employee)
}

// Get handles GET /api/employees/{id}.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := store.GetEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get employee")
		return
	}
	if employee == nil || employee.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}
	jsonResponse(w, http.StatusOK, employee)
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		jsonError(w, http.StatusBadRequest, "name and email required")
		return
	}

	if err := store.UpdateEmployee(r.Context(), h.DB, id, req.Name, req.Email, req.Department); err != nil {
		jsonError(w, http.StatusConflict, "email already in use")
		return
	}

	employee, _ := store.GetEmployee(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, employee)
}

// Delete handles DELETE /api/employees/{id}.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := store.DeleteEmployee(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}

// GetAssignments handles GET /api/employees/{id}/assignments.
func (h *EmployeesHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	assignments, err := store.ListAssignments(r.Context(), h.DB, store.AssignmentFilter{EmployeeID: id})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	decorateAssignments(assignments, time.Now())
	jsonResponse(w, http.StatusOK, assignments)
}
