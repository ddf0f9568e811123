package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/model"
	"github.com/assetdesk/assetdesk/internal/status"
	"github.com/assetdesk/assetdesk/internal/store"
)

// AssignmentsHandler handles assignment lifecycle endpoints.
type AssignmentsHandler struct {
	DB *sql.DB
}

type createAssignmentRequest struct {
	ItemID           int64  `json:"item_id"`
	EmployeeID       int64  `json:"employee_id"`
	ExpectedReturnAt string `json:"expected_return_at"`
	Notes            string `json:"notes"`
}

type returnAssignmentRequest struct {
	Condition string `json:"condition"`
}

// decorateAssignment fills the derived status fields on an assignment from
// its timestamps. All classification happens here, server-side.
func decorateAssignment(a *model.Assignment, now time.Time) {
	state := status.ForAssignment(a.AssignedAt, a.ExpectedReturnAt, a.ReturnedAt, now)
	a.Status = state.Kind.String()
	a.DaysOut = state.DaysOut
	a.DaysOverdue = state.DaysOverdue
	a.DaysLate = state.DaysLate
}

func decorateAssignments(assignments []model.Assignment, now time.Time) {
	for i := range assignments {
		decorateAssignment(&assignments[i], now)
	}
}

// List handles GET /api/assignments with optional filters:
// employee_id, item_id, product_id, and state (open|returned|overdue).
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.AssignmentFilter
	q := r.URL.Query()

	for param, target := range map[string]*int64{
		"employee_id": &filter.EmployeeID,
		"item_id":     &filter.ItemID,
		"product_id":  &filter.ProductID,
	} {
		if v := q.Get(param); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid "+param)
				return
			}
			*target = id
		}
	}

	state := q.Get("state")
	switch state {
	case "", "overdue":
		// Overdue filtering happens after derivation below.
	case "open":
		open := true
		filter.Open = &open
	case "returned":
		open := false
		filter.Open = &open
	default:
		jsonError(w, http.StatusBadRequest, "invalid state filter")
		return
	}
	if state == "overdue" {
		open := true
		filter.Open = &open
	}

	assignments, err := store.ListAssignments(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}

	now := time.Now()
	decorateAssignments(assignments, now)

	if state == "overdue" {
		overdue := []model.Assignment{}
		for _, a := range assignments {
			if a.Status == status.Overdue.String() {
				overdue = append(overdue, a)
			}
		}
		assignments = overdue
	}

	jsonResponse(w, http.StatusOK, assignments)
}

// Create handles POST /api/assignments.
func (h *AssignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 || req.EmployeeID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id and employee_id required")
		return
	}

	var expectedReturnAt *time.Time
	if req.ExpectedReturnAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpectedReturnAt)
		if err != nil {
			t, err = time.Parse("2006-01-02", req.ExpectedReturnAt)
		}
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid expected_return_at")
			return
		}
		expectedReturnAt = &t
	}

	var assignedBy *int64
	if claims := GetClaims(r.Context()); claims != nil {
		assignedBy = &claims.UserID
	}

	assignment, err := store.CreateAssignment(r.Context(), h.DB, req.ItemID, req.EmployeeID, expectedReturnAt, req.Notes, assignedBy)
	if err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}

	decorateAssignment(assignment, time.Now())
	jsonResponse(w, http.StatusCreated, assignment)
}

// Get handles GET /api/assignments/{id}.
func (h *AssignmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	assignment, err := store.GetAssignment(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if assignment == nil {
		jsonError(w, http.StatusNotFound, "assignment not found")
		return
	}

	decorateAssignment(assignment, time.Now())
	jsonResponse(w, http.StatusOK, assignment)
}

// Return handles POST /api/assignments/{id}/return.
func (h *AssignmentsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	var req returnAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Condition == "" {
		req.Condition = model.ConditionGood
	}
	if !model.ValidCondition(req.Condition) {
		jsonError(w, http.StatusBadRequest, "invalid condition")
		return
	}

	assignment, err := store.ReturnAssignment(r.Context(), h.DB, id, req.Condition)
	if err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	if assignment == nil {
		jsonError(w, http.StatusNotFound, "assignment not found")
		return
	}

	decorateAssignment(assignment, time.Now())
	jsonResponse(w, http.StatusOK, assignment)
}
