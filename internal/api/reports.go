package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/assetdesk/assetdesk/internal/report"
	"github.com/assetdesk/assetdesk/internal/store"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves Excel exports.
type ReportsHandler struct {
	DB *sql.DB
}

// Assignments handles GET /api/reports/assignments.xlsx.
func (h *ReportsHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := store.ListAssignments(r.Context(), h.DB, store.AssignmentFilter{})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}

	data, err := report.Assignments(assignments, time.Now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="assignments.xlsx"`)
	w.Write(data)
}

// Stock handles GET /api/reports/stock.xlsx.
func (h *ReportsHandler) Stock(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	data, err := report.Stock(products)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="stock.xlsx"`)
	w.Write(data)
}
