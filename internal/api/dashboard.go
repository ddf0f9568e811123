package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/assetdesk/assetdesk/internal/metrics"
	"github.com/assetdesk/assetdesk/internal/status"
	"github.com/assetdesk/assetdesk/internal/store"
)

// DashboardHandler serves the summary view.
type DashboardHandler struct {
	DB *sql.DB
}

type dashboardResponse struct {
	Products        int            `json:"products"`
	Employees       int            `json:"employees"`
	ItemsByStatus   map[string]int `json:"items_by_status"`
	OpenAssignments int            `json:"open_assignments"`
	Overdue         int            `json:"overdue_assignments"`
	LowStock        int            `json:"low_stock_products"`
	OutOfStock      int            `json:"out_of_stock_products"`
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := store.CountProducts(ctx, h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count products")
		return
	}
	employees, err := store.CountEmployees(ctx, h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count employees")
		return
	}
	itemCounts, err := store.CountItemsByStatus(ctx, h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to count items")
		return
	}

	open := true
	openAssignments, err := store.ListAssignments(ctx, h.DB, store.AssignmentFilter{Open: &open})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}

	now := time.Now()
	overdue := 0
	for _, a := range openAssignments {
		state := status.ForAssignment(a.AssignedAt, a.ExpectedReturnAt, a.ReturnedAt, now)
		if state.Kind == status.Overdue {
			overdue++
		}
	}

	allProducts, err := store.ListProducts(ctx, h.DB, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	lowStock, outOfStock := 0, 0
	for _, p := range allProducts {
		if p.Stock == nil {
			continue
		}
		switch status.ForStock(p.Stock.Available, p.MinStockLevel).Kind {
		case status.LowStock:
			lowStock++
		case status.OutOfStock:
			outOfStock++
		}
	}

	metrics.OpenAssignments.Set(float64(len(openAssignments)))
	metrics.OverdueAssignments.Set(float64(overdue))

	jsonResponse(w, http.StatusOK, dashboardResponse{
		Products:        products,
		Employees:       employees,
		ItemsByStatus:   itemCounts,
		OpenAssignments: len(openAssignments),
		Overdue:         overdue,
		LowStock:        lowStock,
		OutOfStock:      outOfStock,
	})
}
