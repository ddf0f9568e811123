package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/assetdesk/assetdesk/internal/model"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAssignmentsReport(t *testing.T) {
	now := ts("2026-03-10T12:00:00Z")
	due := ts("2026-03-05T12:00:00Z")
	assignments := []model.Assignment{
		{
			ID:           1,
			ProductName:  "ThinkPad X1",
			AssetTag:     "AST-1A2B3C4D",
			EmployeeName: "Alice",
			AssignedAt:   ts("2026-03-01T09:00:00Z"),
		},
		{
			ID:               2,
			ProductName:      "Dock",
			AssetTag:         "AST-AAAA1111",
			EmployeeName:     "Bob",
			AssignedAt:       ts("2026-02-20T09:00:00Z"),
			ExpectedReturnAt: &due,
		},
	}

	data, err := Assignments(assignments, now)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Assignments")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "Status", rows[0][8])
	require.Equal(t, "active", rows[1][8])
	require.Equal(t, "overdue", rows[2][8])
	require.Equal(t, "5", rows[2][10], "days overdue column")
}

func TestStockReport(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Laptop", MinStockLevel: 2, Stock: &model.StockInfo{Total: 5, Available: 4}},
		{ID: 2, Name: "Monitor", MinStockLevel: 3, Stock: &model.StockInfo{Total: 3, Available: 0, Assigned: 3}},
		{ID: 3, Name: "Keyboard", MinStockLevel: 5, Stock: &model.StockInfo{Total: 6, Available: 2, Assigned: 4}},
	}

	data, err := Stock(products)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.Equal(t, "in_stock", rows[1][9])
	require.Equal(t, "out_of_stock", rows[2][9])
	require.Equal(t, "low_stock", rows[3][9])
}

func TestStockReportWithoutStockInfo(t *testing.T) {
	data, err := Stock([]model.Product{{ID: 1, Name: "Cable"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Equal(t, "out_of_stock", rows[1][9])
}
