// Package report renders inventory data as downloadable spreadsheets.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/assetdesk/assetdesk/internal/model"
	"github.com/assetdesk/assetdesk/internal/status"
)

const timeLayout = "2006-01-02 15:04"

// Assignments builds an xlsx workbook with one row per assignment,
// including the derived status columns.
func Assignments(assignments []model.Assignment, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Assignments"); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	sheet = "Assignments"

	header := []any{
		"ID", "Product", "Asset tag", "Serial number", "Employee",
		"Assigned at", "Expected return", "Returned at",
		"Status", "Days out", "Days overdue", "Days late", "Notes",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, a := range assignments {
		state := status.ForAssignment(a.AssignedAt, a.ExpectedReturnAt, a.ReturnedAt, now)
		row := []any{
			a.ID, a.ProductName, a.AssetTag, a.SerialNumber, a.EmployeeName,
			a.AssignedAt.Format(timeLayout),
			formatOptional(a.ExpectedReturnAt),
			formatOptional(a.ReturnedAt),
			state.Kind.String(), state.DaysOut, state.DaysOverdue, state.DaysLate,
			a.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Stock builds an xlsx workbook with one row per product and its unit
// counts plus the derived stock status.
func Stock(products []model.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Stock"); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	sheet = "Stock"

	header := []any{
		"ID", "Name", "Category", "Min stock level",
		"Total", "Available", "Assigned", "Damaged", "Maintenance", "Status",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, p := range products {
		var stock model.StockInfo
		if p.Stock != nil {
			stock = *p.Stock
		}
		st := status.ClassifyStock(stock.Status, stock.Available, p.MinStockLevel)
		row := []any{
			p.ID, p.Name, p.Category, p.MinStockLevel,
			stock.Total, stock.Available, stock.Assigned, stock.Damaged, stock.Maintenance,
			st.Kind.String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
