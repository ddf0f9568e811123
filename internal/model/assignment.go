package model

import "time"

// Assignment links one item to one employee for a bounded period.
// Status is always derived by the status engine from the timestamps;
// it is never stored.
type Assignment struct {
	ID               int64      `json:"id"`
	ItemID           int64      `json:"item_id"`
	EmployeeID       int64      `json:"employee_id"`
	AssignedAt       time.Time  `json:"assigned_at"`
	ExpectedReturnAt *time.Time `json:"expected_return_at,omitempty"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
	ReturnCondition  string     `json:"return_condition,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	AssignedBy       *int64     `json:"assigned_by,omitempty"`

	// Joined fields (not always populated).
	AssetTag     string `json:"asset_tag,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	ProductID    int64  `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`

	// Derived fields, filled from the status engine before rendering.
	Status      string `json:"status,omitempty"`
	DaysOut     int    `json:"days_out,omitempty"`
	DaysOverdue int    `json:"days_overdue,omitempty"`
	DaysLate    int    `json:"days_late,omitempty"`
}
