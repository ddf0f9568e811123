package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/assetdesk/assetdesk/internal/model"
)

// assignmentSelect is the shared select with item, product, and employee
// names joined for display.
const assignmentSelect = `SELECT a.id, a.item_id, a.employee_id, a.assigned_at, a.expected_return_at,
       a.returned_at, a.return_condition, a.notes, a.assigned_by,
       i.asset_tag, i.serial_number, i.product_id, p.name AS product_name, e.name AS employee_name
 FROM assignments a
 JOIN items i ON i.id = a.item_id
 JOIN products p ON p.id = i.product_id
 JOIN employees e ON e.id = a.employee_id`

// AssignmentFilter narrows ListAssignments. Zero values mean "no filter".
type AssignmentFilter struct {
	ItemID     int64
	EmployeeID int64
	ProductID  int64
	Open       *bool // true: only open, false: only returned
}

// CreateAssignment hands an available item to an employee in a single
// transaction: the item flips to assigned and an open assignment row is
// created. The partial unique index on open assignments backstops the
// status check against races.
func CreateAssignment(ctx context.Context, db *sql.DB, itemID, employeeID int64, expectedReturnAt *time.Time, notes string, assignedBy *int64) (*model.Assignment, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemStatus string
	var itemDeleted *time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT status, deleted_at FROM items WHERE id = ?`, itemID,
	).Scan(&itemStatus, &itemDeleted)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if itemDeleted != nil {
		return nil, fmt.Errorf("item not found")
	}
	if itemStatus != model.ItemStatusAvailable {
		return nil, fmt.Errorf("item is not available (status: %s)", itemStatus)
	}

	var employeeDeleted *time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT deleted_at FROM employees WHERE id = ?`, employeeID,
	).Scan(&employeeDeleted)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee not found")
	}
	if err != nil {
		return nil, fmt.Errorf("checking employee: %w", err)
	}
	if employeeDeleted != nil {
		return nil, fmt.Errorf("employee not found")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.ItemStatusAssigned, itemID,
	); err != nil {
		return nil, fmt.Errorf("marking item assigned: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (item_id, employee_id, expected_return_at, notes, assigned_by)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, employeeID, expectedReturnAt, notes, assignedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing assignment: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetAssignment(ctx, db, id)
}

// ReturnAssignment closes an open assignment exactly once. The returned
// item takes on the reported condition; a damaged or poor return parks the
// item in the damaged status instead of putting it back in circulation.
func ReturnAssignment(ctx context.Context, db *sql.DB, id int64, condition string) (*model.Assignment, error) {
	if !model.ValidCondition(condition) {
		return nil, fmt.Errorf("invalid return condition %q", condition)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	var returnedAt *time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, returned_at FROM assignments WHERE id = ?`, id,
	).Scan(&itemID, &returnedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	if returnedAt != nil {
		return nil, fmt.Errorf("assignment already returned")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE assignments SET returned_at = CURRENT_TIMESTAMP, return_condition = ? WHERE id = ?`,
		condition, id,
	); err != nil {
		return nil, fmt.Errorf("closing assignment: %w", err)
	}

	itemStatus := model.ItemStatusAvailable
	if condition == model.ConditionDamaged || condition == model.ConditionPoor {
		itemStatus = model.ItemStatusDamaged
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, condition = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		itemStatus, condition, itemID,
	); err != nil {
		return nil, fmt.Errorf("restoring item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetAssignment(ctx, db, id)
}

// GetAssignment returns an assignment by ID with display names joined.
func GetAssignment(ctx context.Context, db *sql.DB, id int64) (*model.Assignment, error) {
	rows, err := db.QueryContext(ctx, assignmentSelect+` WHERE a.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}
	return &assignments[0], nil
}

// ListAssignments returns assignments newest first, narrowed by the filter.
func ListAssignments(ctx context.Context, db *sql.DB, f AssignmentFilter) ([]model.Assignment, error) {
	query := assignmentSelect + ` WHERE 1=1`
	var args []any

	if f.ItemID > 0 {
		query += ` AND a.item_id = ?`
		args = append(args, f.ItemID)
	}
	if f.EmployeeID > 0 {
		query += ` AND a.employee_id = ?`
		args = append(args, f.EmployeeID)
	}
	if f.ProductID > 0 {
		query += ` AND i.product_id = ?`
		args = append(args, f.ProductID)
	}
	if f.Open != nil {
		if *f.Open {
			query += ` AND a.returned_at IS NULL`
		} else {
			query += ` AND a.returned_at IS NOT NULL`
		}
	}

	query += ` ORDER BY a.assigned_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// GetOpenAssignmentForItem returns the open assignment for an item, if any.
func GetOpenAssignmentForItem(ctx context.Context, db *sql.DB, itemID int64) (*model.Assignment, error) {
	rows, err := db.QueryContext(ctx, assignmentSelect+
		` WHERE a.item_id = ? AND a.returned_at IS NULL`, itemID)
	if err != nil {
		return nil, fmt.Errorf("getting open assignment: %w", err)
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}
	return &assignments[0], nil
}

func scanAssignments(rows *sql.Rows) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var returnCondition, notes, serial sql.NullString
		if err := rows.Scan(&a.ID, &a.ItemID, &a.EmployeeID, &a.AssignedAt, &a.ExpectedReturnAt,
			&a.ReturnedAt, &returnCondition, &notes, &a.AssignedBy,
			&a.AssetTag, &serial, &a.ProductID, &a.ProductName, &a.EmployeeName); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.ReturnCondition = returnCondition.String
		a.Notes = notes.String
		a.SerialNumber = serial.String
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
