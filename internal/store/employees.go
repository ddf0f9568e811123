package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/assetdesk/assetdesk/internal/model"
)

// CreateEmployee creates a new employee.
func CreateEmployee(ctx context.Context, db *sql.DB, name, email, department string) (*model.Employee, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO employees (name, email, department) VALUES (?, ?, ?)`,
		name, email, department,
	)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting employee id: %w", err)
	}

	return GetEmployee(ctx, db, id)
}

// GetEmployee returns an employee by ID.
func GetEmployee(ctx context.Context, db *sql.DB, id int64) (*model.Employee, error) {
	e := &model.Employee{}
	var department sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, department, created_at, deleted_at
		 FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Email, &department, &e.CreatedAt, &e.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	e.Department = department.String
	return e, nil
}

// ListEmployees returns all non-deleted employees, optionally filtered by
// department.
func ListEmployees(ctx context.Context, db *sql.DB, department string) ([]model.Employee, error) {
	var rows *sql.Rows
	var err error

	if department != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, email, department, created_at, deleted_at
			 FROM employees WHERE deleted_at IS NULL AND department = ? ORDER BY name`, department,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, email, department, created_at, deleted_at
			 FROM employees WHERE deleted_at IS NULL ORDER BY name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		var department sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &department, &e.CreatedAt, &e.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		e.Department = department.String
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateEmployee updates an employee's details.
func UpdateEmployee(ctx context.Context, db *sql.DB, id int64, name, email, department string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, department = ? WHERE id = ? AND deleted_at IS NULL`,
		name, email, department, id,
	)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}
	return nil
}

// DeleteEmployee soft-deletes an employee. Fails while the employee holds
// open assignments.
func DeleteEmployee(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE employee_id = ? AND returned_at IS NULL`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking employee assignments: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete employee: %d items still assigned", count)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE employees SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	return nil
}
