package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/assetdesk/assetdesk/internal/model"
)

// CreateItem registers a new physical unit of a product. An empty assetTag
// is replaced with a generated one; an empty condition defaults to good.
func CreateItem(ctx context.Context, db *sql.DB, productID int64, serialNumber, assetTag, condition string) (*model.Item, error) {
	if condition == "" {
		condition = model.ConditionGood
	}
	if !model.ValidCondition(condition) {
		return nil, fmt.Errorf("invalid condition %q", condition)
	}
	if assetTag == "" {
		assetTag = generateAssetTag()
	}

	product, err := GetProduct(ctx, db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.DeletedAt != nil {
		return nil, fmt.Errorf("product not found")
	}

	var serial any
	if serialNumber != "" {
		serial = serialNumber
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (product_id, serial_number, asset_tag, condition) VALUES (?, ?, ?, ?)`,
		productID, serial, assetTag, condition,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its product name joined.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var serial sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT i.id, i.product_id, i.serial_number, i.asset_tag, i.status, i.condition,
		        i.created_at, i.updated_at, i.deleted_at, p.name
		 FROM items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.id = ?`, id,
	).Scan(&item.ID, &item.ProductID, &serial, &item.AssetTag, &item.Status, &item.Condition,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt, &item.ProductName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.SerialNumber = serial.String
	return item, nil
}

// ListItems returns non-deleted items, optionally filtered by product
// and/or status.
func ListItems(ctx context.Context, db *sql.DB, productID int64, status string) ([]model.Item, error) {
	query := `SELECT i.id, i.product_id, i.serial_number, i.asset_tag, i.status, i.condition,
	                 i.created_at, i.updated_at, i.deleted_at, p.name
	          FROM items i
	          JOIN products p ON p.id = i.product_id
	          WHERE i.deleted_at IS NULL`
	var args []any

	if productID > 0 {
		query += ` AND i.product_id = ?`
		args = append(args, productID)
	}
	if status != "" {
		query += ` AND i.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY p.name, i.asset_tag`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var serial sql.NullString
		if err := rows.Scan(&item.ID, &item.ProductID, &serial, &item.AssetTag, &item.Status, &item.Condition,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt, &item.ProductName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.SerialNumber = serial.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's serial number, status, and condition.
// The assigned status cannot be entered or left here; that belongs to the
// assignment flow.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, serialNumber, status, condition string) error {
	if !model.ValidItemStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	if !model.ValidCondition(condition) {
		return fmt.Errorf("invalid condition %q", condition)
	}

	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil || item.DeletedAt != nil {
		return fmt.Errorf("item not found")
	}
	if item.Status == model.ItemStatusAssigned && status != model.ItemStatusAssigned {
		return fmt.Errorf("item is assigned: return it before changing status")
	}
	if item.Status != model.ItemStatusAssigned && status == model.ItemStatusAssigned {
		return fmt.Errorf("use the assignment endpoint to assign items")
	}

	var serial any
	if serialNumber != "" {
		serial = serialNumber
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET serial_number = ?, status = ?, condition = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		serial, status, condition, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item. Fails while the item is assigned.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil || item.DeletedAt != nil {
		return fmt.Errorf("item not found")
	}
	if item.Status == model.ItemStatusAssigned {
		return fmt.Errorf("cannot delete an assigned item")
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// GetItemHistory returns the assignment history for an item, newest first.
func GetItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.Assignment, error) {
	rows, err := db.QueryContext(ctx, assignmentSelect+
		` WHERE a.item_id = ? ORDER BY a.assigned_at DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item history: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// generateAssetTag creates a short unique tag for units registered without
// one. Uses the first UUID group, which is unique enough for a fleet and
// short enough to print on a label.
func generateAssetTag() string {
	id := uuid.NewString()
	return "AST-" + strings.ToUpper(id[:8])
}
