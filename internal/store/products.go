package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/assetdesk/assetdesk/internal/model"
)

// CreateProduct creates a new catalog product.
func CreateProduct(ctx context.Context, db *sql.DB, name, description, category string, minStockLevel int) (*model.Product, error) {
	if minStockLevel < 0 {
		return nil, fmt.Errorf("min stock level must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, description, category, min_stock_level) VALUES (?, ?, ?, ?)`,
		name, description, category, minStockLevel,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID, without stock counts.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	var description, category, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, category, min_stock_level, image_mime,
		        created_at, updated_at, deleted_at
		 FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &description, &category, &p.MinStockLevel, &imageMime,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p.Description = description.String
	p.Category = category.String
	p.ImageMime = imageMime.String
	return p, nil
}

// GetProductStock aggregates unit counts for a product from its items.
// Retired units are excluded from the total. The stock status field is
// left empty; classification belongs to the status engine.
func GetProductStock(ctx context.Context, db *sql.DB, productID int64) (*model.StockInfo, error) {
	info := &model.StockInfo{}
	err := db.QueryRowContext(ctx,
		`SELECT
		    COALESCE(SUM(CASE WHEN status != 'retired' THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = 'available' THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = 'assigned' THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = 'damaged' THEN 1 ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN status = 'maintenance' THEN 1 ELSE 0 END), 0)
		 FROM items WHERE product_id = ? AND deleted_at IS NULL`, productID,
	).Scan(&info.Total, &info.Available, &info.Assigned, &info.Damaged, &info.Maintenance)
	if err != nil {
		return nil, fmt.Errorf("aggregating product stock: %w", err)
	}
	return info, nil
}

// ListProducts returns all non-deleted products with aggregated stock
// counts, optionally filtered by category.
func ListProducts(ctx context.Context, db *sql.DB, category string) ([]model.Product, error) {
	query := `SELECT p.id, p.name, p.description, p.category, p.min_stock_level, p.image_mime,
	                 p.created_at, p.updated_at,
	                 COALESCE(SUM(CASE WHEN i.status != 'retired' THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN i.status = 'available' THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN i.status = 'assigned' THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN i.status = 'damaged' THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN i.status = 'maintenance' THEN 1 ELSE 0 END), 0)
	          FROM products p
	          LEFT JOIN items i ON i.product_id = p.id AND i.deleted_at IS NULL
	          WHERE p.deleted_at IS NULL`
	var args []any

	if category != "" {
		query += ` AND p.category = ?`
		args = append(args, category)
	}

	query += ` GROUP BY p.id ORDER BY p.name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var description, category, imageMime sql.NullString
		stock := &model.StockInfo{}
		if err := rows.Scan(&p.ID, &p.Name, &description, &category, &p.MinStockLevel, &imageMime,
			&p.CreatedAt, &p.UpdatedAt,
			&stock.Total, &stock.Available, &stock.Assigned, &stock.Damaged, &stock.Maintenance); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.Description = description.String
		p.Category = category.String
		p.ImageMime = imageMime.String
		p.Stock = stock
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's metadata.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, name, description, category string, minStockLevel int) error {
	if minStockLevel < 0 {
		return fmt.Errorf("min stock level must not be negative")
	}

	_, err := db.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, description = ?, category = ?, min_stock_level = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, description, category, minStockLevel, id,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct soft-deletes a product. Fails while it still has
// non-retired units.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items
		 WHERE product_id = ? AND deleted_at IS NULL AND status != 'retired'`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking product items: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete product: %d units still tracked", count)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// SetProductImage sets a product's image data.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	return nil
}

// GetProductImage returns a product's image data and MIME type. Soft-deleted
// products are invisible here, same as the other readers.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}
