package model

import "time"

// Product represents a catalog entry (a device model, not a physical unit).
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	MinStockLevel int        `json:"min_stock_level"`
	ImageMime     string     `json:"image_mime,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`

	// Aggregated from items (not always populated).
	Stock *StockInfo `json:"stock,omitempty"`
}

// StockInfo is a read-side snapshot of a product's unit counts.
// Status is filled by the status engine, never stored.
type StockInfo struct {
	Total       int    `json:"total_stock"`
	Available   int    `json:"available_stock"`
	Assigned    int    `json:"assigned_stock"`
	Damaged     int    `json:"damaged_stock"`
	Maintenance int    `json:"maintenance_stock"`
	Status      string `json:"stock_status,omitempty"`
}
