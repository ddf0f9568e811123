package model

import "time"

// Item represents a single trackable unit of a product (optionally serialized).
type Item struct {
	ID           int64      `json:"id"`
	ProductID    int64      `json:"product_id"`
	SerialNumber string     `json:"serial_number,omitempty"`
	AssetTag     string     `json:"asset_tag"`
	Status       string     `json:"status"`
	Condition    string     `json:"condition"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	ProductName string `json:"product_name,omitempty"`
}

// Item statuses.
const (
	ItemStatusAvailable   = "available"
	ItemStatusAssigned    = "assigned"
	ItemStatusMaintenance = "maintenance"
	ItemStatusDamaged     = "damaged"
	ItemStatusRetired     = "retired"
)

// Item conditions.
const (
	ConditionNew     = "new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
	ConditionDamaged = "damaged"
)

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusAvailable, ItemStatusAssigned, ItemStatusMaintenance,
		ItemStatusDamaged, ItemStatusRetired:
		return true
	}
	return false
}

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}
