package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemSearchFilter holds search and filter criteria for inventory item queries
type ItemSearchFilter struct {
	Query           string   `json:"query,omitempty" query:"query"`                       // Case-insensitive substring over name, SKU, category
	Category        *string  `json:"category,omitempty" query:"category"`                 // Exact category filter
	StorageLocation *string  `json:"storage_location,omitempty" query:"storage_location"` // Storage location filter
	MinQuantity     *float64 `json:"min_quantity,omitempty" query:"min_quantity"`         // Minimum stock quantity
	MaxQuantity     *float64 `json:"max_quantity,omitempty" query:"max_quantity"`         // Maximum stock quantity
	LowStockOnly    bool     `json:"low_stock_only,omitempty" query:"low_stock_only"`     // Only items at or below reorder level
	IncludeInactive bool     `json:"include_inactive,omitempty" query:"include_inactive"` // Include deactivated items
	SortBy          string   `json:"sort_by,omitempty" query:"sort_by"`                   // Sort field: name, sku, current_quantity, updated_at
	SortOrder       string   `json:"sort_order,omitempty" query:"sort_order"`             // Sort order: asc, desc
	Limit           int      `json:"limit,omitempty" query:"limit"`                       // Page size (default: 50)
	Offset          int      `json:"offset,omitempty" query:"offset"`                     // Page offset
}

// ItemUpdate is a partial, field-level update for an inventory item. Nil
// fields are left untouched. CurrentQuantity is deliberately absent: stock
// only moves through deduct/refund/adjust/restock paths.
type ItemUpdate struct {
	Name               *string  `json:"name,omitempty"`
	Unit               *string  `json:"unit,omitempty"`
	CostPerUnit        *float64 `json:"cost_per_unit,omitempty"`
	ReorderLevel       *float64 `json:"reorder_level,omitempty"`
	ReorderQuantity    *float64 `json:"reorder_quantity,omitempty"`
	RestockingQuantity *float64 `json:"restocking_quantity,omitempty"`
	Category           *string  `json:"category,omitempty"`
	StorageLocation    *string  `json:"storage_location,omitempty"`
}

type InventoryItem struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	TenantID           uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name               string    `json:"name" db:"name"`
	SKU                string    `json:"sku" db:"sku"`
	Unit               string    `json:"unit" db:"unit"`
	CostPerUnit        float64   `json:"cost_per_unit" db:"cost_per_unit"`
	CurrentQuantity    float64   `json:"current_quantity" db:"current_quantity"`
	ReorderLevel       float64   `json:"reorder_level" db:"reorder_level"`
	ReorderQuantity    float64   `json:"reorder_quantity" db:"reorder_quantity"`
	RestockingQuantity float64   `json:"restocking_quantity" db:"restocking_quantity"`
	Category           *string   `json:"category" db:"category"`
	StorageLocation    *string   `json:"storage_location" db:"storage_location"`
	Active             bool      `json:"active" db:"active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
