package models

import (
	"time"

	"github.com/google/uuid"
)

// RestockingArmyItem is a snapshot row inside a restocking template. Name,
// SKU and unit are copied from the item at create/update time so the
// template survives later item renames.
type RestockingArmyItem struct {
	ItemID   uuid.UUID `json:"item_id" db:"item_id"`
	ItemName string    `json:"item_name" db:"item_name"`
	SKU      string    `json:"sku" db:"sku"`
	Quantity float64   `json:"quantity" db:"quantity"`
	Unit     string    `json:"unit" db:"unit"`
}

// RestockingArmy is a named, reusable template of {item, quantity} pairs for
// bulk stock replenishment. Name is unique per tenant.
type RestockingArmy struct {
	ID          uuid.UUID            `json:"id" db:"id"`
	TenantID    uuid.UUID            `json:"tenant_id" db:"tenant_id"`
	Name        string               `json:"name" db:"name"`
	Description *string              `json:"description" db:"description"`
	Items       []RestockingArmyItem `json:"items" db:"items"`
	Active      bool                 `json:"active" db:"active"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" db:"updated_at"`
}

// RestockingResult reports a best-effort template execution. Success is true
// only when every item restocked cleanly.
type RestockingResult struct {
	Success        bool     `json:"success"`
	ItemsRestocked int      `json:"items_restocked"`
	Errors         []string `json:"errors"`
}

// RestockingArmySummary is a lightweight listing row for templates.
type RestockingArmySummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ItemCount int       `json:"item_count"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}
