package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. The deduction engine only reacts to creation and to the
// transition into cancelled.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Inventory status stamped on an order after the deduction pass, so orders
// with partially-failed deduction can be found by operators.
const (
	InventoryStatusComplete = "complete"
	InventoryStatusPartial  = "partial"
	InventoryStatusSkipped  = "skipped"
)

// OrderTopping is one topping requested on an order line. Quantity defaults
// to 1 when not supplied.
type OrderTopping struct {
	ToppingID string `json:"topping_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// OrderLine is one dish on an order, optionally scoped by a selected variant
// and requested toppings.
type OrderLine struct {
	DishID    uuid.UUID      `json:"dish_id"`
	Quantity  int            `json:"quantity"`
	VariantID *string        `json:"variant_id,omitempty"`
	Toppings  []OrderTopping `json:"toppings,omitempty"`
}

type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	TenantID        uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	ConsumerID      *uuid.UUID  `json:"consumer_id" db:"consumer_id"`
	Lines           []OrderLine `json:"lines" db:"lines"`
	Status          string      `json:"status" db:"status"`
	InventoryStatus string      `json:"inventory_status" db:"inventory_status"`
	Notes           *string     `json:"notes" db:"notes"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}
