package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types recorded in the ledger.
const (
	TransactionUsage      = "usage"
	TransactionAdjustment = "adjustment"
	TransactionRestock    = "restock"
)

// Reasons used by the deduction/refund engine. ReasonOrderCancelled is the
// refund signature: an adjustment with this reason marks an order as already
// refunded.
const (
	ReasonOrderUsage     = "order_usage"
	ReasonOrderCancelled = "order_cancelled"
	ReasonManualAdjust   = "manual_adjustment"
	ReasonRestocking     = "restocking"
)

// InventoryTransaction is an immutable ledger row. It is never updated or
// deleted after creation and is the sole source of truth for refund amounts.
type InventoryTransaction struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ItemID          uuid.UUID  `json:"item_id" db:"item_id"`
	TransactionType string     `json:"transaction_type" db:"transaction_type"`
	QuantityChange  float64    `json:"quantity_change" db:"quantity_change"`
	QuantityBefore  float64    `json:"quantity_before" db:"quantity_before"`
	QuantityAfter   float64    `json:"quantity_after" db:"quantity_after"`
	Reason          string     `json:"reason" db:"reason"`
	OrderID         *uuid.UUID `json:"order_id" db:"order_id"`
	UserID          *uuid.UUID `json:"user_id" db:"user_id"`
	Notes           *string    `json:"notes" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// StockMutation describes one atomic stock change to apply to an item. The
// repository executes the read-modify-write and the paired ledger append in a
// single database transaction with a row lock on the item.
type StockMutation struct {
	ItemID          uuid.UUID
	QuantityChange  float64 // negative for deductions
	TransactionType string
	Reason          string
	OrderID         *uuid.UUID
	UserID          *uuid.UUID
	Notes           *string
}

// TransactionFilter holds query criteria for ledger reads
type TransactionFilter struct {
	ItemID          *uuid.UUID `json:"item_id,omitempty"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	TransactionType *string    `json:"transaction_type,omitempty"`
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	Limit           int        `json:"limit,omitempty"`
	Offset          int        `json:"offset,omitempty"`
}
