package models

import "github.com/google/uuid"

// DeductionStatus tags the outcome of one ingredient deduction attempt.
// ConversionFallback means the deduction went through but the recipe unit
// could not be converted to the item's native unit and the raw quantity was
// used instead.
type DeductionStatus string

const (
	DeductionSuccess            DeductionStatus = "success"
	DeductionItemNotFound       DeductionStatus = "item_not_found"
	DeductionInsufficientStock  DeductionStatus = "insufficient_stock"
	DeductionConversionFallback DeductionStatus = "conversion_fallback"
	DeductionFailed             DeductionStatus = "failed"
)

// DeductionOutcome is the tagged result of a single ingredient deduction.
type DeductionOutcome struct {
	DishID    uuid.UUID       `json:"dish_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  float64         `json:"quantity"`
	Unit      string          `json:"unit"`
	Status    DeductionStatus `json:"status"`
	Error     string          `json:"error,omitempty"`
	VariantID *string         `json:"variant_id,omitempty"`
	ToppingID *string         `json:"topping_id,omitempty"`
}

// DeductionReport aggregates the per-ingredient outcomes of one order's
// deduction pass. Partial is true when at least one attempt failed;
// Skipped is true when no line had a recipe at all.
type DeductionReport struct {
	OrderID  uuid.UUID          `json:"order_id"`
	Outcomes []DeductionOutcome `json:"outcomes"`
	Partial  bool               `json:"partial"`
	Skipped  bool               `json:"skipped"`
}

// InventoryStatus maps the report onto the status stamped on the order row.
func (r *DeductionReport) InventoryStatus() string {
	switch {
	case r.Skipped:
		return InventoryStatusSkipped
	case r.Partial:
		return InventoryStatusPartial
	default:
		return InventoryStatusComplete
	}
}
