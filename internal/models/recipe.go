package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipeIngredient is one ingredient requirement of a recipe. At most one of
// VariantID/ToppingID is set: unscoped rows are base ingredients consumed on
// every order line, variant rows only when the line selected that variant,
// topping rows once per requested unit of that topping. Variant and topping
// identifiers are slug-like strings matched by lowercase equality.
type RecipeIngredient struct {
	ItemID          uuid.UUID `json:"item_id" db:"item_id"`
	QuantityPerDish float64   `json:"quantity_per_dish" db:"quantity_per_dish"`
	Unit            string    `json:"unit" db:"unit"`
	VariantID       *string   `json:"variant_id,omitempty" db:"variant_id"`
	ToppingID       *string   `json:"topping_id,omitempty" db:"topping_id"`
}

// IsBase reports whether the ingredient has no variant/topping scope.
func (ri *RecipeIngredient) IsBase() bool {
	return ri.VariantID == nil && ri.ToppingID == nil
}

// Recipe maps a dish to its ingredient requirements. One recipe per
// (tenant, dish). TotalCostPerDish is a cached base-cost estimate recomputed
// on every create/update; variant/topping-scoped ingredients are excluded.
type Recipe struct {
	ID               uuid.UUID          `json:"id" db:"id"`
	TenantID         uuid.UUID          `json:"tenant_id" db:"tenant_id"`
	DishID           uuid.UUID          `json:"dish_id" db:"dish_id"`
	DishName         string             `json:"dish_name" db:"dish_name"`
	Ingredients      []RecipeIngredient `json:"ingredients" db:"ingredients"`
	TotalCostPerDish float64            `json:"total_cost_per_dish" db:"total_cost_per_dish"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}

// MissingIngredient describes an ingredient that blocks dish availability:
// either the referenced item is gone or stock is short of the requirement.
type MissingIngredient struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	Required  float64   `json:"required"`
	Available float64   `json:"available"`
	Unit      string    `json:"unit,omitempty"`
	Reason    string    `json:"reason"` // "item_not_found" or "insufficient_stock"
}

// DishAvailability is the per-dish result of an availability check.
// LowStock is true only when the dish is available and some ingredient's
// item sits at or below its reorder level.
type DishAvailability struct {
	DishID             uuid.UUID           `json:"dish_id"`
	Available          bool                `json:"available"`
	LowStock           bool                `json:"low_stock"`
	MissingIngredients []MissingIngredient `json:"missing_ingredients,omitempty"`
}

// IngredientDetail joins a recipe ingredient row with live item data for
// display. Read-only enrichment.
type IngredientDetail struct {
	ItemID            uuid.UUID `json:"item_id"`
	ItemName          string    `json:"item_name"`
	SKU               string    `json:"sku"`
	QuantityPerDish   float64   `json:"quantity_per_dish"`
	Unit              string    `json:"unit"`
	VariantID         *string   `json:"variant_id,omitempty"`
	ToppingID         *string   `json:"topping_id,omitempty"`
	CostPerUnit       float64   `json:"cost_per_unit"`
	IngredientCost    float64   `json:"ingredient_cost"`
	AvailableQuantity float64   `json:"available_quantity"`
	ItemUnit          string    `json:"item_unit"`
}
