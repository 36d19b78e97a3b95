package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jainhardik06/Qrave-sub000/internal/caching"
	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"
	"github.com/jainhardik06/Qrave-sub000/internal/units"

	"github.com/google/uuid"
)

var ErrRecipeNotFound = repositories.ErrRecipeNotFound

type RecipeService interface {
	// Create upserts the recipe for (tenant, dish) and recomputes the cached
	// base cost.
	Create(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) error
	Update(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) error
	GetByDish(ctx context.Context, tenantID, dishID uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Recipe, error)
	Delete(ctx context.Context, tenantID, dishID uuid.UUID) error

	// GetAvailabilityForDishes computes unit-aware availability and low-stock
	// flags for each dish. Conversion failures degrade to raw-quantity
	// comparison; missing items contribute to unavailability, never an error.
	GetAvailabilityForDishes(ctx context.Context, tenantID uuid.UUID, dishIDs []uuid.UUID) (map[uuid.UUID]*models.DishAvailability, error)

	// GetIngredientsWithDetails joins recipe rows with live item data for
	// display. Read-only enrichment.
	GetIngredientsWithDetails(ctx context.Context, tenantID, dishID uuid.UUID) ([]*models.IngredientDetail, error)
}

type recipeService struct {
	recipeRepo   repositories.RecipeRepository
	itemRepo     repositories.InventoryItemRepository
	cacheService caching.CacheService
}

func NewRecipeService(recipeRepo repositories.RecipeRepository, itemRepo repositories.InventoryItemRepository, cacheService caching.CacheService) RecipeService {
	return &recipeService{
		recipeRepo:   recipeRepo,
		itemRepo:     itemRepo,
		cacheService: cacheService,
	}
}

func (s *recipeService) Create(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) error {
	if recipe.DishID == uuid.Nil {
		return errors.New("dish ID is required")
	}
	if recipe.DishName == "" {
		return errors.New("dish name is required")
	}
	for _, ing := range recipe.Ingredients {
		if ing.VariantID != nil && ing.ToppingID != nil {
			return errors.New("ingredient cannot be scoped to both a variant and a topping")
		}
		if ing.QuantityPerDish <= 0 {
			return errors.New("ingredient quantity per dish must be positive")
		}
	}

	recipe.ID = uuid.New()
	recipe.TenantID = tenantID

	cost, err := s.computeBaseCost(ctx, tenantID, recipe.Ingredients)
	if err != nil {
		return err
	}
	recipe.TotalCostPerDish = cost

	if err := s.recipeRepo.Upsert(ctx, recipe); err != nil {
		return err
	}
	s.invalidateAvailability(ctx, tenantID, recipe.DishID)
	return nil
}

func (s *recipeService) Update(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) error {
	// Update is an upsert on (tenant, dish)
	return s.Create(ctx, tenantID, recipe)
}

// computeBaseCost sums convert(qty, ingredient.unit, item.unit) * cost_per_unit
// over base-scope ingredients only. Variant/topping-scoped rows and rows
// referencing missing items are skipped, not errors.
func (s *recipeService) computeBaseCost(ctx context.Context, tenantID uuid.UUID, ingredients []models.RecipeIngredient) (float64, error) {
	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, ing := range ingredients {
		ids = append(ids, ing.ItemID)
	}
	items, err := s.itemRepo.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, ing := range ingredients {
		if !ing.IsBase() {
			continue
		}
		item, ok := items[ing.ItemID]
		if !ok {
			continue
		}
		quantity := ing.QuantityPerDish
		if converted, convErr := units.Convert(ing.QuantityPerDish, ing.Unit, item.Unit); convErr == nil {
			quantity = converted
		} else {
			log.Printf("Cost computation using raw quantity for item %s (%s -> %s): %v",
				ing.ItemID.String(), ing.Unit, item.Unit, convErr)
		}
		total += quantity * item.CostPerUnit
	}
	return total, nil
}

func (s *recipeService) GetByDish(ctx context.Context, tenantID, dishID uuid.UUID) (*models.Recipe, error) {
	return s.recipeRepo.GetByDish(ctx, tenantID, dishID)
}

func (s *recipeService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Recipe, error) {
	return s.recipeRepo.List(ctx, tenantID, limit, offset)
}

func (s *recipeService) Delete(ctx context.Context, tenantID, dishID uuid.UUID) error {
	if err := s.recipeRepo.Delete(ctx, tenantID, dishID); err != nil {
		return err
	}
	s.invalidateAvailability(ctx, tenantID, dishID)
	return nil
}

// Availability goes stale on every stock mutation, so the cache window is
// kept short instead of invalidating from the item side.
const availabilityCacheTTL = 30 * time.Second

func (s *recipeService) GetAvailabilityForDishes(ctx context.Context, tenantID uuid.UUID, dishIDs []uuid.UUID) (map[uuid.UUID]*models.DishAvailability, error) {
	results := make(map[uuid.UUID]*models.DishAvailability, len(dishIDs))

	// Cache first; cache errors never fail the check
	var missed []uuid.UUID
	for _, dishID := range dishIDs {
		cached, err := s.cacheService.GetAvailability(ctx, tenantID, dishID)
		if err != nil {
			log.Printf("Availability cache error for dish %s: %v", dishID.String(), err)
		}
		if cached != nil {
			results[dishID] = cached
			continue
		}
		missed = append(missed, dishID)
	}
	if len(missed) == 0 {
		return results, nil
	}

	recipes, err := s.recipeRepo.GetByDishIDs(ctx, tenantID, missed)
	if err != nil {
		return nil, err
	}

	// One batched item load for every ingredient of every requested dish
	var itemIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			if !seen[ing.ItemID] {
				seen[ing.ItemID] = true
				itemIDs = append(itemIDs, ing.ItemID)
			}
		}
	}
	items, err := s.itemRepo.GetByIDs(ctx, tenantID, itemIDs)
	if err != nil {
		return nil, err
	}

	for _, dishID := range missed {
		recipe, ok := recipes[dishID]
		var availability *models.DishAvailability
		if !ok {
			// A dish without a recipe has nothing to run out of
			availability = &models.DishAvailability{DishID: dishID, Available: true}
		} else {
			availability = s.checkRecipe(dishID, recipe, items)
		}
		results[dishID] = availability
		if cacheErr := s.cacheService.SetAvailability(ctx, tenantID, availability, availabilityCacheTTL); cacheErr != nil {
			log.Printf("Failed to cache availability for dish %s: %v", dishID.String(), cacheErr)
		}
	}
	return results, nil
}

func (s *recipeService) checkRecipe(dishID uuid.UUID, recipe *models.Recipe, items map[uuid.UUID]*models.InventoryItem) *models.DishAvailability {
	availability := &models.DishAvailability{DishID: dishID, Available: true}
	lowStock := false

	for _, ing := range recipe.Ingredients {
		item, ok := items[ing.ItemID]
		if !ok || !item.Active {
			availability.Available = false
			availability.MissingIngredients = append(availability.MissingIngredients, models.MissingIngredient{
				ItemID:   ing.ItemID,
				Required: ing.QuantityPerDish,
				Unit:     ing.Unit,
				Reason:   "item_not_found",
			})
			continue
		}

		required := ing.QuantityPerDish
		if converted, convErr := units.Convert(ing.QuantityPerDish, ing.Unit, item.Unit); convErr == nil {
			required = converted
		}
		// On conversion failure the raw quantities are compared directly

		if required > item.CurrentQuantity {
			availability.Available = false
			availability.MissingIngredients = append(availability.MissingIngredients, models.MissingIngredient{
				ItemID:    ing.ItemID,
				ItemName:  item.Name,
				Required:  required,
				Available: item.CurrentQuantity,
				Unit:      item.Unit,
				Reason:    "insufficient_stock",
			})
			continue
		}
		if item.CurrentQuantity <= item.ReorderLevel {
			lowStock = true
		}
	}

	// LowStock flags dishes that are still available but running out
	availability.LowStock = availability.Available && lowStock
	return availability
}

func (s *recipeService) GetIngredientsWithDetails(ctx context.Context, tenantID, dishID uuid.UUID) ([]*models.IngredientDetail, error) {
	recipe, err := s.recipeRepo.GetByDish(ctx, tenantID, dishID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ids = append(ids, ing.ItemID)
	}
	items, err := s.itemRepo.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	details := make([]*models.IngredientDetail, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		detail := &models.IngredientDetail{
			ItemID:          ing.ItemID,
			QuantityPerDish: ing.QuantityPerDish,
			Unit:            ing.Unit,
			VariantID:       ing.VariantID,
			ToppingID:       ing.ToppingID,
		}
		if item, ok := items[ing.ItemID]; ok {
			detail.ItemName = item.Name
			detail.SKU = item.SKU
			detail.CostPerUnit = item.CostPerUnit
			detail.AvailableQuantity = item.CurrentQuantity
			detail.ItemUnit = item.Unit

			quantity := ing.QuantityPerDish
			if converted, convErr := units.Convert(ing.QuantityPerDish, ing.Unit, item.Unit); convErr == nil {
				quantity = converted
			}
			detail.IngredientCost = quantity * item.CostPerUnit
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *recipeService) invalidateAvailability(ctx context.Context, tenantID, dishID uuid.UUID) {
	if cacheErr := s.cacheService.DeleteAvailability(ctx, tenantID, dishID); cacheErr != nil {
		log.Printf("Failed to invalidate availability cache for dish %s: %v", dishID.String(), cacheErr)
	}
}
