package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
)

// DeductionService is the order-triggered inventory engine. It reacts to two
// events only: order created and order transitioned to cancelled. Deduction
// is best-effort per ingredient: stock shortfalls never block an order, they
// are tagged in the returned report. Refunds replay the ledger and never
// re-resolve the recipe, so they stay exact even if the recipe changed after
// the order was placed.
type DeductionService interface {
	OnOrderCreated(ctx context.Context, tenantID uuid.UUID, order *models.Order, userID *uuid.UUID) *models.DeductionReport
	OnOrderCancelled(ctx context.Context, tenantID, orderID uuid.UUID, userID *uuid.UUID) error
}

type deductionService struct {
	recipeRepo      repositories.RecipeRepository
	transactionRepo repositories.TransactionRepository
	itemService     InventoryItemService
}

func NewDeductionService(recipeRepo repositories.RecipeRepository, transactionRepo repositories.TransactionRepository, itemService InventoryItemService) DeductionService {
	return &deductionService{
		recipeRepo:      recipeRepo,
		transactionRepo: transactionRepo,
		itemService:     itemService,
	}
}

// deductionEntry is one ingredient scheduled for deduction with its
// variant/topping multiplier applied.
type deductionEntry struct {
	ingredient models.RecipeIngredient
	multiplier int
}

func (s *deductionService) OnOrderCreated(ctx context.Context, tenantID uuid.UUID, order *models.Order, userID *uuid.UUID) *models.DeductionReport {
	report := &models.DeductionReport{OrderID: order.ID}
	anyRecipe := false

	for _, line := range order.Lines {
		recipe, err := s.recipeRepo.GetByDish(ctx, tenantID, line.DishID)
		if err != nil {
			if errors.Is(err, repositories.ErrRecipeNotFound) {
				// Orders may legally reference dishes without recipes
				log.Printf("No recipe for dish %s on order %s, skipping deduction",
					line.DishID.String(), order.ID.String())
			} else {
				log.Printf("Recipe lookup failed for dish %s on order %s: %v",
					line.DishID.String(), order.ID.String(), err)
			}
			continue
		}
		anyRecipe = true

		for _, entry := range partitionIngredients(recipe.Ingredients, &line) {
			outcome := s.deductIngredient(ctx, tenantID, order.ID, &line, entry, userID)
			report.Outcomes = append(report.Outcomes, outcome)
		}
	}

	report.Skipped = !anyRecipe && len(order.Lines) > 0
	for _, o := range report.Outcomes {
		if o.Status == models.DeductionItemNotFound ||
			o.Status == models.DeductionInsufficientStock ||
			o.Status == models.DeductionFailed {
			report.Partial = true
		}
	}
	if report.Partial {
		log.Printf("Order %s created with partially-failed inventory deduction (%d outcomes)",
			order.ID.String(), len(report.Outcomes))
	}
	return report
}

// partitionIngredients splits a recipe into the entries consumed by one
// order line: base rows always, variant rows when the line selected that
// variant, topping rows once per requested unit of the topping. Scope tags
// are slug-like strings matched by lowercase equality.
func partitionIngredients(ingredients []models.RecipeIngredient, line *models.OrderLine) []deductionEntry {
	var entries []deductionEntry
	for _, ing := range ingredients {
		switch {
		case ing.IsBase():
			entries = append(entries, deductionEntry{ingredient: ing, multiplier: 1})
		case ing.VariantID != nil:
			if line.VariantID != nil && strings.EqualFold(*ing.VariantID, *line.VariantID) {
				entries = append(entries, deductionEntry{ingredient: ing, multiplier: 1})
			}
		case ing.ToppingID != nil:
			for _, topping := range line.Toppings {
				if strings.EqualFold(*ing.ToppingID, topping.ToppingID) {
					multiplier := topping.Quantity
					if multiplier <= 0 {
						multiplier = 1
					}
					entries = append(entries, deductionEntry{ingredient: ing, multiplier: multiplier})
				}
			}
		}
	}
	return entries
}

func (s *deductionService) deductIngredient(ctx context.Context, tenantID, orderID uuid.UUID, line *models.OrderLine, entry deductionEntry, userID *uuid.UUID) models.DeductionOutcome {
	ing := entry.ingredient
	total := ing.QuantityPerDish * float64(line.Quantity) * float64(entry.multiplier)

	outcome := models.DeductionOutcome{
		DishID:    line.DishID,
		ItemID:    ing.ItemID,
		Quantity:  total,
		Unit:      ing.Unit,
		VariantID: ing.VariantID,
		ToppingID: ing.ToppingID,
	}

	_, fallback, err := s.itemService.Deduct(ctx, tenantID, ing.ItemID, total, ing.Unit, models.ReasonOrderUsage, &orderID, userID)
	switch {
	case err == nil && fallback:
		outcome.Status = models.DeductionConversionFallback
	case err == nil:
		outcome.Status = models.DeductionSuccess
	case errors.Is(err, ErrItemNotFound):
		outcome.Status = models.DeductionItemNotFound
		outcome.Error = err.Error()
	case errors.Is(err, ErrInsufficientStock):
		outcome.Status = models.DeductionInsufficientStock
		outcome.Error = err.Error()
	default:
		outcome.Status = models.DeductionFailed
		outcome.Error = err.Error()
	}

	if err != nil {
		// Per-ingredient isolation: the failure is recorded and deduction
		// continues for the remaining ingredients
		log.Printf("Deduction failed for item %s on order %s: %v", ing.ItemID.String(), orderID.String(), err)
	}
	return outcome
}

func (s *deductionService) OnOrderCancelled(ctx context.Context, tenantID, orderID uuid.UUID, userID *uuid.UUID) error {
	txns, err := s.transactionRepo.ListByOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	// Refund signature check makes the refund idempotent even if
	// cancellation is invoked twice through different paths
	for _, txn := range txns {
		if txn.TransactionType == models.TransactionAdjustment && txn.Reason == models.ReasonOrderCancelled {
			log.Printf("Order %s already refunded, skipping", orderID.String())
			return nil
		}
	}

	for _, txn := range txns {
		// Only the original deductions are reversed; adjustment/restock rows
		// tied to the same order are never undone
		if txn.TransactionType != models.TransactionUsage {
			continue
		}
		amount := txn.QuantityChange
		if amount < 0 {
			amount = -amount
		}
		// Refund amounts come exclusively from ledger history
		if _, err := s.itemService.Refund(ctx, tenantID, txn.ItemID, amount, orderID, userID); err != nil {
			log.Printf("Refund failed for item %s on order %s: %v", txn.ItemID.String(), orderID.String(), err)
		}
	}
	return nil
}
