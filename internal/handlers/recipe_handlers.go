package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jainhardik06/Qrave-sub000/internal/middleware"
	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecipeHandlers handles dish recipe HTTP requests
type RecipeHandlers struct {
	recipeService services.RecipeService
}

func NewRecipeHandlers(recipeService services.RecipeService) *RecipeHandlers {
	return &RecipeHandlers{recipeService: recipeService}
}

// UpsertRecipeRequest represents a recipe create/replace payload
type UpsertRecipeRequest struct {
	DishID      uuid.UUID                 `json:"dish_id" validate:"required"`
	DishName    string                    `json:"dish_name" validate:"required"`
	Ingredients []models.RecipeIngredient `json:"ingredients"`
}

// UpsertRecipe handles creating or replacing the recipe for a dish
func (h *RecipeHandlers) UpsertRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpsertRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	recipe := &models.Recipe{
		DishID:      req.DishID,
		DishName:    req.DishName,
		Ingredients: req.Ingredients,
	}
	if err := h.recipeService.Create(ctx, tenantID, recipe); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, recipe)
}

// GetRecipe handles getting the recipe for a dish
func (h *RecipeHandlers) GetRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	dishID, err := uuid.Parse(c.Param("dishId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid dish ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	recipe, err := h.recipeService.GetByDish(ctx, tenantID, dishID)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get recipe")
	}

	return c.JSON(http.StatusOK, recipe)
}

// ListRecipes handles listing every recipe for the tenant
func (h *RecipeHandlers) ListRecipes(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	recipes, err := h.recipeService.List(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list recipes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// DeleteRecipe handles removing the recipe for a dish
func (h *RecipeHandlers) DeleteRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	dishID, err := uuid.Parse(c.Param("dishId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid dish ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if err := h.recipeService.Delete(ctx, tenantID, dishID); err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete recipe")
	}

	return c.NoContent(http.StatusNoContent)
}

// DishAvailability handles the batch availability check used by menu views.
// Dish IDs arrive as a comma separated query parameter.
func (h *RecipeHandlers) DishAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	raw := c.QueryParam("dish_ids")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "dish_ids is required")
	}
	var dishIDs []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid dish ID: "+part)
		}
		dishIDs = append(dishIDs, id)
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	availability, err := h.recipeService.GetAvailabilityForDishes(ctx, tenantID, dishIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check availability")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"availability": availability})
}

// RecipeIngredientDetails handles the enriched ingredient view for a dish
func (h *RecipeHandlers) RecipeIngredientDetails(c echo.Context) error {
	ctx := c.Request().Context()

	dishID, err := uuid.Parse(c.Param("dishId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid dish ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	details, err := h.recipeService.GetIngredientsWithDetails(ctx, tenantID, dishID)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get ingredient details")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"ingredients": details})
}
