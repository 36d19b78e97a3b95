package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeRepository interface {
	// Upsert enforces one recipe per (tenant, dish): creating for an existing
	// dish replaces the ingredient list and cached cost.
	Upsert(ctx context.Context, recipe *models.Recipe) error
	GetByDish(ctx context.Context, tenantID, dishID uuid.UUID) (*models.Recipe, error)
	GetByDishIDs(ctx context.Context, tenantID uuid.UUID, dishIDs []uuid.UUID) (map[uuid.UUID]*models.Recipe, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Recipe, error)
	Delete(ctx context.Context, tenantID, dishID uuid.UUID) error
}

type recipeRepo struct {
	db *pgxpool.Pool
}

func NewRecipeRepo(db *pgxpool.Pool) RecipeRepository {
	return &recipeRepo{db: db}
}

func (r *recipeRepo) Upsert(ctx context.Context, recipe *models.Recipe) error {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	query := `
		INSERT INTO recipes (id, tenant_id, dish_id, dish_name, ingredients, total_cost_per_dish, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (tenant_id, dish_id) DO UPDATE
		SET dish_name = EXCLUDED.dish_name,
			ingredients = EXCLUDED.ingredients,
			total_cost_per_dish = EXCLUDED.total_cost_per_dish,
			updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query, recipe.ID, recipe.TenantID, recipe.DishID,
		recipe.DishName, ingredients, recipe.TotalCostPerDish)
	return err
}

func (r *recipeRepo) GetByDish(ctx context.Context, tenantID, dishID uuid.UUID) (*models.Recipe, error) {
	query := `
		SELECT id, tenant_id, dish_id, dish_name, ingredients, total_cost_per_dish, created_at, updated_at
		FROM recipes
		WHERE tenant_id = $1 AND dish_id = $2
	`
	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, tenantID, dishID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepo) GetByDishIDs(ctx context.Context, tenantID uuid.UUID, dishIDs []uuid.UUID) (map[uuid.UUID]*models.Recipe, error) {
	if len(dishIDs) == 0 {
		return map[uuid.UUID]*models.Recipe{}, nil
	}
	query := `
		SELECT id, tenant_id, dish_id, dish_name, ingredients, total_cost_per_dish, created_at, updated_at
		FROM recipes
		WHERE tenant_id = $1 AND dish_id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, tenantID, dishIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make(map[uuid.UUID]*models.Recipe, len(dishIDs))
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes[recipe.DishID] = recipe
	}
	return recipes, rows.Err()
}

func (r *recipeRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Recipe, error) {
	query := `
		SELECT id, tenant_id, dish_id, dish_name, ingredients, total_cost_per_dish, created_at, updated_at
		FROM recipes
		WHERE tenant_id = $1
		ORDER BY dish_name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (r *recipeRepo) Delete(ctx context.Context, tenantID, dishID uuid.UUID) error {
	query := `DELETE FROM recipes WHERE tenant_id = $1 AND dish_id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, dishID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	var ingredients []byte
	err := row.Scan(&recipe.ID, &recipe.TenantID, &recipe.DishID, &recipe.DishName,
		&ingredients, &recipe.TotalCostPerDish, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &recipe.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
	}
	return recipe, nil
}
