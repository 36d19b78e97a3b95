package services

import (
	"context"
	"testing"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Upsert(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByDish(ctx context.Context, tenantID, dishID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, tenantID, dishID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByDishIDs(ctx context.Context, tenantID uuid.UUID, dishIDs []uuid.UUID) (map[uuid.UUID]*models.Recipe, error) {
	args := m.Called(ctx, tenantID, dishIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Recipe, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, tenantID, dishID uuid.UUID) error {
	args := m.Called(ctx, tenantID, dishID)
	return args.Error(0)
}

// RecipeServiceTestSuite defines the test suite
type RecipeServiceTestSuite struct {
	suite.Suite
	mockRecipeRepo *MockRecipeRepository
	mockItemRepo   *MockInventoryItemRepository
	mockCache      *MockCacheService
	service        RecipeService
	tenantID       uuid.UUID
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.mockRecipeRepo = &MockRecipeRepository{}
	suite.mockItemRepo = &MockInventoryItemRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewRecipeService(suite.mockRecipeRepo, suite.mockItemRepo, suite.mockCache)
	suite.tenantID = uuid.New()
}

func (suite *RecipeServiceTestSuite) TearDownTest() {
	suite.mockRecipeRepo.AssertExpectations(suite.T())
	suite.mockItemRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}

func (suite *RecipeServiceTestSuite) TestCreate_CostExcludesVariantAndToppingRows() {
	dishID := uuid.New()
	flourID := uuid.New()
	cheeseID := uuid.New()
	baconID := uuid.New()
	variant := "large"
	topping := "extra-bacon"

	recipe := &models.Recipe{
		DishID:   dishID,
		DishName: "Pizza",
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 0.5, Unit: "kg"},
			{ItemID: cheeseID, QuantityPerDish: 0.2, Unit: "kg", VariantID: &variant},
			{ItemID: baconID, QuantityPerDish: 0.05, Unit: "kg", ToppingID: &topping},
		},
	}

	items := map[uuid.UUID]*models.InventoryItem{
		flourID:  {ID: flourID, Unit: "kg", CostPerUnit: 2, Active: true},
		cheeseID: {ID: cheeseID, Unit: "kg", CostPerUnit: 10, Active: true},
		baconID:  {ID: baconID, Unit: "kg", CostPerUnit: 12, Active: true},
	}

	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID,
		mock.AnythingOfType("[]uuid.UUID")).Return(items, nil).Once()
	suite.mockRecipeRepo.On("Upsert", mock.Anything, recipe).Return(nil).Once()
	suite.mockCache.On("DeleteAvailability", mock.Anything, suite.tenantID, dishID).Return(nil).Once()

	err := suite.service.Create(context.Background(), suite.tenantID, recipe)

	assert.NoError(suite.T(), err)
	// Only the base flour row counts: 0.5 kg * 2
	assert.InDelta(suite.T(), 1.0, recipe.TotalCostPerDish, 1e-9)
}

func (suite *RecipeServiceTestSuite) TestCreate_CostSkipsMissingItems() {
	dishID := uuid.New()
	flourID := uuid.New()
	ghostID := uuid.New()

	recipe := &models.Recipe{
		DishID:   dishID,
		DishName: "Bread",
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 500, Unit: "g"},
			{ItemID: ghostID, QuantityPerDish: 1, Unit: "piece"},
		},
	}

	items := map[uuid.UUID]*models.InventoryItem{
		flourID: {ID: flourID, Unit: "kg", CostPerUnit: 2, Active: true},
	}

	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID,
		mock.AnythingOfType("[]uuid.UUID")).Return(items, nil).Once()
	suite.mockRecipeRepo.On("Upsert", mock.Anything, recipe).Return(nil).Once()
	suite.mockCache.On("DeleteAvailability", mock.Anything, suite.tenantID, dishID).Return(nil).Once()

	err := suite.service.Create(context.Background(), suite.tenantID, recipe)

	assert.NoError(suite.T(), err)
	// 500 g converts to 0.5 kg at 2 per kg; the missing item contributes nothing
	assert.InDelta(suite.T(), 1.0, recipe.TotalCostPerDish, 1e-9)
}

func (suite *RecipeServiceTestSuite) TestCreate_RejectsDoubleScopedIngredient() {
	variant := "large"
	topping := "olives"
	recipe := &models.Recipe{
		DishID:   uuid.New(),
		DishName: "Pizza",
		Ingredients: []models.RecipeIngredient{
			{ItemID: uuid.New(), QuantityPerDish: 1, Unit: "piece", VariantID: &variant, ToppingID: &topping},
		},
	}

	err := suite.service.Create(context.Background(), suite.tenantID, recipe)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "both a variant and a topping")
}

func (suite *RecipeServiceTestSuite) TestAvailability_DishWithoutRecipeIsAvailable() {
	dishID := uuid.New()

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).Return(nil, nil).Once()
	suite.mockRecipeRepo.On("GetByDishIDs", mock.Anything, suite.tenantID, []uuid.UUID{dishID}).
		Return(map[uuid.UUID]*models.Recipe{}, nil).Once()
	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID, []uuid.UUID(nil)).
		Return(map[uuid.UUID]*models.InventoryItem{}, nil).Once()
	suite.mockCache.On("SetAvailability", mock.Anything, suite.tenantID,
		mock.AnythingOfType("*models.DishAvailability"), availabilityCacheTTL).Return(nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), results[dishID].Available)
	assert.Empty(suite.T(), results[dishID].MissingIngredients)
}

func (suite *RecipeServiceTestSuite) TestAvailability_CacheHitSkipsRepositories() {
	dishID := uuid.New()
	cached := &models.DishAvailability{DishID: dishID, Available: false}

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).Return(cached, nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	assert.Same(suite.T(), cached, results[dishID])
	suite.mockRecipeRepo.AssertNotCalled(suite.T(), "GetByDishIDs")
	suite.mockItemRepo.AssertNotCalled(suite.T(), "GetByIDs")
}

func (suite *RecipeServiceTestSuite) TestAvailability_CacheErrorFallsThrough() {
	dishID := uuid.New()

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).
		Return(nil, assert.AnError).Once()
	suite.mockRecipeRepo.On("GetByDishIDs", mock.Anything, suite.tenantID, []uuid.UUID{dishID}).
		Return(map[uuid.UUID]*models.Recipe{}, nil).Once()
	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID, []uuid.UUID(nil)).
		Return(map[uuid.UUID]*models.InventoryItem{}, nil).Once()
	suite.mockCache.On("SetAvailability", mock.Anything, suite.tenantID,
		mock.AnythingOfType("*models.DishAvailability"), availabilityCacheTTL).Return(nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), results[dishID].Available)
}

func (suite *RecipeServiceTestSuite) TestAvailability_MissingAndInsufficientIngredients() {
	dishID := uuid.New()
	flourID := uuid.New()
	ghostID := uuid.New()

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 2, Unit: "kg"},
			{ItemID: ghostID, QuantityPerDish: 1, Unit: "piece"},
		},
	}
	items := map[uuid.UUID]*models.InventoryItem{
		flourID: {ID: flourID, Name: "Flour", Unit: "kg", CurrentQuantity: 0.5, Active: true},
	}

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).Return(nil, nil).Once()
	suite.mockRecipeRepo.On("GetByDishIDs", mock.Anything, suite.tenantID, []uuid.UUID{dishID}).
		Return(map[uuid.UUID]*models.Recipe{dishID: recipe}, nil).Once()
	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID,
		mock.AnythingOfType("[]uuid.UUID")).Return(items, nil).Once()
	suite.mockCache.On("SetAvailability", mock.Anything, suite.tenantID,
		mock.AnythingOfType("*models.DishAvailability"), availabilityCacheTTL).Return(nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	availability := results[dishID]
	assert.False(suite.T(), availability.Available)
	assert.Len(suite.T(), availability.MissingIngredients, 2)

	reasons := map[uuid.UUID]string{}
	for _, missing := range availability.MissingIngredients {
		reasons[missing.ItemID] = missing.Reason
	}
	assert.Equal(suite.T(), "insufficient_stock", reasons[flourID])
	assert.Equal(suite.T(), "item_not_found", reasons[ghostID])
}

func (suite *RecipeServiceTestSuite) TestAvailability_LowStockFlag() {
	dishID := uuid.New()
	flourID := uuid.New()

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 0.5, Unit: "kg"},
		},
	}
	// Enough for the dish but at or below the reorder level
	items := map[uuid.UUID]*models.InventoryItem{
		flourID: {ID: flourID, Unit: "kg", CurrentQuantity: 2, ReorderLevel: 3, Active: true},
	}

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).Return(nil, nil).Once()
	suite.mockRecipeRepo.On("GetByDishIDs", mock.Anything, suite.tenantID, []uuid.UUID{dishID}).
		Return(map[uuid.UUID]*models.Recipe{dishID: recipe}, nil).Once()
	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID,
		mock.AnythingOfType("[]uuid.UUID")).Return(items, nil).Once()
	suite.mockCache.On("SetAvailability", mock.Anything, suite.tenantID,
		mock.AnythingOfType("*models.DishAvailability"), availabilityCacheTTL).Return(nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), results[dishID].Available)
	assert.True(suite.T(), results[dishID].LowStock)
}

func (suite *RecipeServiceTestSuite) TestAvailability_InactiveItemIsMissing() {
	dishID := uuid.New()
	butterID := uuid.New()

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: butterID, QuantityPerDish: 50, Unit: "g"},
		},
	}
	items := map[uuid.UUID]*models.InventoryItem{
		butterID: {ID: butterID, Unit: "kg", CurrentQuantity: 5, Active: false},
	}

	suite.mockCache.On("GetAvailability", mock.Anything, suite.tenantID, dishID).Return(nil, nil).Once()
	suite.mockRecipeRepo.On("GetByDishIDs", mock.Anything, suite.tenantID, []uuid.UUID{dishID}).
		Return(map[uuid.UUID]*models.Recipe{dishID: recipe}, nil).Once()
	suite.mockItemRepo.On("GetByIDs", mock.Anything, suite.tenantID,
		mock.AnythingOfType("[]uuid.UUID")).Return(items, nil).Once()
	suite.mockCache.On("SetAvailability", mock.Anything, suite.tenantID,
		mock.AnythingOfType("*models.DishAvailability"), availabilityCacheTTL).Return(nil).Once()

	results, err := suite.service.GetAvailabilityForDishes(context.Background(), suite.tenantID, []uuid.UUID{dishID})

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), results[dishID].Available)
	assert.Equal(suite.T(), "item_not_found", results[dishID].MissingIngredients[0].Reason)
}
