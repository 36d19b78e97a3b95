package services

import (
	"context"
	"testing"

	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, itemID, limit, offset)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByType(ctx context.Context, tenantID uuid.UUID, transactionType string, limit, offset int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, transactionType, limit, offset)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

type MockInventoryItemService struct {
	mock.Mock
}

func (m *MockInventoryItemService) Create(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) error {
	args := m.Called(ctx, tenantID, item)
	return args.Error(0)
}

func (m *MockInventoryItemService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemService) Update(ctx context.Context, tenantID, id uuid.UUID, update *models.ItemUpdate) (*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInventoryItemService) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool, limit, offset int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, includeInactive, limit, offset)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemService) TotalValue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockInventoryItemService) Deduct(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, quantityUnit, reason string, orderID, userID *uuid.UUID) (*models.InventoryTransaction, bool, error) {
	args := m.Called(ctx, tenantID, itemID, quantity, quantityUnit, reason, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Bool(1), args.Error(2)
}

func (m *MockInventoryItemService) Refund(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, orderID uuid.UUID, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, itemID, quantity, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryItemService) AdjustStock(ctx context.Context, tenantID, itemID uuid.UUID, quantityChange float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, itemID, quantityChange, notes, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryItemService) Restock(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, itemID, quantity, notes, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

// DeductionServiceTestSuite defines the test suite
type DeductionServiceTestSuite struct {
	suite.Suite
	mockRecipeRepo      *MockRecipeRepository
	mockTransactionRepo *MockTransactionRepository
	mockItemService     *MockInventoryItemService
	service             DeductionService
	tenantID            uuid.UUID
}

func (suite *DeductionServiceTestSuite) SetupTest() {
	suite.mockRecipeRepo = &MockRecipeRepository{}
	suite.mockTransactionRepo = &MockTransactionRepository{}
	suite.mockItemService = &MockInventoryItemService{}
	suite.service = NewDeductionService(suite.mockRecipeRepo, suite.mockTransactionRepo, suite.mockItemService)
	suite.tenantID = uuid.New()
}

func (suite *DeductionServiceTestSuite) TearDownTest() {
	suite.mockRecipeRepo.AssertExpectations(suite.T())
	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockItemService.AssertExpectations(suite.T())
}

func TestDeductionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DeductionServiceTestSuite))
}

func (suite *DeductionServiceTestSuite) TestOnOrderCreated_DeductsBaseAndSelectedVariant() {
	dishID := uuid.New()
	flourID := uuid.New()
	cheeseID := uuid.New()
	extraCheeseID := uuid.New()
	large := "large"
	small := "small"

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 0.5, Unit: "kg"},
			{ItemID: cheeseID, QuantityPerDish: 0.3, Unit: "kg"},
			{ItemID: extraCheeseID, QuantityPerDish: 0.1, Unit: "kg", VariantID: &small},
		},
	}
	order := &models.Order{
		ID: uuid.New(),
		Lines: []models.OrderLine{
			{DishID: dishID, Quantity: 2, VariantID: &large},
		},
	}

	suite.mockRecipeRepo.On("GetByDish", mock.Anything, suite.tenantID, dishID).Return(recipe, nil).Once()
	// Base rows scale by line quantity: 0.5*2 and 0.3*2. The small-variant row
	// is skipped because the line selected large.
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, flourID,
		1.0, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, cheeseID,
		0.6, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()

	report := suite.service.OnOrderCreated(context.Background(), suite.tenantID, order, nil)

	assert.Len(suite.T(), report.Outcomes, 2)
	assert.False(suite.T(), report.Partial)
	assert.False(suite.T(), report.Skipped)
	for _, outcome := range report.Outcomes {
		assert.Equal(suite.T(), models.DeductionSuccess, outcome.Status)
	}
}

func (suite *DeductionServiceTestSuite) TestOnOrderCreated_VariantMatchIgnoresCase() {
	dishID := uuid.New()
	flourID := uuid.New()
	extraCheeseID := uuid.New()
	largeLower := "large"
	largeTitle := "Large"

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 0.5, Unit: "kg"},
			{ItemID: extraCheeseID, QuantityPerDish: 0.3, Unit: "kg", VariantID: &largeLower},
		},
	}
	order := &models.Order{
		ID: uuid.New(),
		Lines: []models.OrderLine{
			{DishID: dishID, Quantity: 2, VariantID: &largeTitle},
		},
	}

	suite.mockRecipeRepo.On("GetByDish", mock.Anything, suite.tenantID, dishID).Return(recipe, nil).Once()
	// "Large" on the line matches the "large" variant scope: both the base row
	// and the variant row deduct, each scaled by line quantity
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, flourID,
		1.0, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, extraCheeseID,
		0.6, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()

	report := suite.service.OnOrderCreated(context.Background(), suite.tenantID, order, nil)

	assert.Len(suite.T(), report.Outcomes, 2)
	assert.False(suite.T(), report.Partial)
	assert.Equal(suite.T(), &largeLower, report.Outcomes[1].VariantID)
}

func (suite *DeductionServiceTestSuite) TestOnOrderCreated_ToppingMultiplier() {
	dishID := uuid.New()
	baconID := uuid.New()
	bacon := "bacon"

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: baconID, QuantityPerDish: 0.1, Unit: "kg", ToppingID: &bacon},
		},
	}
	order := &models.Order{
		ID: uuid.New(),
		Lines: []models.OrderLine{
			{DishID: dishID, Quantity: 2, Toppings: []models.OrderTopping{{ToppingID: "Bacon", Quantity: 3}}},
		},
	}

	suite.mockRecipeRepo.On("GetByDish", mock.Anything, suite.tenantID, dishID).Return(recipe, nil).Once()
	// 0.1 per dish * 2 dishes * 3 units of topping
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, baconID,
		mock.MatchedBy(func(q float64) bool { return q > 0.599 && q < 0.601 }),
		"kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()

	report := suite.service.OnOrderCreated(context.Background(), suite.tenantID, order, nil)

	assert.Len(suite.T(), report.Outcomes, 1)
	assert.False(suite.T(), report.Partial)
}

func (suite *DeductionServiceTestSuite) TestOnOrderCreated_ShortfallIsPartialNotFatal() {
	dishID := uuid.New()
	flourID := uuid.New()
	cheeseID := uuid.New()

	recipe := &models.Recipe{
		DishID: dishID,
		Ingredients: []models.RecipeIngredient{
			{ItemID: flourID, QuantityPerDish: 0.5, Unit: "kg"},
			{ItemID: cheeseID, QuantityPerDish: 0.3, Unit: "kg"},
		},
	}
	order := &models.Order{
		ID:    uuid.New(),
		Lines: []models.OrderLine{{DishID: dishID, Quantity: 1}},
	}

	suite.mockRecipeRepo.On("GetByDish", mock.Anything, suite.tenantID, dishID).Return(recipe, nil).Once()
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, flourID,
		0.5, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, false, nil).Once()
	suite.mockItemService.On("Deduct", mock.Anything, suite.tenantID, cheeseID,
		0.3, "kg", models.ReasonOrderUsage, &order.ID, (*uuid.UUID)(nil)).
		Return(nil, false, ErrInsufficientStock).Once()

	report := suite.service.OnOrderCreated(context.Background(), suite.tenantID, order, nil)

	assert.Len(suite.T(), report.Outcomes, 2)
	assert.True(suite.T(), report.Partial)
	assert.Equal(suite.T(), models.DeductionSuccess, report.Outcomes[0].Status)
	assert.Equal(suite.T(), models.DeductionInsufficientStock, report.Outcomes[1].Status)
	assert.Equal(suite.T(), models.InventoryStatusPartial, report.InventoryStatus())
}

func (suite *DeductionServiceTestSuite) TestOnOrderCreated_NoRecipesMarksSkipped() {
	order := &models.Order{
		ID:    uuid.New(),
		Lines: []models.OrderLine{{DishID: uuid.New(), Quantity: 1}},
	}

	suite.mockRecipeRepo.On("GetByDish", mock.Anything, suite.tenantID, order.Lines[0].DishID).
		Return(nil, repositories.ErrRecipeNotFound).Once()

	report := suite.service.OnOrderCreated(context.Background(), suite.tenantID, order, nil)

	assert.Empty(suite.T(), report.Outcomes)
	assert.True(suite.T(), report.Skipped)
	assert.Equal(suite.T(), models.InventoryStatusSkipped, report.InventoryStatus())
}

func (suite *DeductionServiceTestSuite) TestOnOrderCancelled_RefundsUsageFromLedger() {
	orderID := uuid.New()
	flourID := uuid.New()
	cheeseID := uuid.New()

	ledger := []*models.InventoryTransaction{
		{ItemID: flourID, TransactionType: models.TransactionUsage, QuantityChange: -1.6},
		{ItemID: cheeseID, TransactionType: models.TransactionUsage, QuantityChange: -0.6},
		// A manual restock tied to the order must not be reversed
		{ItemID: flourID, TransactionType: models.TransactionRestock, QuantityChange: 5},
	}

	suite.mockTransactionRepo.On("ListByOrder", mock.Anything, suite.tenantID, orderID).Return(ledger, nil).Once()
	suite.mockItemService.On("Refund", mock.Anything, suite.tenantID, flourID, 1.6, orderID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, nil).Once()
	suite.mockItemService.On("Refund", mock.Anything, suite.tenantID, cheeseID, 0.6, orderID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, nil).Once()

	err := suite.service.OnOrderCancelled(context.Background(), suite.tenantID, orderID, nil)

	assert.NoError(suite.T(), err)
}

func (suite *DeductionServiceTestSuite) TestOnOrderCancelled_SecondCancelIsNoOp() {
	orderID := uuid.New()
	flourID := uuid.New()

	// The refund signature row is already present, so no further refunds run
	ledger := []*models.InventoryTransaction{
		{ItemID: flourID, TransactionType: models.TransactionUsage, QuantityChange: -1.6},
		{ItemID: flourID, TransactionType: models.TransactionAdjustment, Reason: models.ReasonOrderCancelled, QuantityChange: 1.6},
	}

	suite.mockTransactionRepo.On("ListByOrder", mock.Anything, suite.tenantID, orderID).Return(ledger, nil).Once()

	err := suite.service.OnOrderCancelled(context.Background(), suite.tenantID, orderID, nil)

	assert.NoError(suite.T(), err)
	suite.mockItemService.AssertNotCalled(suite.T(), "Refund")
}

func (suite *DeductionServiceTestSuite) TestOnOrderCancelled_RefundFailureDoesNotAbort() {
	orderID := uuid.New()
	flourID := uuid.New()
	cheeseID := uuid.New()

	ledger := []*models.InventoryTransaction{
		{ItemID: flourID, TransactionType: models.TransactionUsage, QuantityChange: -1},
		{ItemID: cheeseID, TransactionType: models.TransactionUsage, QuantityChange: -2},
	}

	suite.mockTransactionRepo.On("ListByOrder", mock.Anything, suite.tenantID, orderID).Return(ledger, nil).Once()
	suite.mockItemService.On("Refund", mock.Anything, suite.tenantID, flourID, 1.0, orderID, (*uuid.UUID)(nil)).
		Return(nil, ErrItemNotFound).Once()
	suite.mockItemService.On("Refund", mock.Anything, suite.tenantID, cheeseID, 2.0, orderID, (*uuid.UUID)(nil)).
		Return(&models.InventoryTransaction{}, nil).Once()

	err := suite.service.OnOrderCancelled(context.Background(), suite.tenantID, orderID, nil)

	assert.NoError(suite.T(), err)
}
