package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jainhardik06/Qrave-sub000/internal/caching"
	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"
	"github.com/jainhardik06/Qrave-sub000/internal/units"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
)

var (
	ErrItemNotFound      = repositories.ErrItemNotFound
	ErrInsufficientStock = repositories.ErrInsufficientStock

	// ErrNegativeStock is returned by manual stock adjustments that would
	// drive current_quantity below zero. Unlike order deduction this path is
	// hard-blocking: it is an explicit operator action.
	ErrNegativeStock = errors.New("adjustment would result in negative stock")
)

type InventoryItemService interface {
	Create(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, update *models.ItemUpdate) (*models.InventoryItem, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool, limit, offset int) ([]*models.InventoryItem, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error)
	TotalValue(ctx context.Context, tenantID uuid.UUID) (float64, error)

	// Deduct removes quantity from an item, recording a usage transaction.
	// quantityUnit may differ from the item's native unit; when conversion is
	// impossible the raw quantity is used instead and the returned fallback
	// flag is true.
	Deduct(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, quantityUnit, reason string, orderID, userID *uuid.UUID) (*models.InventoryTransaction, bool, error)

	// Refund returns a previously deducted quantity, recording an adjustment
	// transaction with the order-cancellation reason. The quantity must
	// already be in the item's native unit; refunds replay ledger amounts and
	// never re-convert.
	Refund(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, orderID uuid.UUID, userID *uuid.UUID) (*models.InventoryTransaction, error)

	// AdjustStock applies a signed manual correction. Rejects adjustments
	// that would make the quantity negative.
	AdjustStock(ctx context.Context, tenantID, itemID uuid.UUID, quantityChange float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error)

	// Restock adds quantity from a restocking template execution.
	Restock(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error)
}

type inventoryItemService struct {
	itemRepo     repositories.InventoryItemRepository
	cacheService caching.CacheService
}

func NewInventoryItemService(itemRepo repositories.InventoryItemRepository, cacheService caching.CacheService) InventoryItemService {
	return &inventoryItemService{
		itemRepo:     itemRepo,
		cacheService: cacheService,
	}
}

func (s *inventoryItemService) Create(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) error {
	if item.Name == "" {
		return errors.New("item name is required")
	}
	if _, ok := units.Lookup(item.Unit); !ok {
		return fmt.Errorf("%w: %q", units.ErrUnknownUnit, item.Unit)
	}
	if item.CostPerUnit < 0 {
		return errors.New("cost per unit cannot be negative")
	}
	if item.CurrentQuantity < 0 {
		return errors.New("current quantity cannot be negative")
	}

	item.ID = uuid.New()
	item.TenantID = tenantID
	item.Active = true
	if strings.TrimSpace(item.SKU) == "" {
		item.SKU = generateSKU(item.Name)
	}
	return s.itemRepo.Create(ctx, item)
}

// generateSKU builds a SKU from the first three name characters upper-cased
// plus a random 6-character suffix.
func generateSKU(name string) string {
	// Runes, not bytes: a multibyte name must not produce a broken prefix
	prefix := []rune(strings.ToUpper(strings.ReplaceAll(name, " ", "")))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%s", string(prefix), random.String(6, random.Uppercase, random.Numeric))
}

func (s *inventoryItemService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	// Try cache first; cache errors never fail the read
	if cachedItem, err := s.cacheService.GetItem(ctx, tenantID, id); cachedItem != nil {
		return cachedItem, nil
	} else if err != nil {
		log.Printf("Cache error for item %s: %v", id.String(), err)
	}

	item, err := s.itemRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetItem(ctx, tenantID, item, 5*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache item %s: %v", id.String(), cacheErr)
	}
	return item, nil
}

func (s *inventoryItemService) Update(ctx context.Context, tenantID, id uuid.UUID, update *models.ItemUpdate) (*models.InventoryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, errors.New("item name cannot be empty")
		}
		item.Name = *update.Name
	}
	if update.Unit != nil {
		if _, ok := units.Lookup(*update.Unit); !ok {
			return nil, fmt.Errorf("%w: %q", units.ErrUnknownUnit, *update.Unit)
		}
		item.Unit = *update.Unit
	}
	if update.CostPerUnit != nil {
		if *update.CostPerUnit < 0 {
			return nil, errors.New("cost per unit cannot be negative")
		}
		item.CostPerUnit = *update.CostPerUnit
	}
	if update.ReorderLevel != nil {
		item.ReorderLevel = *update.ReorderLevel
	}
	if update.ReorderQuantity != nil {
		item.ReorderQuantity = *update.ReorderQuantity
	}
	if update.RestockingQuantity != nil {
		item.RestockingQuantity = *update.RestockingQuantity
	}
	if update.Category != nil {
		item.Category = update.Category
	}
	if update.StorageLocation != nil {
		item.StorageLocation = update.StorageLocation
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteItem(ctx, tenantID, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", id.String(), cacheErr)
	}
	return item, nil
}

// Deactivate soft-deletes an item. Transactions referencing it must remain
// resolvable, so nothing is ever physically removed.
func (s *inventoryItemService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.itemRepo.Deactivate(ctx, tenantID, id); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteItem(ctx, tenantID, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *inventoryItemService) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool, limit, offset int) ([]*models.InventoryItem, error) {
	return s.itemRepo.List(ctx, tenantID, includeInactive, limit, offset)
}

func (s *inventoryItemService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	return s.itemRepo.Search(ctx, tenantID, filter)
}

func (s *inventoryItemService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	return s.itemRepo.LowStock(ctx, tenantID)
}

func (s *inventoryItemService) TotalValue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	if value, ok, err := s.cacheService.GetInventoryValue(ctx, tenantID); ok {
		return value, nil
	} else if err != nil {
		log.Printf("Cache error for inventory value of tenant %s: %v", tenantID.String(), err)
	}

	value, err := s.itemRepo.TotalValue(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	if cacheErr := s.cacheService.SetInventoryValue(ctx, tenantID, value, 5*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache inventory value for tenant %s: %v", tenantID.String(), cacheErr)
	}
	return value, nil
}

func (s *inventoryItemService) Deduct(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, quantityUnit, reason string, orderID, userID *uuid.UUID) (*models.InventoryTransaction, bool, error) {
	item, err := s.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, false, err
	}

	deductQuantity := quantity
	fallback := false
	if quantityUnit != "" && quantityUnit != item.Unit {
		converted, convErr := units.Convert(quantity, quantityUnit, item.Unit)
		if convErr != nil {
			// Backward-compatibility policy: a unit mismatch degrades to the
			// raw quantity instead of failing the order. Logged so operators
			// can detect when it fires.
			log.Printf("Unit conversion fallback for item %s (%s -> %s): %v",
				itemID.String(), quantityUnit, item.Unit, convErr)
			fallback = true
		} else {
			deductQuantity = converted
		}
	}

	if item.CurrentQuantity < deductQuantity {
		return nil, fallback, fmt.Errorf("%w: required %g %s, available %g %s",
			ErrInsufficientStock, deductQuantity, item.Unit, item.CurrentQuantity, item.Unit)
	}

	txn, err := s.itemRepo.ApplyStockMutation(ctx, tenantID, &models.StockMutation{
		ItemID:          itemID,
		QuantityChange:  -deductQuantity,
		TransactionType: models.TransactionUsage,
		Reason:          reason,
		OrderID:         orderID,
		UserID:          userID,
	})
	if err != nil {
		return nil, fallback, err
	}

	s.invalidateItem(ctx, tenantID, itemID)
	return txn, fallback, nil
}

func (s *inventoryItemService) Refund(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, orderID uuid.UUID, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	txn, err := s.itemRepo.ApplyStockMutation(ctx, tenantID, &models.StockMutation{
		ItemID:          itemID,
		QuantityChange:  quantity,
		TransactionType: models.TransactionAdjustment,
		Reason:          models.ReasonOrderCancelled,
		OrderID:         &orderID,
		UserID:          userID,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateItem(ctx, tenantID, itemID)
	return txn, nil
}

func (s *inventoryItemService) AdjustStock(ctx context.Context, tenantID, itemID uuid.UUID, quantityChange float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	txn, err := s.itemRepo.ApplyStockMutation(ctx, tenantID, &models.StockMutation{
		ItemID:          itemID,
		QuantityChange:  quantityChange,
		TransactionType: models.TransactionAdjustment,
		Reason:          models.ReasonManualAdjust,
		UserID:          userID,
		Notes:           notes,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: change of %g rejected", ErrNegativeStock, quantityChange)
		}
		return nil, err
	}

	s.invalidateItem(ctx, tenantID, itemID)
	return txn, nil
}

func (s *inventoryItemService) Restock(ctx context.Context, tenantID, itemID uuid.UUID, quantity float64, notes *string, userID *uuid.UUID) (*models.InventoryTransaction, error) {
	if quantity <= 0 {
		return nil, errors.New("restock quantity must be positive")
	}
	txn, err := s.itemRepo.ApplyStockMutation(ctx, tenantID, &models.StockMutation{
		ItemID:          itemID,
		QuantityChange:  quantity,
		TransactionType: models.TransactionRestock,
		Reason:          models.ReasonRestocking,
		UserID:          userID,
		Notes:           notes,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateItem(ctx, tenantID, itemID)
	return txn, nil
}

func (s *inventoryItemService) invalidateItem(ctx context.Context, tenantID, itemID uuid.UUID) {
	if cacheErr := s.cacheService.DeleteItem(ctx, tenantID, itemID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for item %s: %v", itemID.String(), cacheErr)
	}
}
