package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
)

var ErrArmyNotFound = repositories.ErrArmyNotFound

// RestockingService manages named restocking templates ("armies") and
// executes them as best-effort bulk stock additions with ledger discipline.
type RestockingService interface {
	Create(ctx context.Context, tenantID uuid.UUID, army *models.RestockingArmy) error
	Update(ctx context.Context, tenantID uuid.UUID, army *models.RestockingArmy) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestockingArmy, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmy, error)
	Summary(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmySummary, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error

	// Execute applies the template: per-item failures are collected and do
	// not abort the remaining items.
	Execute(ctx context.Context, tenantID, armyID uuid.UUID, userID *uuid.UUID) (*models.RestockingResult, error)
}

type restockingService struct {
	armyRepo    repositories.RestockingArmyRepository
	itemRepo    repositories.InventoryItemRepository
	itemService InventoryItemService
}

func NewRestockingService(armyRepo repositories.RestockingArmyRepository, itemRepo repositories.InventoryItemRepository, itemService InventoryItemService) RestockingService {
	return &restockingService{
		armyRepo:    armyRepo,
		itemRepo:    itemRepo,
		itemService: itemService,
	}
}

func (s *restockingService) Create(ctx context.Context, tenantID uuid.UUID, army *models.RestockingArmy) error {
	if army.Name == "" {
		return errors.New("army name is required")
	}
	if len(army.Items) == 0 {
		return errors.New("army must have at least one item")
	}

	if err := s.snapshotItems(ctx, tenantID, army); err != nil {
		return err
	}

	army.ID = uuid.New()
	army.TenantID = tenantID
	army.Active = true
	return s.armyRepo.Create(ctx, army)
}

func (s *restockingService) Update(ctx context.Context, tenantID uuid.UUID, army *models.RestockingArmy) error {
	existing, err := s.armyRepo.GetByID(ctx, tenantID, army.ID)
	if err != nil {
		return err
	}
	if army.Name == "" {
		return errors.New("army name is required")
	}
	if len(army.Items) == 0 {
		return errors.New("army must have at least one item")
	}
	if err := s.snapshotItems(ctx, tenantID, army); err != nil {
		return err
	}
	army.TenantID = tenantID
	army.Active = existing.Active
	army.CreatedAt = existing.CreatedAt
	return s.armyRepo.Update(ctx, army)
}

// snapshotItems validates every referenced item and copies name/sku/unit onto
// the template rows, decoupling the template from future item renames.
func (s *restockingService) snapshotItems(ctx context.Context, tenantID uuid.UUID, army *models.RestockingArmy) error {
	ids := make([]uuid.UUID, 0, len(army.Items))
	for _, row := range army.Items {
		if row.ItemID == uuid.Nil {
			return errors.New("army item ID is required")
		}
		if row.Quantity <= 0 {
			return errors.New("army item quantity must be positive")
		}
		ids = append(ids, row.ItemID)
	}

	items, err := s.itemRepo.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if len(items) != len(ids) {
		return fmt.Errorf("army references missing items: found %d of %d", len(items), len(ids))
	}

	for i := range army.Items {
		item := items[army.Items[i].ItemID]
		army.Items[i].ItemName = item.Name
		army.Items[i].SKU = item.SKU
		army.Items[i].Unit = item.Unit
	}
	return nil
}

func (s *restockingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestockingArmy, error) {
	return s.armyRepo.GetByID(ctx, tenantID, id)
}

func (s *restockingService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmy, error) {
	return s.armyRepo.List(ctx, tenantID, limit, offset)
}

func (s *restockingService) Summary(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmySummary, error) {
	armies, err := s.armyRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]*models.RestockingArmySummary, 0, len(armies))
	for _, army := range armies {
		summaries = append(summaries, &models.RestockingArmySummary{
			ID:        army.ID,
			Name:      army.Name,
			ItemCount: len(army.Items),
			Active:    army.Active,
			UpdatedAt: army.UpdatedAt,
		})
	}
	return summaries, nil
}

func (s *restockingService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.armyRepo.Deactivate(ctx, tenantID, id)
}

func (s *restockingService) Execute(ctx context.Context, tenantID, armyID uuid.UUID, userID *uuid.UUID) (*models.RestockingResult, error) {
	army, err := s.armyRepo.GetByID(ctx, tenantID, armyID)
	if err != nil {
		return nil, err
	}

	result := &models.RestockingResult{Errors: []string{}}
	for _, row := range army.Items {
		notes := fmt.Sprintf("restocking army %q", army.Name)
		_, err := s.itemService.Restock(ctx, tenantID, row.ItemID, row.Quantity, &notes, userID)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("item %s (%s): %v", row.ItemName, row.ItemID.String(), err))
			continue
		}
		result.ItemsRestocked++
	}
	result.Success = len(result.Errors) == 0
	return result, nil
}
