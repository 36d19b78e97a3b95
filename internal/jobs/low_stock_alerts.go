package jobs

import (
	"context"
	"log"

	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
)

// LowStockAlertService periodically scans tenants for items at or below
// their reorder level and logs replenishment suggestions based on the item's
// configured restocking quantity.
type LowStockAlertService struct {
	itemRepo repositories.InventoryItemRepository
}

type LowStockAlert struct {
	TenantID        uuid.UUID
	ItemID          uuid.UUID
	ItemName        string
	SKU             string
	CurrentQuantity float64
	ReorderLevel    float64
	SuggestedOrder  float64
	Unit            string
}

func NewLowStockAlertService(itemRepo repositories.InventoryItemRepository) *LowStockAlertService {
	return &LowStockAlertService{itemRepo: itemRepo}
}

func (a *LowStockAlertService) CheckLowStock(ctx context.Context, tenantID uuid.UUID) ([]LowStockAlert, error) {
	items, err := a.itemRepo.LowStock(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to list low-stock items for tenant %s: %v", tenantID.String(), err)
		return nil, err
	}

	alerts := make([]LowStockAlert, 0, len(items))
	for _, item := range items {
		suggested := item.RestockingQuantity
		if suggested <= 0 {
			suggested = item.ReorderQuantity
		}
		alerts = append(alerts, LowStockAlert{
			TenantID:        tenantID,
			ItemID:          item.ID,
			ItemName:        item.Name,
			SKU:             item.SKU,
			CurrentQuantity: item.CurrentQuantity,
			ReorderLevel:    item.ReorderLevel,
			SuggestedOrder:  suggested,
			Unit:            item.Unit,
		})
	}
	return alerts, nil
}

func (a *LowStockAlertService) LogLowStockAlerts(ctx context.Context, alerts []LowStockAlert) {
	if len(alerts) == 0 {
		return
	}

	log.Printf("Low stock alerts for tenant %s:", alerts[0].TenantID.String())
	for _, alert := range alerts {
		log.Printf("- Item '%s' (%s) has %g %s (reorder level: %g, suggested order: %g)",
			alert.ItemName, alert.SKU, alert.CurrentQuantity, alert.Unit,
			alert.ReorderLevel, alert.SuggestedOrder)
	}
}

// ScheduledLowStockCheck runs the scan across every tenant with inventory.
func (a *LowStockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	tenantIDs, err := a.itemRepo.TenantIDs(ctx)
	if err != nil {
		log.Printf("Failed to list tenants for low-stock scan: %v", err)
		return err
	}

	for _, tenantID := range tenantIDs {
		alerts, err := a.CheckLowStock(ctx, tenantID)
		if err != nil {
			continue
		}
		a.LogLowStockAlerts(ctx, alerts)
	}
	return nil
}
