package handlers

import (
	"errors"
	"net/http"

	"github.com/jainhardik06/Qrave-sub000/internal/middleware"
	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/services"
	"github.com/jainhardik06/Qrave-sub000/internal/units"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles inventory item HTTP requests
type InventoryHandlers struct {
	itemService services.InventoryItemService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(itemService services.InventoryItemService) *InventoryHandlers {
	return &InventoryHandlers{itemService: itemService}
}

// ListItemsRequest represents query parameters for listing items
type ListItemsRequest struct {
	Limit           int  `query:"limit"`
	Offset          int  `query:"offset"`
	IncludeInactive bool `query:"include_inactive"`
}

// ListItems handles getting a paginated list of inventory items
func (h *InventoryHandlers) ListItems(c echo.Context) error {
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

	items, err := h.itemService.List(ctx, tenantID, req.IncludeInactive, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list inventory items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateItemRequest represents the item creation request payload
type CreateItemRequest struct {
	Name               string   `json:"name" validate:"required"`
	SKU                string   `json:"sku"`
	Unit               string   `json:"unit" validate:"required"`
	CostPerUnit        float64  `json:"cost_per_unit"`
	CurrentQuantity    float64  `json:"current_quantity"`
	ReorderLevel       float64  `json:"reorder_level"`
	ReorderQuantity    float64  `json:"reorder_quantity"`
	RestockingQuantity float64  `json:"restocking_quantity"`
	Category           *string  `json:"category"`
	StorageLocation    *string  `json:"storage_location"`
}

// CreateItem handles creating an inventory item (SKU auto-generated when blank)
func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	item := &models.InventoryItem{
		Name:               req.Name,
		SKU:                req.SKU,
		Unit:               req.Unit,
		CostPerUnit:        req.CostPerUnit,
		CurrentQuantity:    req.CurrentQuantity,
		ReorderLevel:       req.ReorderLevel,
		ReorderQuantity:    req.ReorderQuantity,
		RestockingQuantity: req.RestockingQuantity,
		Category:           req.Category,
		StorageLocation:    req.StorageLocation,
	}

	if err := h.itemService.Create(ctx, tenantID, item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, item)
}

// GetItem handles getting a single inventory item
func (h *InventoryHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	item, err := h.itemService.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get item")
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles partial, field-level item updates
func (h *InventoryHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var update models.ItemUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	item, err := h.itemService.Update(ctx, tenantID, id, &update)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, item)
}

// DeactivateItem handles soft-deleting an inventory item
func (h *InventoryHandlers) DeactivateItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if err := h.itemService.Deactivate(ctx, tenantID, id); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate item")
	}

	return c.NoContent(http.StatusNoContent)
}

// SearchItems handles filtered item search
func (h *InventoryHandlers) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()

	var filter models.ItemSearchFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search filter")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	items, err := h.itemService.Search(ctx, tenantID, &filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

// LowStockItems handles the low-stock query
func (h *InventoryHandlers) LowStockItems(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	items, err := h.itemService.LowStock(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list low stock items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

// TotalValue handles the total inventory value aggregate
func (h *InventoryHandlers) TotalValue(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	value, err := h.itemService.TotalValue(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute inventory value")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"total_value": value})
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	QuantityChange float64 `json:"quantity_change" validate:"required"`
	Notes          *string `json:"notes"`
}

// AdjustStock handles manual stock corrections. Unlike order deduction this
// path hard-blocks adjustments that would make the quantity negative.
func (h *InventoryHandlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.QuantityChange == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Quantity change cannot be zero")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var userID *uuid.UUID
	if uid, ok := middleware.GetUserIDFromContext(ctx); ok {
		userID = &uid
	}

	txn, err := h.itemService.AdjustStock(ctx, tenantID, id, req.QuantityChange, req.Notes, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		case errors.Is(err, services.ErrNegativeStock):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to adjust stock")
		}
	}

	return c.JSON(http.StatusOK, txn)
}

// ListUnits returns the static unit conversion registry
func (h *InventoryHandlers) ListUnits(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"units": units.All()})
}
