package handlers

import (
	"errors"
	"net/http"

	"github.com/jainhardik06/Qrave-sub000/internal/middleware"
	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RestockingHandlers handles restocking template HTTP requests
type RestockingHandlers struct {
	restockingService services.RestockingService
}

func NewRestockingHandlers(restockingService services.RestockingService) *RestockingHandlers {
	return &RestockingHandlers{restockingService: restockingService}
}

// RestockingArmyItemRequest is an {item, quantity} pair in a template payload.
// Name, SKU and unit are snapshotted server-side, never taken from the client.
type RestockingArmyItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity float64   `json:"quantity" validate:"required"`
}

// CreateArmyRequest represents a restocking template create/update payload
type CreateArmyRequest struct {
	Name        string                      `json:"name" validate:"required"`
	Description *string                     `json:"description"`
	Items       []RestockingArmyItemRequest `json:"items" validate:"required"`
}

func (r *CreateArmyRequest) toModel() *models.RestockingArmy {
	army := &models.RestockingArmy{
		Name:        r.Name,
		Description: r.Description,
	}
	for _, item := range r.Items {
		army.Items = append(army.Items, models.RestockingArmyItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}
	return army
}

// CreateArmy handles creating a restocking template
func (h *RestockingHandlers) CreateArmy(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateArmyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	army := req.toModel()
	if err := h.restockingService.Create(ctx, tenantID, army); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, army)
}

// UpdateArmy handles replacing a restocking template's name and items
func (h *RestockingHandlers) UpdateArmy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid army ID")
	}

	var req CreateArmyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	army := req.toModel()
	army.ID = id
	if err := h.restockingService.Update(ctx, tenantID, army); err != nil {
		if errors.Is(err, services.ErrArmyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Restocking army not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, army)
}

// GetArmy handles getting a single restocking template
func (h *RestockingHandlers) GetArmy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid army ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	army, err := h.restockingService.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, services.ErrArmyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Restocking army not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get restocking army")
	}

	return c.JSON(http.StatusOK, army)
}

// ListArmies handles the lightweight template summary listing
func (h *RestockingHandlers) ListArmies(c echo.Context) error {
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

	summaries, err := h.restockingService.Summary(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list restocking armies")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"armies": summaries,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// ExecuteArmy handles running a template. Partial failures come back in the
// result body with a 200, not an error status.
func (h *RestockingHandlers) ExecuteArmy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid army ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var userID *uuid.UUID
	if uid, ok := middleware.GetUserIDFromContext(ctx); ok {
		userID = &uid
	}

	result, err := h.restockingService.Execute(ctx, tenantID, id, userID)
	if err != nil {
		if errors.Is(err, services.ErrArmyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Restocking army not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to execute restocking army")
	}

	return c.JSON(http.StatusOK, result)
}

// DeactivateArmy handles soft-deleting a restocking template
func (h *RestockingHandlers) DeactivateArmy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid army ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if err := h.restockingService.Deactivate(ctx, tenantID, id); err != nil {
		if errors.Is(err, services.ErrArmyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Restocking army not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate restocking army")
	}

	return c.NoContent(http.StatusNoContent)
}
