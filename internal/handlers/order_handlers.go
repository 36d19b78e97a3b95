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

// OrderHandlers handles order HTTP requests. Orders are the trigger surface
// for the inventory deduction engine.
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	ConsumerID *uuid.UUID         `json:"consumer_id"`
	Lines      []models.OrderLine `json:"lines" validate:"required"`
	Notes      *string            `json:"notes"`
}

// CreateOrder handles order creation. The response carries the order plus the
// per-ingredient deduction report; a shortfall never fails the request.
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var userID *uuid.UUID
	if uid, ok := middleware.GetUserIDFromContext(ctx); ok {
		userID = &uid
	}

	order := &models.Order{
		ConsumerID: req.ConsumerID,
		Lines:      req.Lines,
		Notes:      req.Notes,
	}
	report, err := h.orderService.CreateOrder(ctx, tenantID, order, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order":            order,
		"deduction_report": report,
	})
}

// GetOrder handles getting a single order
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	order, err := h.orderService.GetOrder(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get order")
	}

	return c.JSON(http.StatusOK, order)
}

// ListOrders handles a paginated order listing, newest first
func (h *OrderHandlers) ListOrders(c echo.Context) error {
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

	orders, err := h.orderService.ListOrders(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// UpdateOrderStatusRequest represents an order status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus handles status transitions. Moving into cancelled runs
// the refund pass; cancelling an already-cancelled order is a no-op.
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	var userID *uuid.UUID
	if uid, ok := middleware.GetUserIDFromContext(ctx); ok {
		userID = &uid
	}

	order, err := h.orderService.UpdateStatus(ctx, tenantID, id, req.Status, userID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}
