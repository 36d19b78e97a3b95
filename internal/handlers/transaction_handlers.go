package handlers

import (
	"net/http"

	"github.com/jainhardik06/Qrave-sub000/internal/middleware"
	"github.com/jainhardik06/Qrave-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandlers exposes the read-only inventory ledger
type TransactionHandlers struct {
	transactionService services.TransactionService
}

func NewTransactionHandlers(transactionService services.TransactionService) *TransactionHandlers {
	return &TransactionHandlers{transactionService: transactionService}
}

type transactionListRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Type   string `query:"type"`
}

func (r *transactionListRequest) normalize() {
	if r.Limit <= 0 {
		r.Limit = 10
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// ListTransactions handles the tenant-wide ledger, newest first. An optional
// type filter narrows it to usage, adjustment or restock rows.
func (h *TransactionHandlers) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	var req transactionListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.normalize()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var (
		transactions interface{}
		err          error
	)
	if req.Type != "" {
		transactions, err = h.transactionService.GetByType(ctx, tenantID, req.Type, req.Limit, req.Offset)
	} else {
		transactions, err = h.transactionService.GetTenantHistory(ctx, tenantID, req.Limit, req.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"limit":        req.Limit,
		"offset":       req.Offset,
	})
}

// ItemHistory handles the per-item audit trail
func (h *TransactionHandlers) ItemHistory(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var req transactionListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.normalize()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	transactions, err := h.transactionService.GetItemHistory(ctx, tenantID, itemID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get item history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"limit":        req.Limit,
		"offset":       req.Offset,
	})
}

// OrderTransactions handles listing every ledger row written for an order
func (h *TransactionHandlers) OrderTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	transactions, err := h.transactionService.GetOrderTransactions(ctx, tenantID, orderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get order transactions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"transactions": transactions})
}
