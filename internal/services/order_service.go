package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
)

var ErrOrderNotFound = repositories.ErrOrderNotFound

// OrderService is the order lifecycle source for the deduction engine. Order
// creation always succeeds at the order-record level; inventory shortfalls
// surface only through the deduction report, the ledger and low-stock
// queries, never through this API's error channel.
type OrderService interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, order *models.Order, userID *uuid.UUID) (*models.DeductionReport, error)
	GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error)

	// UpdateStatus transitions the order. Cancelling an already-cancelled
	// order is a no-op returning the existing state unchanged; the refund
	// pass runs only on the first transition into cancelled.
	UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, newStatus string, userID *uuid.UUID) (*models.Order, error)
}

type orderService struct {
	orderRepo        repositories.OrderRepository
	deductionService DeductionService
}

func NewOrderService(orderRepo repositories.OrderRepository, deductionService DeductionService) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		deductionService: deductionService,
	}
}

func validStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

func (s *orderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, order *models.Order, userID *uuid.UUID) (*models.DeductionReport, error) {
	if len(order.Lines) == 0 {
		return nil, errors.New("order must have at least one line")
	}
	for _, line := range order.Lines {
		if line.DishID == uuid.Nil {
			return nil, errors.New("order line dish ID is required")
		}
		if line.Quantity <= 0 {
			return nil, errors.New("order line quantity must be positive")
		}
	}

	order.ID = uuid.New()
	order.TenantID = tenantID
	order.Status = models.OrderStatusPending
	order.InventoryStatus = models.InventoryStatusComplete

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Best-effort deduction: a partial-failure order is still created and
	// returned to the caller
	report := s.deductionService.OnOrderCreated(ctx, tenantID, order, userID)
	order.InventoryStatus = report.InventoryStatus()
	if err := s.orderRepo.UpdateInventoryStatus(ctx, tenantID, order.ID, order.InventoryStatus); err != nil {
		log.Printf("Failed to stamp inventory status on order %s: %v", order.ID.String(), err)
	}
	return report, nil
}

func (s *orderService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, tenantID, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.List(ctx, tenantID, limit, offset)
}

func (s *orderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, newStatus string, userID *uuid.UUID) (*models.Order, error) {
	if !validStatus(newStatus) {
		return nil, fmt.Errorf("unknown order status %q", newStatus)
	}

	order, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if newStatus == models.OrderStatusCancelled {
		if order.Status == models.OrderStatusCancelled {
			// Idempotent: no new transactions, state returned unchanged
			return order, nil
		}
		// Conditional transition: the row update only succeeds for one of two
		// racing cancellations, and only the winner runs the refund pass
		won, err := s.orderRepo.Cancel(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}
		order.Status = models.OrderStatusCancelled
		if !won {
			return order, nil
		}
		// Refund failures are logged but never revert the status change
		if err := s.deductionService.OnOrderCancelled(ctx, tenantID, orderID, userID); err != nil {
			log.Printf("Refund pass failed for order %s: %v", orderID.String(), err)
		}
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, tenantID, orderID, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus
	return order, nil
}
