package services

import (
	"context"
	"errors"

	"github.com/jainhardik06/Qrave-sub000/internal/models"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/google/uuid"
)

// TransactionService exposes read access to the inventory ledger: the
// per-item audit trail and per-order transaction history.
type TransactionService interface {
	GetItemHistory(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	GetTenantHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	GetOrderTransactions(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.InventoryTransaction, error)
	GetByType(ctx context.Context, tenantID uuid.UUID, transactionType string, limit, offset int) ([]*models.InventoryTransaction, error)
}

type transactionService struct {
	transactionRepo repositories.TransactionRepository
}

func NewTransactionService(transactionRepo repositories.TransactionRepository) TransactionService {
	return &transactionService{transactionRepo: transactionRepo}
}

func (s *transactionService) GetItemHistory(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	return s.transactionRepo.ListByItem(ctx, tenantID, itemID, limit, offset)
}

func (s *transactionService) GetTenantHistory(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	return s.transactionRepo.ListByTenant(ctx, tenantID, limit, offset)
}

func (s *transactionService) GetOrderTransactions(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.InventoryTransaction, error) {
	return s.transactionRepo.ListByOrder(ctx, tenantID, orderID)
}

func (s *transactionService) GetByType(ctx context.Context, tenantID uuid.UUID, transactionType string, limit, offset int) ([]*models.InventoryTransaction, error) {
	switch transactionType {
	case models.TransactionUsage, models.TransactionAdjustment, models.TransactionRestock:
	default:
		return nil, errors.New("unknown transaction type")
	}
	return s.transactionRepo.ListByType(ctx, tenantID, transactionType, limit, offset)
}
