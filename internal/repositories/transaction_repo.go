package repositories

import (
	"context"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository reads the append-only inventory ledger. Rows are
// written only by InventoryItemRepository.ApplyStockMutation; there is no
// update or delete in the public contract.
type TransactionRepository interface {
	ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error)
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.InventoryTransaction, error)
	ListByType(ctx context.Context, tenantID uuid.UUID, transactionType string, limit, offset int) ([]*models.InventoryTransaction, error)
}

// ledgerQuerier is the read surface the ledger needs; satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type ledgerQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type transactionRepo struct {
	db ledgerQuerier
}

func NewTransactionRepo(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

func newTransactionRepoWithQuerier(db ledgerQuerier) TransactionRepository {
	return &transactionRepo{db: db}
}

const transactionColumns = `id, tenant_id, item_id, transaction_type, quantity_change, quantity_before, quantity_after, reason, order_id, user_id, notes, created_at`

func (r *transactionRepo) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepo) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepo) ListByType(ctx context.Context, tenantID uuid.UUID, transactionType string, limit, offset int) ([]*models.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1 AND transaction_type = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, transactionType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*models.InventoryTransaction, error) {
	var txns []*models.InventoryTransaction
	for rows.Next() {
		txn := &models.InventoryTransaction{}
		if err := rows.Scan(&txn.ID, &txn.TenantID, &txn.ItemID, &txn.TransactionType,
			&txn.QuantityChange, &txn.QuantityBefore, &txn.QuantityAfter, &txn.Reason,
			&txn.OrderID, &txn.UserID, &txn.Notes, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
