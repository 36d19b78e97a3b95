package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	UpdateInventoryStatus(ctx context.Context, tenantID, id uuid.UUID, inventoryStatus string) error

	// Cancel transitions the order to cancelled only if it is not cancelled
	// already. Returns false when another caller won the transition, so
	// exactly one of two concurrent cancellations runs the refund pass.
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order lines: %w", err)
	}
	query := `
		INSERT INTO orders (id, tenant_id, consumer_id, lines, status, inventory_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, order.ID, order.TenantID, order.ConsumerID,
		lines, order.Status, order.InventoryStatus, order.Notes)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, tenant_id, consumer_id, lines, status, inventory_status, notes, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND id = $2
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, tenant_id, consumer_id, lines, status, inventory_status, notes, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) Cancel(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3 AND status <> $1`
	tag, err := r.db.Exec(ctx, query, models.OrderStatusCancelled, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepo) UpdateInventoryStatus(ctx context.Context, tenantID, id uuid.UUID, inventoryStatus string) error {
	query := `UPDATE orders SET inventory_status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, inventoryStatus, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var lines []byte
	err := row.Scan(&order.ID, &order.TenantID, &order.ConsumerID, &lines,
		&order.Status, &order.InventoryStatus, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &order.Lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order lines: %w", err)
		}
	}
	return order, nil
}
