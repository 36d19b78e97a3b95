package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type InventoryItemRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool, limit, offset int) ([]*models.InventoryItem, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error)
	TotalValue(ctx context.Context, tenantID uuid.UUID) (float64, error)
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)

	// ApplyStockMutation performs the read-modify-write on current_quantity
	// and the paired ledger append as one database transaction, holding a row
	// lock on the item so concurrent mutations of the same item cannot lose
	// updates. Returns ErrInsufficientStock when the resulting quantity would
	// be negative.
	ApplyStockMutation(ctx context.Context, tenantID uuid.UUID, m *models.StockMutation) (*models.InventoryTransaction, error)
}

type inventoryItemRepo struct {
	db *pgxpool.Pool
}

func NewInventoryItemRepo(db *pgxpool.Pool) InventoryItemRepository {
	return &inventoryItemRepo{db: db}
}

const itemColumns = `id, tenant_id, name, sku, unit, cost_per_unit, current_quantity, reorder_level, reorder_quantity, restocking_quantity, category, storage_location, active, created_at, updated_at`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.TenantID, &item.Name, &item.SKU, &item.Unit,
		&item.CostPerUnit, &item.CurrentQuantity, &item.ReorderLevel, &item.ReorderQuantity,
		&item.RestockingQuantity, &item.Category, &item.StorageLocation, &item.Active,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *inventoryItemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.Name, item.SKU, item.Unit,
		item.CostPerUnit, item.CurrentQuantity, item.ReorderLevel, item.ReorderQuantity,
		item.RestockingQuantity, item.Category, item.StorageLocation, item.Active)
	return err
}

func (r *inventoryItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1 AND id = $2`
	return scanItem(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *inventoryItemRepo) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.InventoryItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*models.InventoryItem{}, nil
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID]*models.InventoryItem, len(ids))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

// Update writes the mutable item fields. current_quantity is deliberately
// excluded: stock only moves through ApplyStockMutation.
func (r *inventoryItemRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, unit = $2, cost_per_unit = $3, reorder_level = $4, reorder_quantity = $5,
			restocking_quantity = $6, category = $7, storage_location = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Unit, item.CostPerUnit,
		item.ReorderLevel, item.ReorderQuantity, item.RestockingQuantity,
		item.Category, item.StorageLocation, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *inventoryItemRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE inventory_items SET active = false, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *inventoryItemRepo) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool, limit, offset int) ([]*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1`
	if !includeInactive {
		query += ` AND active = true`
	}
	query += ` ORDER BY name ASC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

// Search performs filtered item search with dynamic WHERE building
func (r *inventoryItemRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "name"
	}

	queryBase := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	conditionCount := 1

	if !filter.IncludeInactive {
		queryBase += ` AND active = true`
	}

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d OR category ILIKE $%d)`,
			conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Category != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}
	if filter.StorageLocation != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND storage_location = $%d`, conditionCount)
		args = append(args, *filter.StorageLocation)
	}
	if filter.MinQuantity != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND current_quantity >= $%d`, conditionCount)
		args = append(args, *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND current_quantity <= $%d`, conditionCount)
		args = append(args, *filter.MaxQuantity)
	}
	if filter.LowStockOnly {
		queryBase += ` AND current_quantity <= reorder_level`
	}

	sortField := "name"
	switch filter.SortBy {
	case "sku":
		sortField = "sku"
	case "current_quantity":
		sortField = "current_quantity"
	case "updated_at":
		sortField = "updated_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *inventoryItemRepo) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND active = true AND current_quantity <= reorder_level
		ORDER BY current_quantity ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *inventoryItemRepo) TotalValue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(current_quantity * cost_per_unit), 0)
		FROM inventory_items
		WHERE tenant_id = $1 AND active = true
	`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&total)
	return total, err
}

// TenantIDs lists tenants with inventory, for background scans.
func (r *inventoryItemRepo) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT tenant_id FROM inventory_items`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *inventoryItemRepo) ApplyStockMutation(ctx context.Context, tenantID uuid.UUID, m *models.StockMutation) (*models.InventoryTransaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var before, after float64
	var unit string
	lockQuery := `
		SELECT current_quantity, unit
		FROM inventory_items
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, lockQuery, tenantID, m.ItemID).Scan(&before, &unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	after = before + m.QuantityChange
	if after < 0 {
		return nil, fmt.Errorf("%w: required %g %s, available %g %s",
			ErrInsufficientStock, -m.QuantityChange, unit, before, unit)
	}

	updateQuery := `UPDATE inventory_items SET current_quantity = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	if _, err := tx.Exec(ctx, updateQuery, after, tenantID, m.ItemID); err != nil {
		return nil, err
	}

	txn := &models.InventoryTransaction{
		ID:              uuid.New(),
		TenantID:        tenantID,
		ItemID:          m.ItemID,
		TransactionType: m.TransactionType,
		QuantityChange:  m.QuantityChange,
		QuantityBefore:  before,
		QuantityAfter:   after,
		Reason:          m.Reason,
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		Notes:           m.Notes,
	}
	insertQuery := `
		INSERT INTO inventory_transactions (id, tenant_id, item_id, transaction_type, quantity_change, quantity_before, quantity_after, reason, order_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insertQuery, txn.ID, txn.TenantID, txn.ItemID, txn.TransactionType,
		txn.QuantityChange, txn.QuantityBefore, txn.QuantityAfter, txn.Reason,
		txn.OrderID, txn.UserID, txn.Notes).Scan(&txn.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return txn, nil
}

func collectItems(rows pgx.Rows) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
