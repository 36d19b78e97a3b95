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

var ErrArmyNotFound = errors.New("restocking army not found")

type RestockingArmyRepository interface {
	Create(ctx context.Context, army *models.RestockingArmy) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestockingArmy, error)
	Update(ctx context.Context, army *models.RestockingArmy) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmy, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type restockingArmyRepo struct {
	db *pgxpool.Pool
}

func NewRestockingArmyRepo(db *pgxpool.Pool) RestockingArmyRepository {
	return &restockingArmyRepo{db: db}
}

func (r *restockingArmyRepo) Create(ctx context.Context, army *models.RestockingArmy) error {
	items, err := json.Marshal(army.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal army items: %w", err)
	}
	query := `
		INSERT INTO restocking_armies (id, tenant_id, name, description, items, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, army.ID, army.TenantID, army.Name, army.Description, items, army.Active)
	return err
}

func (r *restockingArmyRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestockingArmy, error) {
	query := `
		SELECT id, tenant_id, name, description, items, active, created_at, updated_at
		FROM restocking_armies
		WHERE tenant_id = $1 AND id = $2
	`
	army, err := scanArmy(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArmyNotFound
		}
		return nil, err
	}
	return army, nil
}

func (r *restockingArmyRepo) Update(ctx context.Context, army *models.RestockingArmy) error {
	items, err := json.Marshal(army.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal army items: %w", err)
	}
	query := `
		UPDATE restocking_armies
		SET name = $1, description = $2, items = $3, active = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, army.Name, army.Description, items, army.Active, army.TenantID, army.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArmyNotFound
	}
	return nil
}

func (r *restockingArmyRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RestockingArmy, error) {
	query := `
		SELECT id, tenant_id, name, description, items, active, created_at, updated_at
		FROM restocking_armies
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var armies []*models.RestockingArmy
	for rows.Next() {
		army, err := scanArmy(rows)
		if err != nil {
			return nil, err
		}
		armies = append(armies, army)
	}
	return armies, rows.Err()
}

func (r *restockingArmyRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE restocking_armies SET active = false, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArmyNotFound
	}
	return nil
}

func scanArmy(row pgx.Row) (*models.RestockingArmy, error) {
	army := &models.RestockingArmy{}
	var items []byte
	err := row.Scan(&army.ID, &army.TenantID, &army.Name, &army.Description,
		&items, &army.Active, &army.CreatedAt, &army.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &army.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal army items: %w", err)
		}
	}
	return army, nil
}
