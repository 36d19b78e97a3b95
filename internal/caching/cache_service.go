package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jainhardik06/Qrave-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Inventory item caching
	GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.InventoryItem, error)
	SetItem(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem, ttl time.Duration) error
	DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error

	// Dish availability caching
	GetAvailability(ctx context.Context, tenantID, dishID uuid.UUID) (*models.DishAvailability, error)
	SetAvailability(ctx context.Context, tenantID uuid.UUID, availability *models.DishAvailability, ttl time.Duration) error
	DeleteAvailability(ctx context.Context, tenantID, dishID uuid.UUID) error

	// Analytics caching
	GetInventoryValue(ctx context.Context, tenantID uuid.UUID) (float64, bool, error)
	SetInventoryValue(ctx context.Context, tenantID uuid.UUID, value float64, ttl time.Duration) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheServiceFromClient wraps an existing client, letting callers
// share one connection between caching and health checks.
func NewRedisCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.InventoryItem, error) {
	key := fmt.Sprintf("qrave:item:%s:%s", tenantID.String(), itemID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.InventoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem, ttl time.Duration) error {
	key := fmt.Sprintf("qrave:item:%s:%s", tenantID.String(), item.ID.String())
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	key := fmt.Sprintf("qrave:item:%s:%s", tenantID.String(), itemID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetAvailability(ctx context.Context, tenantID, dishID uuid.UUID) (*models.DishAvailability, error) {
	key := fmt.Sprintf("qrave:availability:%s:%s", tenantID.String(), dishID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var availability models.DishAvailability
	if err := json.Unmarshal(data, &availability); err != nil {
		return nil, err
	}
	return &availability, nil
}

func (r *redisCacheService) SetAvailability(ctx context.Context, tenantID uuid.UUID, availability *models.DishAvailability, ttl time.Duration) error {
	key := fmt.Sprintf("qrave:availability:%s:%s", tenantID.String(), availability.DishID.String())
	data, err := json.Marshal(availability)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteAvailability(ctx context.Context, tenantID, dishID uuid.UUID) error {
	key := fmt.Sprintf("qrave:availability:%s:%s", tenantID.String(), dishID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetInventoryValue(ctx context.Context, tenantID uuid.UUID) (float64, bool, error) {
	key := fmt.Sprintf("qrave:analytics:value:%s", tenantID.String())
	value, err := r.client.Get(ctx, key).Float64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return value, true, nil
}

func (r *redisCacheService) SetInventoryValue(ctx context.Context, tenantID uuid.UUID, value float64, ttl time.Duration) error {
	key := fmt.Sprintf("qrave:analytics:value:%s", tenantID.String())
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("qrave:*:%s:*", tenantID.String())
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
