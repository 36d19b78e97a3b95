package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandlers reports liveness of the service and its dependencies
type HealthHandlers struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewHealthHandlers(db *pgxpool.Pool, redisClient *redis.Client) *HealthHandlers {
	return &HealthHandlers{db: db, redis: redisClient}
}

// Health checks database and cache connectivity. Returns 503 when any
// dependency is unreachable so load balancers can rotate the instance out.
func (h *HealthHandlers) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	} else {
		checks["cache"] = "disabled"
	}

	return c.JSON(status, map[string]interface{}{
		"status":    http.StatusText(status),
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}
