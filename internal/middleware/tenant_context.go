package middleware

import (
	"context"
	"net/http"

	"github.com/jainhardik06/Qrave-sub000/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTConfig builds the echo-jwt configuration used on protected routes.
// Signature validation happens here; claim extraction is TenantContext's job.
func JWTConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// TenantContext threads the tenant_id and user_id claims of the validated
// token into the request context. Every store call downstream requires the
// tenant from this context; full authentication and session management live
// outside this service.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			tenantClaim, ok := claims["tenant_id"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing tenant_id in token")
			}
			tenantID, err := uuid.Parse(tenantClaim)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid tenant_id format")
			}

			ctx := context.WithValue(c.Request().Context(), common.TenantIDKey, tenantID)

			if sub, ok := claims["sub"].(string); ok {
				if userID, err := uuid.Parse(sub); err == nil {
					ctx = context.WithValue(ctx, common.UserIDKey, userID)
				}
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetTenantIDFromContext extracts tenant ID from request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return common.GetTenantIDFromContext(ctx)
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return common.GetUserIDFromContext(ctx)
}
