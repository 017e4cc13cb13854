// Package middleware provides the shared echo middleware: bearer-token
// authentication and the register-endpoint rate limiter.
package middleware

import (
	"strings"

	"campus-events-api/core/constants"
	"campus-events-api/core/controller"
	"campus-events-api/core/errors"
	"campus-events-api/core/utils"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Middleware bundles the dependencies module routers need when wiring
// protected routes.
type Middleware struct {
	redis *redis.Client
}

func New(redisClient *redis.Client) *Middleware {
	return &Middleware{redis: redisClient}
}

// AuthMiddleware validates the Authorization header and stores the parsed
// TokenClaims in the request context. Business services never read ambient
// identity themselves; controllers pass caller id and role explicitly.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Missing authorization header")
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid authorization header format")
			}

			claims, err := utils.ParseToken(authHeader[len(bearerPrefix):])
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid token scope")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware parses the token when present but lets anonymous
// requests through. Used on public endpoints that decorate responses for a
// known viewer (event detail's is_registered / can_edit flags).
func (m *Middleware) OptionalAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if strings.HasPrefix(authHeader, bearerPrefix) {
				if claims, err := utils.ParseToken(authHeader[len(bearerPrefix):]); err == nil && claims.Scope == constants.ScopeTokenAccess {
					c.Set(constants.ContextTokenData, claims)
				}
			}
			return next(c)
		}
	}
}
