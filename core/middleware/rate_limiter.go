package middleware

import (
	"fmt"
	"net/http"
	"time"

	"campus-events-api/core/constants"
	"campus-events-api/core/controller"
	"campus-events-api/core/errors"
	"campus-events-api/core/logger"
	"campus-events-api/core/utils"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware limits each caller to `limit` requests per `window`
// using a fixed window counter in Redis. Keyed by user id when
// authenticated, client IP otherwise.
//
// Applied to the register endpoint so a misbehaving client cannot hammer
// the capacity transaction. The limiter fails open when Redis is down:
// registration correctness is guaranteed by the database transaction, the
// limiter only sheds load.
func (m *Middleware) RateLimitMiddleware(limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.redis == nil {
				return next(c)
			}

			key := "ratelimit:" + clientKey(c)
			ctx := c.Request().Context()

			count, err := m.redis.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("RateLimit:Redis:Error", "error", err)
				return next(c)
			}
			if count == 1 {
				m.redis.Expire(ctx, key, window)
			}
			if count > int64(limit) {
				return controller.NewErrorResponse(http.StatusTooManyRequests, errors.ErrConflict, "Too many requests, slow down")
			}
			return next(c)
		}
	}
}

func clientKey(c echo.Context) string {
	if v := c.Get(constants.ContextTokenData); v != nil {
		if claims, ok := v.(*utils.TokenClaims); ok {
			return fmt.Sprintf("user:%s", claims.UserID)
		}
	}
	return "ip:" + c.RealIP()
}
