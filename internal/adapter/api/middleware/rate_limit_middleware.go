package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"sheworks/pkg/logger"
	"sheworks/pkg/response"
)

// QuotaChecker charges one request against identity's translation quota.
type QuotaChecker interface {
	CheckRateLimit(ctx context.Context, identity string) error
}

// TranslationRateLimit throttles per authenticated participant, or per client
// IP when the route is public.
func TranslationRateLimit(checker QuotaChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := UID(c)
			if identity == "" {
				identity = c.RealIP()
			}

			if err := checker.CheckRateLimit(c.Request().Context(), identity); err != nil {
				logger.Warn("RATE LIMIT: translation quota exhausted for %s", identity)
				return response.Error(c, err)
			}

			return next(c)
		}
	}
}
