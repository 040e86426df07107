package middleware

import (
	"strconv"

	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/ratelimit"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// RateLimitByIP consumes one slot from the limiter, keyed by scope and the
// originating IP, before the protected handler runs. Exhaustion answers 429
// with the window remainder in both the body and the Retry-After header.
func RateLimitByIP(limiter ratelimit.Limiter, scope string, policy config.RateLimitPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := limiter.Allow(scope+":ip:"+c.IP(), policy.Limit, policy.Window)
		if !res.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(res.RetryAfter))
			return utils.AppErrorResponse(c, types.RateLimitError(res.RetryAfter))
		}
		return c.Next()
	}
}

// AllowEmail consumes from an email-keyed window inside a handler, for
// endpoints that gate on IP and normalized email independently.
func AllowEmail(limiter ratelimit.Limiter, scope, email string, policy config.RateLimitPolicy) *types.AppError {
	res := limiter.Allow(scope+":email:"+email, policy.Limit, policy.Window)
	if !res.Allowed {
		return types.RateLimitError(res.RetryAfter)
	}
	return nil
}
