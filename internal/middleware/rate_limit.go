package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/hris-go-api/internal/utils"
)

// RateLimit throttles a route group per tenant and user. Anonymous callers are keyed by IP.
func RateLimit(scope string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}
	retryAfter := strconv.Itoa(int(window.Round(time.Second) / time.Second))

	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: func(c *fiber.Ctx) string { return rateLimitKey(scope, c) },
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return utils.SendError(c, fiber.StatusTooManyRequests, "too many requests")
		},
	})
}

func rateLimitKey(scope string, c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(uint)
	companyID, _ := c.Locals("company_id").(uint)
	if userID == 0 {
		return scope + ":ip:" + c.IP()
	}
	return scope + ":" + strconv.FormatUint(uint64(companyID), 10) + ":" + strconv.FormatUint(uint64(userID), 10)
}
