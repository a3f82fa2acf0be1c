package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "cyberquiz_backend/internals/helpers"
)

func ipLimiter(limit int, window time.Duration, message string) fiber.Handler {
	if limit <= 0 {
		limit = 1
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// GlobalRateLimiter guards every /api endpoint with limit requests per IP per minute.
func GlobalRateLimiter(limit int) fiber.Handler {
	return ipLimiter(limit, time.Minute, "too many requests, try again later")
}

// AnswerRateLimiter is the stricter limit on answer submission.
func AnswerRateLimiter(limit int) fiber.Handler {
	return ipLimiter(limit/2, time.Minute, "too many answers, slow down a little")
}
