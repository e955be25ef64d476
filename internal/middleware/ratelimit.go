package middleware

import (
	"prequity/internal/services/ratelimit"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// RateLimit returns a middleware enforcing the given action class for
// the authenticated actor. Must run after AuthMiddleware.Handler so the
// actor identity is resolved; each action class counts independently.
func RateLimit(limiter *ratelimit.Limiter, action ratelimit.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			// Auth middleware did not run; limit nothing rather than
			// key every anonymous request to actor zero.
			return c.Next()
		}
		if err := limiter.Allow(c.Context(), claims.UserID, claims.Role, action); err != nil {
			return response.DomainError(c, err)
		}
		return c.Next()
	}
}
