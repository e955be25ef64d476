// Package response standardizes JSON response envelopes. Successes are
// `{success:true, data:...}`; failures carry the typed error body from
// internal/errors so clients can branch on the `type` field.
package response

import (
	"log"
	"strconv"

	apperrors "prequity/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// DomainError writes the typed error body. Non-domain errors are logged
// server-side and collapse to the opaque INTERNAL error; stack detail
// never reaches the client.
func DomainError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if de, ok := err.(*apperrors.DomainError); ok {
		domainErr = de
	} else {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		domainErr = apperrors.ErrInternal
	}

	body := fiber.Map{
		"success": false,
		"type":    domainErr.Code,
		"error":   domainErr.Message,
	}
	if domainErr.Retryable {
		body["retryable"] = true
	}
	if domainErr.RetryAfter > 0 {
		body["retry_after"] = domainErr.RetryAfter
		c.Set("Retry-After", strconv.Itoa(domainErr.RetryAfter))
	}
	return c.Status(domainErr.Status).JSON(body)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"type":    "BAD_REQUEST",
		"error":   message,
	})
}
