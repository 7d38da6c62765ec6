package middleware

import (
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResponseFormatter puts the envelope helpers from internal/pkg/response into
// Locals, keeping ad-hoc handlers on the same JSON shape as the rest.
func ResponseFormatter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("response_success", func(msg string, data interface{}, meta interface{}) error {
			return response.Success(c, msg, data, meta)
		})
		c.Locals("response_success_created", func(msg string, data interface{}, meta interface{}) error {
			return response.SuccessCreated(c, msg, data, meta)
		})
		c.Locals("response_error", func(msg string, code int, details interface{}) error {
			return response.Error(c, msg, code, details)
		})
		return c.Next()
	}
}
