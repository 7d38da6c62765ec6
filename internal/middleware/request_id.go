package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDLocal  = "request_id"
)

// RequestID tags every request with an id for log correlation. An inbound
// X-Request-Id from a trusted proxy is kept; otherwise a fresh uuid is issued.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Locals(requestIDLocal, id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside the chain.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}
