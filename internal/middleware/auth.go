package middleware

import (
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// SessionUserID parses the session user's id. Returns uuid.Nil when the
// session has no valid user (callers behind RequireAuth treat that as 401).
func SessionUserID(c *fiber.Ctx) uuid.UUID {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// SessionUserRole returns the session user's role ("" if not logged in).
func SessionUserRole(c *fiber.Ctx) string {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return ""
	}
	r, _ := m["role"].(string)
	return r
}
