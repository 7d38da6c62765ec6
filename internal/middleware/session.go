package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed session cookie.
type SessionConfig struct {
	Secret            string
	RedisURL          string
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "bz.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

// SessionUser is the shape stored in session under "user".
type SessionUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session returns a Fiber middleware that loads the session blob from Redis
// into Locals before the handler and writes it back after.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)

	return func(c *fiber.Ctx) error {
		sessionID := parseSessionCookie(c.Cookies(SessionCookieName))
		data := loadSession(rdb, sessionID)

		c.Locals("session_data", data)
		if u, ok := data["user"]; ok {
			c.Locals("user", u)
		} else {
			c.Locals("user", nil)
		}
		c.Locals("session_id", sessionID)

		if err := c.Next(); err != nil {
			return err
		}

		// Handlers may have regenerated the id or mutated session_data.
		if sid, _ := c.Locals("session_id").(string); sid != "" {
			if updated, _ := c.Locals("session_data").(map[string]interface{}); updated != nil {
				b, _ := json.Marshal(updated)
				rdb.Set(context.Background(), SessionRedisPrefix+sid, b, sessionMaxAge)
			}
		}
		return nil
	}, rdb, nil
}

// parseSessionCookie extracts the raw id from a cookie value of the form
// "s:<id>" or "s:<id>.<signature>".
func parseSessionCookie(raw string) string {
	if !strings.HasPrefix(raw, "s:") {
		return raw
	}
	id, _, _ := strings.Cut(raw[2:], ".")
	return id
}

func loadSession(rdb *redis.Client, sessionID string) map[string]interface{} {
	data := make(map[string]interface{})
	if sessionID == "" {
		return data
	}
	b, err := rdb.Get(context.Background(), SessionRedisPrefix+sessionID).Bytes()
	if err == nil {
		_ = json.Unmarshal(b, &data)
	}
	return data
}

// GetSessionID returns the current session ID from context (for login/logout).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// SetSessionUser sets the user in the session and marks session for save.
// Call after login/register; use RegenerateSessionID first to get a new id.
func SetSessionUser(c *fiber.Ctx, user SessionUser) {
	data, _ := c.Locals("session_data").(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
	}
	data["user"] = map[string]interface{}{
		"user_id":  user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
	c.Locals("session_data", data)
	c.Locals("user", data["user"])
}

// RegenerateSessionID creates a new session ID and sets it in Locals (cookie set by handler).
// Cookie value should be "s:"+returned ID.
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals("session_id", newID)
	return newID
}

// DestroySession clears user and session data from Locals; caller must clear cookie and Redis.
func DestroySession(c *fiber.Ctx) {
	c.Locals("session_data", make(map[string]interface{}))
	c.Locals("user", nil)
}

// SessionCookieConfig returns cookie options for SetCookie/ClearCookie.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	return fiber.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction && cfg.AllowCrossSiteDev,
		SameSite: sameSite,
	}
}
