package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig lists the browser origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowedOrigins []string
	Development    bool
}

// CORS allows requests from the configured origins, plus localhost in
// development. Cookies ride along, so the origin is echoed back verbatim
// rather than wildcarded.
func CORS(cfg CORSConfig) fiber.Handler {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}

		if !originAllowed(allowed, origin, cfg.Development) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error": fiber.Map{
					"message":    "Not allowed by CORS",
					"statusCode": 403,
					"details":    fiber.Map{},
				},
			})
		}

		c.Set("Access-Control-Allow-Origin", origin)
		c.Set("Access-Control-Allow-Credentials", "true")
		c.Set("Access-Control-Allow-Headers", "Content-Type")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func originAllowed(allowed map[string]struct{}, origin string, dev bool) bool {
	o := strings.TrimRight(strings.ToLower(origin), "/")
	if _, ok := allowed[o]; ok {
		return true
	}
	if dev && (strings.HasPrefix(o, "http://localhost:") || strings.HasPrefix(o, "http://127.0.0.1:")) {
		return true
	}
	return false
}
