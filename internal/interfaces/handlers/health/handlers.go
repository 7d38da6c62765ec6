package health

import (
	healthsvc "barterzone-backend/internal/application/health"
	"barterzone-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers serves the health endpoints.
type Handlers struct {
	Redis    *redis.Client
	DB       healthsvc.DBPinger
	AdminKey string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.Context(), h.Redis, h.DB)
	return c.JSON(result)
}

// Root GET / is a cheap liveness probe for load balancers.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": "barterzone-api"})
}

// Reset POST /health/reset clears the traffic counters. Requires the admin key.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.AdminKey == "" || c.Get("X-Admin-Key") != h.AdminKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	keys := []string{
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	}
	if h.Redis != nil {
		_ = h.Redis.Del(c.Context(), keys...).Err()
	}
	return c.JSON(fiber.Map{"status": "reset"})
}
