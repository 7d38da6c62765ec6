package users

import (
	usersvc "barterzone-backend/internal/application/users"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *usersvc.Service
}

// GetProfile GET /api/v1/users/profile — own profile, read fresh from the DB.
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.GetUser(c.Context(), userID)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Profile fetched successfully", u, nil)
}

// UpdateProfile PUT /api/v1/users/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	u, err := h.Service.UpdateProfile(c.Context(), userID, fields)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Profile updated successfully", u, nil)
}

// ViewUser GET /api/v1/users/:user_id — another trader's public profile.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user_id format", 400, nil)
	}
	p, err := h.Service.GetPublicProfile(c.Context(), id)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User fetched successfully", p, nil)
}
