package uploads

import (
	uploadsvc "barterzone-backend/internal/application/uploads"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers issues signed upload URLs for item images.
type Handlers struct {
	Service *uploadsvc.Service
}

// SignRequest carries the filename to upload.
type SignRequest struct {
	Filename string `json:"filename"`
}

// SignItemImage POST /api/v1/uploads/item-image
func (h *Handlers) SignItemImage(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var req SignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	res, err := h.Service.SignItemImageUpload(c.Context(), userID, req.Filename)
	if err != nil {
		switch err {
		case uploadsvc.ErrNoFile, uploadsvc.ErrBadType:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Failed to create upload URL", 500, nil)
		}
	}
	return response.Success(c, "Upload URL created", res, nil)
}
