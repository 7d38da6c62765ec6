package items

import (
	itemsvc "barterzone-backend/internal/application/items"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *itemsvc.Service
}

// CreateItem POST /api/v1/items/create-item
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var in itemsvc.CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	item, err := h.Service.CreateItem(c.Context(), userID, in)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Item listed successfully", item, nil)
}

// EditItem PUT /api/v1/items/edit-item/:item_id
func (h *Handlers) EditItem(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", 400, nil)
	}
	var in itemsvc.CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	item, err := h.Service.EditItem(c.Context(), userID, itemID, in)
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, "Item updated successfully", item, nil)
}

// DeleteItem DELETE /api/v1/items/delete-item/:item_id
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", 400, nil)
	}
	if err := h.Service.DeleteItem(c.Context(), userID, itemID); err != nil {
		return itemError(c, err)
	}
	return response.Success(c, "Item deleted successfully", nil, nil)
}

// GetMyItems GET /api/v1/items/my-items
func (h *Handlers) GetMyItems(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	items, err := h.Service.GetMyItems(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Items fetched successfully", items, nil)
}

// GetAvailableItems GET /api/v1/items/available — other traders' available items.
func (h *Handlers) GetAvailableItems(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	items, err := h.Service.GetAvailableItems(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Items fetched successfully", items, nil)
}

// SearchItems GET /api/v1/items/search?q=
func (h *Handlers) SearchItems(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	items, err := h.Service.SearchItems(c.Context(), userID, c.Query("q"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Items fetched successfully", items, nil)
}

// GetItem GET /api/v1/items/:item_id
func (h *Handlers) GetItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id format", 400, nil)
	}
	item, err := h.Service.GetItem(c.Context(), itemID)
	if err != nil {
		return itemError(c, err)
	}
	return response.Success(c, "Item fetched successfully", item, nil)
}

func itemError(c *fiber.Ctx, err error) error {
	switch err {
	case itemsvc.ErrItemNotFound:
		return response.NotFound(c, err.Error())
	case itemsvc.ErrNotOwner:
		return response.Error(c, err.Error(), 403, nil)
	case itemsvc.ErrItemBound:
		return response.Error(c, err.Error(), 409, nil)
	default:
		return response.Error(c, err.Error(), 400, nil)
	}
}
