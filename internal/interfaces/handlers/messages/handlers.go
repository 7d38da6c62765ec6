package messages

import (
	msgsvc "barterzone-backend/internal/application/messages"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *msgsvc.Service
}

// SendRequest is the send-message body.
type SendRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

// Send POST /api/v1/messages/send
func (h *Handlers) Send(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return response.Error(c, "recipient_id is required", 400, nil)
	}
	m, err := h.Service.Send(c.Context(), userID, recipientID, req.Body)
	if err != nil {
		switch err {
		case msgsvc.ErrUserNotFound:
			return response.NotFound(c, err.Error())
		case msgsvc.ErrEmptyBody, msgsvc.ErrSelfMessage:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Message sent", m, nil)
}

// Conversations GET /api/v1/messages/conversations
func (h *Handlers) Conversations(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	convs, err := h.Service.Conversations(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Conversations fetched successfully", convs, nil)
}

// Chat GET /api/v1/messages/chat/:partner_id
func (h *Handlers) Chat(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	partnerID, err := uuid.Parse(c.Params("partner_id"))
	if err != nil {
		return response.Error(c, "Invalid partner_id format", 400, nil)
	}
	ms, err := h.Service.Chat(c.Context(), userID, partnerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Chat fetched successfully", ms, nil)
}
