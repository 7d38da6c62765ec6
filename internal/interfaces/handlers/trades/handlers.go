package trades

import (
	tradesvc "barterzone-backend/internal/application/trades"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/constants"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *tradesvc.Service
}

// ProposeRequest is the propose-trade body.
type ProposeRequest struct {
	OfferItemID  string `json:"offer_item_id"`
	TargetItemID string `json:"target_item_id"`
}

// Propose POST /api/v1/trades/propose
func (h *Handlers) Propose(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var req ProposeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	offerItemID, err := uuid.Parse(req.OfferItemID)
	if err != nil {
		return response.Error(c, "offer_item_id is required", 400, nil)
	}
	targetItemID, err := uuid.Parse(req.TargetItemID)
	if err != nil {
		return response.Error(c, "target_item_id is required", 400, nil)
	}
	trade, err := h.Service.Propose(c.Context(), userID, offerItemID, targetItemID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.SuccessCreated(c, "Trade request sent", trade, nil)
}

// RespondRequest is the respond-trade body.
type RespondRequest struct {
	Action string `json:"action"`
}

// Respond POST /api/v1/trades/:trade_id/respond — accept, decline or cancel.
func (h *Handlers) Respond(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	trade, err := h.Service.Respond(c.Context(), userID, tradeID, req.Action)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Trade updated", trade, nil)
}

// GetRequests GET /api/v1/trades/requests — pending incoming and outgoing.
func (h *Handlers) GetRequests(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	trades, err := h.Service.GetTradeRequests(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Trade requests fetched successfully", trades, nil)
}

// GetHistory GET /api/v1/trades/history
func (h *Handlers) GetHistory(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	trades, err := h.Service.GetTradeHistory(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Trade history fetched successfully", trades, nil)
}

// GetTrade GET /api/v1/trades/:trade_id
func (h *Handlers) GetTrade(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	asAdmin := middleware.SessionUserRole(c) == constants.Admin
	trade, err := h.Service.GetTrade(c.Context(), userID, tradeID, asAdmin)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Trade fetched successfully", trade, nil)
}

// GetEvents GET /api/v1/trades/:trade_id/events — history trail.
func (h *Handlers) GetEvents(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	events, err := h.Service.GetTradeEvents(c.Context(), userID, tradeID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Trade events fetched successfully", events, nil)
}

// GetArrangement GET /api/v1/trades/:trade_id/arrangement
func (h *Handlers) GetArrangement(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	arr, err := h.Service.GetArrangement(c.Context(), userID, tradeID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Arrangement fetched successfully", arr, nil)
}

// UpdateArrangement PUT /api/v1/trades/:trade_id/arrangement
func (h *Handlers) UpdateArrangement(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	var in tradesvc.ArrangementInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	arr, err := h.Service.NegotiateArrangement(c.Context(), userID, tradeID, in)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Arrangement updated", arr, nil)
}

// ConfirmDetails POST /api/v1/trades/:trade_id/confirm-details
func (h *Handlers) ConfirmDetails(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	arr, err := h.Service.ConfirmDetails(c.Context(), userID, tradeID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Details confirmed", arr, nil)
}

// ConfirmReceipt POST /api/v1/trades/:trade_id/confirm-receipt
func (h *Handlers) ConfirmReceipt(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	trade, err := h.Service.ConfirmReceipt(c.Context(), userID, tradeID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Receipt confirmed", trade, nil)
}

// CancelRequest is the cancel body.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel POST /api/v1/trades/:trade_id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	trade, err := h.Service.Cancel(c.Context(), userID, tradeID, req.Reason)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Trade cancelled", trade, nil)
}

// AddNegotiationMessage POST /api/v1/trades/:trade_id/negotiation-messages
func (h *Handlers) AddNegotiationMessage(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	var in tradesvc.NegotiationMessageInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	m, err := h.Service.AddNegotiationMessage(c.Context(), userID, tradeID, in)
	if err != nil {
		return tradeError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", m, nil)
}

// ListNegotiationMessages GET /api/v1/trades/:trade_id/negotiation-messages
func (h *Handlers) ListNegotiationMessages(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	tradeID, err := uuid.Parse(c.Params("trade_id"))
	if err != nil {
		return response.Error(c, "Invalid trade_id format", 400, nil)
	}
	ms, err := h.Service.ListNegotiationMessages(c.Context(), userID, tradeID)
	if err != nil {
		return tradeError(c, err)
	}
	return response.Success(c, "Messages fetched successfully", ms, nil)
}

func tradeError(c *fiber.Ctx, err error) error {
	switch err {
	case tradesvc.ErrTradeNotFound, tradesvc.ErrItemNotFound, tradesvc.ErrArrangementMissing:
		return response.NotFound(c, err.Error())
	case tradesvc.ErrNotParty, tradesvc.ErrNotTarget, tradesvc.ErrNotInitiator:
		return response.Error(c, err.Error(), 403, nil)
	case tradesvc.ErrItemUnavailable, tradesvc.ErrNotPending, tradesvc.ErrNotAccepted,
		tradesvc.ErrTradeTerminal:
		return response.Error(c, err.Error(), 409, nil)
	case tradesvc.ErrTradeWithSelf, tradesvc.ErrItemNotOwned, tradesvc.ErrInvalidAction,
		tradesvc.ErrInvalidMethod, tradesvc.ErrCancelReasonMissing:
		return response.Error(c, err.Error(), 400, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
