package ratings

import (
	ratesvc "barterzone-backend/internal/application/ratings"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *ratesvc.Service
}

// RateRequest is the rate-trade body.
type RateRequest struct {
	TradeID string `json:"trade_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RateTrade POST /api/v1/ratings/rate-trade
func (h *Handlers) RateTrade(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		return response.Error(c, "trade_id is required", 400, nil)
	}
	r, err := h.Service.RateTrade(c.Context(), userID, tradeID, req.Score, req.Comment)
	if err != nil {
		switch err {
		case ratesvc.ErrTradeNotFound:
			return response.NotFound(c, err.Error())
		case ratesvc.ErrNotParty:
			return response.Error(c, err.Error(), 403, nil)
		case ratesvc.ErrAlreadyRated:
			return response.Error(c, err.Error(), 409, nil)
		case ratesvc.ErrInvalidScore, ratesvc.ErrTradeNotCompleted:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Rating submitted", r, nil)
}

// UserRatings GET /api/v1/ratings/user/:user_id
func (h *Handlers) UserRatings(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user_id format", 400, nil)
	}
	rs, err := h.Service.UserRatings(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Ratings fetched successfully", rs, nil)
}
