package reports

import (
	reportsvc "barterzone-backend/internal/application/reports"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *reportsvc.Service
}

// CreateRequest is the create-report body.
type CreateRequest struct {
	TradeID     string `json:"trade_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// Create POST /api/v1/reports/create-report
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		return response.Error(c, "trade_id is required", 400, nil)
	}
	r, err := h.Service.CreateReport(c.Context(), userID, tradeID, req.Reason, req.Description)
	if err != nil {
		switch err {
		case reportsvc.ErrTradeNotFound:
			return response.NotFound(c, err.Error())
		case reportsvc.ErrNotParty:
			return response.Error(c, err.Error(), 403, nil)
		case reportsvc.ErrReasonRequired, reportsvc.ErrSelfReport:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Report submitted", r, nil)
}

// MyReports GET /api/v1/reports/my-reports
func (h *Handlers) MyReports(c *fiber.Ctx) error {
	userID := middleware.SessionUserID(c)
	rs, err := h.Service.MyReports(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Reports fetched successfully", rs, nil)
}
