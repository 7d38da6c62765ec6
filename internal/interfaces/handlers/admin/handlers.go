package admin

import (
	"time"

	modsvc "barterzone-backend/internal/application/moderation"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers covers the admin moderation surface.
type Handlers struct {
	Service *modsvc.Service
}

// ListUsers GET /api/v1/admin/users
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	us, err := h.Service.ListUsers(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Users fetched successfully", us, nil)
}

// BanRequest is the ban-user body. expires_at is RFC3339, required unless permanent.
type BanRequest struct {
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
	Permanent bool   `json:"permanent"`
	ExpiresAt string `json:"expires_at"`
}

// BanUser POST /api/v1/admin/ban-user
func (h *Handlers) BanUser(c *fiber.Ctx) error {
	adminID := middleware.SessionUserID(c)
	var req BanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return response.Error(c, "user_id is required", 400, nil)
	}
	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return response.Error(c, "expires_at must be RFC3339", 400, nil)
		}
		expiresAt = &t
	}
	ban, err := h.Service.BanUser(c.Context(), adminID, userID, req.Reason, req.Permanent, expiresAt)
	if err != nil {
		switch err {
		case modsvc.ErrUserNotFound:
			return response.NotFound(c, err.Error())
		case modsvc.ErrReasonRequired, modsvc.ErrExpiryRequired:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "User banned", ban, nil)
}

// UnbanRequest is the unban-user body.
type UnbanRequest struct {
	UserID string `json:"user_id"`
}

// UnbanUser POST /api/v1/admin/unban-user
func (h *Handlers) UnbanUser(c *fiber.Ctx) error {
	var req UnbanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return response.Error(c, "user_id is required", 400, nil)
	}
	if err := h.Service.UnbanUser(c.Context(), userID); err != nil {
		if err == modsvc.ErrNoActiveBan {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User unbanned", nil, nil)
}

// ListReports GET /api/v1/admin/reports?status=
func (h *Handlers) ListReports(c *fiber.Ctx) error {
	rs, err := h.Service.ListReports(c.Context(), c.Query("status"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Reports fetched successfully", rs, nil)
}

// ResolveRequest is the resolve-report body.
type ResolveRequest struct {
	ReportID string `json:"report_id"`
	Note     string `json:"note"`
}

// ResolveReport PATCH /api/v1/admin/resolve-report
func (h *Handlers) ResolveReport(c *fiber.Ctx) error {
	adminID := middleware.SessionUserID(c)
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	reportID, err := uuid.Parse(req.ReportID)
	if err != nil {
		return response.Error(c, "report_id is required", 400, nil)
	}
	r, err := h.Service.ResolveReport(c.Context(), adminID, reportID, req.Note)
	if err != nil {
		if err == modsvc.ErrReportNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Report resolved", r, nil)
}

// AnnouncementRequest is the create-announcement body.
type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateAnnouncement POST /api/v1/admin/announcements
func (h *Handlers) CreateAnnouncement(c *fiber.Ctx) error {
	adminID := middleware.SessionUserID(c)
	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	a, err := h.Service.CreateAnnouncement(c.Context(), adminID, req.Title, req.Body)
	if err != nil {
		if err == modsvc.ErrTitleRequired {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Announcement published", a, nil)
}

// DeactivateAnnouncement PATCH /api/v1/admin/announcements/:announcement_id/deactivate
func (h *Handlers) DeactivateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("announcement_id"))
	if err != nil {
		return response.Error(c, "Invalid announcement_id format", 400, nil)
	}
	if err := h.Service.DeactivateAnnouncement(c.Context(), id); err != nil {
		if err == modsvc.ErrRecordNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Announcement deactivated", nil, nil)
}

// RecommendationRequest is the create-recommendation body.
type RecommendationRequest struct {
	ItemID string `json:"item_id"`
	Note   string `json:"note"`
}

// CreateRecommendation POST /api/v1/admin/recommendations
func (h *Handlers) CreateRecommendation(c *fiber.Ctx) error {
	adminID := middleware.SessionUserID(c)
	var req RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return response.Error(c, "item_id is required", 400, nil)
	}
	r, err := h.Service.CreateRecommendation(c.Context(), adminID, itemID, req.Note)
	if err != nil {
		if err == modsvc.ErrItemNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Recommendation created", r, nil)
}

// DeactivateRecommendation PATCH /api/v1/admin/recommendations/:recommendation_id/deactivate
func (h *Handlers) DeactivateRecommendation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("recommendation_id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation_id format", 400, nil)
	}
	if err := h.Service.DeactivateRecommendation(c.Context(), id); err != nil {
		if err == modsvc.ErrRecordNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Recommendation deactivated", nil, nil)
}

// PublicHandlers serves the unauthenticated feeds.
type PublicHandlers struct {
	Service *modsvc.Service
}

// ListAnnouncements GET /api/v1/announcements
func (h *PublicHandlers) ListAnnouncements(c *fiber.Ctx) error {
	as, err := h.Service.ListActiveAnnouncements(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Announcements fetched successfully", as, nil)
}

// ListRecommendations GET /api/v1/recommendations
func (h *PublicHandlers) ListRecommendations(c *fiber.Ctx) error {
	rs, err := h.Service.ListActiveRecommendations(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Recommendations fetched successfully", rs, nil)
}
