package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"barterzone-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("User not found")
	ErrReportNotFound  = errors.New("Report not found")
	ErrReasonRequired  = errors.New("Ban reason is required")
	ErrExpiryRequired  = errors.New("Timed ban requires an expiry in the future")
	ErrNoActiveBan     = errors.New("User has no active ban")
	ErrTitleRequired   = errors.New("Announcement title and body are required")
	ErrItemNotFound    = errors.New("Item not found")
	ErrRecordNotFound  = errors.New("Record not found")
)

// Service covers the admin moderation surface: users, bans, reports,
// announcements and recommendations.
type Service struct {
	DB *gorm.DB
}

// ListUsers returns all users for the admin panel.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var us []domain.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&us).Error; err != nil {
		return nil, err
	}
	return us, nil
}

// BanUser suspends a user permanently or until expiresAt. Any prior active
// ban is deactivated so at most one ban is in effect.
func (s *Service) BanUser(ctx context.Context, adminID, userID uuid.UUID, reason string, permanent bool, expiresAt *time.Time) (*domain.Ban, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	if !permanent && (expiresAt == nil || !expiresAt.After(time.Now())) {
		return nil, ErrExpiryRequired
	}
	var ban *domain.Ban
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.Where("user_id = ?", userID).First(&u).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}
		if err := tx.Model(&domain.Ban{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		ban = &domain.Ban{
			UserID:    userID,
			BannedBy:  adminID,
			Reason:    reason,
			Permanent: permanent,
			ExpiresAt: expiresAt,
			Active:    true,
		}
		return tx.Create(ban).Error
	})
	if err != nil {
		return nil, err
	}
	return ban, nil
}

// UnbanUser lifts the user's active ban.
func (s *Service) UnbanUser(ctx context.Context, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.Ban{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoActiveBan
	}
	return nil
}

// IsBanned reports whether the user has a ban currently in effect. Expired
// timed bans are lazily deactivated on the way.
func (s *Service) IsBanned(ctx context.Context, userID uuid.UUID) (bool, error) {
	var bans []domain.Ban
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND active = ?", userID, true).Find(&bans).Error; err != nil {
		return false, err
	}
	now := time.Now()
	for i := range bans {
		if bans[i].InEffect(now) {
			return true, nil
		}
		bans[i].Active = false
		if err := s.DB.WithContext(ctx).Save(&bans[i]).Error; err != nil {
			return false, err
		}
	}
	return false, nil
}

// ListReports returns reports, optionally filtered by status.
func (s *Service) ListReports(ctx context.Context, status string) ([]domain.Report, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rs []domain.Report
	if err := q.Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

// ResolveReport marks a pending report resolved with a note.
func (s *Service) ResolveReport(ctx context.Context, adminID, reportID uuid.UUID, note string) (*domain.Report, error) {
	var r domain.Report
	if err := s.DB.WithContext(ctx).Where("report_id = ?", reportID).First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	r.Status = domain.ReportStatusResolved
	r.ResolvedByID = &adminID
	r.ResolutionNote = note
	if err := s.DB.WithContext(ctx).Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateAnnouncement publishes a site-wide notice.
func (s *Service) CreateAnnouncement(ctx context.Context, adminID uuid.UUID, title, body string) (*domain.Announcement, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, ErrTitleRequired
	}
	a := &domain.Announcement{Title: title, Body: body, Active: true, CreatedBy: adminID}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// DeactivateAnnouncement hides a notice.
func (s *Service) DeactivateAnnouncement(ctx context.Context, announcementID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.Announcement{}).
		Where("announcement_id = ? AND active = ?", announcementID, true).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListActiveAnnouncements is the public notice feed.
func (s *Service) ListActiveAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	var as []domain.Announcement
	if err := s.DB.WithContext(ctx).Where("active = ?", true).
		Order("created_at DESC").Find(&as).Error; err != nil {
		return nil, err
	}
	return as, nil
}

// CreateRecommendation features an item on the public feed.
func (s *Service) CreateRecommendation(ctx context.Context, adminID, itemID uuid.UUID, note string) (*domain.Recommendation, error) {
	var item domain.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	r := &domain.Recommendation{ItemID: itemID, Note: note, Active: true, CreatedBy: adminID}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// DeactivateRecommendation removes an item from the featured feed.
func (s *Service) DeactivateRecommendation(ctx context.Context, recommendationID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).
		Where("recommendation_id = ? AND active = ?", recommendationID, true).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RecommendedItem joins a recommendation with its item for the public feed.
type RecommendedItem struct {
	Recommendation domain.Recommendation `json:"recommendation"`
	Item           domain.Item           `json:"item"`
}

// ListActiveRecommendations is the public featured-items feed.
func (s *Service) ListActiveRecommendations(ctx context.Context) ([]RecommendedItem, error) {
	var recs []domain.Recommendation
	if err := s.DB.WithContext(ctx).Where("active = ?", true).
		Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]RecommendedItem, 0, len(recs))
	for _, rec := range recs {
		var item domain.Item
		if err := s.DB.WithContext(ctx).Where("item_id = ?", rec.ItemID).First(&item).Error; err != nil {
			continue // item was deleted; skip stale recommendation
		}
		out = append(out, RecommendedItem{Recommendation: rec, Item: item})
	}
	return out, nil
}
