package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
)

// Report is a user-filed complaint about a counterpart on a trade.
type Report struct {
	ReportID       uuid.UUID  `gorm:"column:report_id;type:uuid;primaryKey" json:"report_id"`
	ReporterID     uuid.UUID  `gorm:"column:reporter_id;type:uuid;not null" json:"reporter_id"`
	ReportedID     uuid.UUID  `gorm:"column:reported_id;type:uuid;not null;index" json:"reported_id"`
	TradeID        uuid.UUID  `gorm:"column:trade_id;type:uuid;not null" json:"trade_id"`
	Reason         string     `gorm:"column:reason;not null" json:"reason"`
	Description    string     `gorm:"column:description" json:"description"`
	Status         string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	ResolvedByID   *uuid.UUID `gorm:"column:resolved_by_id;type:uuid" json:"resolved_by_id"`
	ResolutionNote string     `gorm:"column:resolution_note" json:"resolution_note"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Report) TableName() string {
	return "user_reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ReportID == uuid.Nil {
		r.ReportID = uuid.New()
	}
	return nil
}

// Ban suspends a user, either permanently or until ExpiresAt.
type Ban struct {
	BanID     uuid.UUID  `gorm:"column:ban_id;type:uuid;primaryKey" json:"ban_id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	BannedBy  uuid.UUID  `gorm:"column:banned_by;type:uuid;not null" json:"banned_by"`
	Reason    string     `gorm:"column:reason;not null" json:"reason"`
	Permanent bool       `gorm:"column:permanent;not null;default:false" json:"permanent"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at"`
	Active    bool       `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Ban) TableName() string {
	return "user_bans"
}

func (b *Ban) BeforeCreate(tx *gorm.DB) error {
	if b.BanID == uuid.Nil {
		b.BanID = uuid.New()
	}
	return nil
}

// InEffect reports whether the ban currently blocks the user.
func (b *Ban) InEffect(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.Permanent {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(now)
}

// Announcement is a site-wide admin notice shown while active.
type Announcement struct {
	AnnouncementID uuid.UUID `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	Body           string    `gorm:"column:body;not null" json:"body"`
	Active         bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedBy      uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.AnnouncementID == uuid.Nil {
		a.AnnouncementID = uuid.New()
	}
	return nil
}

// Recommendation is an admin-curated featured item.
type Recommendation struct {
	RecommendationID uuid.UUID `gorm:"column:recommendation_id;type:uuid;primaryKey" json:"recommendation_id"`
	ItemID           uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Note             string    `gorm:"column:note" json:"note"`
	Active           bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedBy        uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.RecommendationID == uuid.Nil {
		r.RecommendationID = uuid.New()
	}
	return nil
}
