package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one score given by a trade party to the counterpart. The composite
// unique index enforces one rating per (rater, rated, trade) triple.
type Rating struct {
	RatingID  uuid.UUID `gorm:"column:rating_id;type:uuid;primaryKey" json:"rating_id"`
	RaterID   uuid.UUID `gorm:"column:rater_id;type:uuid;not null;uniqueIndex:idx_rating_triple" json:"rater_id"`
	RatedID   uuid.UUID `gorm:"column:rated_id;type:uuid;not null;uniqueIndex:idx_rating_triple;index" json:"rated_id"`
	TradeID   uuid.UUID `gorm:"column:trade_id;type:uuid;not null;uniqueIndex:idx_rating_triple" json:"trade_id"`
	Score     int       `gorm:"column:score;not null" json:"score"`
	Comment   string    `gorm:"column:comment" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Rating) TableName() string {
	return "user_ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.RatingID == uuid.Nil {
		r.RatingID = uuid.New()
	}
	return nil
}
