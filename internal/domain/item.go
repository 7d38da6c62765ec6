package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a listed good offered for barter. Available is the authoritative
// availability flag: the trade lifecycle flips it when the item is bound to or
// released from a trade, so browsing queries never re-derive it.
type Item struct {
	ItemID      uuid.UUID      `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Brand       string         `gorm:"column:brand" json:"brand"`
	Condition   string         `gorm:"column:condition" json:"condition"`
	DateBought  string         `gorm:"column:date_bought" json:"date_bought"`
	DateOffered string         `gorm:"column:date_offered" json:"date_offered"`
	Description string         `gorm:"column:description" json:"description"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	Available   bool           `gorm:"column:available;not null;default:true" json:"available"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}
