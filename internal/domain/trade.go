package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trade statuses. Pending and accepted are the only live states; the rest are
// terminal and retained as history.
const (
	TradeStatusPending   = "pending"
	TradeStatusAccepted  = "accepted"
	TradeStatusDeclined  = "declined"
	TradeStatusCancelled = "cancelled"
	TradeStatusCompleted = "completed"
)

// Trade is a proposed or executed item-for-item exchange between two users.
// OfferReceived/TargetReceived mirror the arrangement receipt flags for the
// legacy trade-row shape.
type Trade struct {
	TradeID            uuid.UUID  `gorm:"column:trade_id;type:uuid;primaryKey" json:"trade_id"`
	OfferUserID        uuid.UUID  `gorm:"column:offer_user_id;type:uuid;not null;index" json:"offer_user_id"`
	TargetUserID       uuid.UUID  `gorm:"column:target_user_id;type:uuid;not null;index" json:"target_user_id"`
	OfferItemID        uuid.UUID  `gorm:"column:offer_item_id;type:uuid;not null" json:"offer_item_id"`
	TargetItemID       uuid.UUID  `gorm:"column:target_item_id;type:uuid;not null" json:"target_item_id"`
	Status             string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	OfferReceived      bool       `gorm:"column:offer_received;not null;default:false" json:"offer_received"`
	TargetReceived     bool       `gorm:"column:target_received;not null;default:false" json:"target_received"`
	CancellationReason string     `gorm:"column:cancellation_reason" json:"cancellation_reason"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.TradeID == uuid.Nil {
		t.TradeID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the trade can no longer transition.
func (t *Trade) IsTerminal() bool {
	switch t.Status {
	case TradeStatusDeclined, TradeStatusCancelled, TradeStatusCompleted:
		return true
	}
	return false
}

// IsParty reports whether userID is one of the two trade parties.
func (t *Trade) IsParty(userID uuid.UUID) bool {
	return t.OfferUserID == userID || t.TargetUserID == userID
}

// Counterpart returns the other party of the trade.
func (t *Trade) Counterpart(userID uuid.UUID) uuid.UUID {
	if t.OfferUserID == userID {
		return t.TargetUserID
	}
	return t.OfferUserID
}
