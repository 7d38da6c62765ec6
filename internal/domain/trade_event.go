package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Trade event types recorded in the history trail.
const (
	TradeEventProposed         = "PROPOSED"
	TradeEventAccepted         = "ACCEPTED"
	TradeEventDeclined         = "DECLINED"
	TradeEventCancelled        = "CANCELLED"
	TradeEventArrangementSet   = "ARRANGEMENT_UPDATED"
	TradeEventDetailsConfirmed = "DETAILS_CONFIRMED"
	TradeEventReceiptConfirmed = "RECEIPT_CONFIRMED"
	TradeEventCompleted        = "COMPLETED"
)

// TradeEvent is one entry of the append-only trade history trail.
type TradeEvent struct {
	EventID     uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	TradeID     uuid.UUID      `gorm:"column:trade_id;type:uuid;not null;index" json:"trade_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData   datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	ActorUserID *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (TradeEvent) TableName() string {
	return "trade_events"
}

func (e *TradeEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
