package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users.
type Message struct {
	MessageID   uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	SenderID    uuid.UUID `gorm:"column:sender_id;type:uuid;not null;index" json:"sender_id"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	Body        string    `gorm:"column:body;not null" json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}

// Negotiation message types.
const (
	NegotiationTypeText       = "text"
	NegotiationTypeSuggestion = "suggestion"
)

// NegotiationMessage is a trade-scoped message exchanged while arranging
// logistics; suggestions may carry a proposed location/date.
type NegotiationMessage struct {
	NegotiationMessageID uuid.UUID `gorm:"column:negotiation_message_id;type:uuid;primaryKey" json:"negotiation_message_id"`
	TradeID              uuid.UUID `gorm:"column:trade_id;type:uuid;not null;index" json:"trade_id"`
	UserID               uuid.UUID `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	MessageType          string    `gorm:"column:message_type;type:varchar(20);not null;default:'text'" json:"message_type"`
	Content              string    `gorm:"column:content" json:"content"`
	SuggestedLocation    string    `gorm:"column:suggested_location" json:"suggested_location"`
	SuggestedDate        string    `gorm:"column:suggested_date" json:"suggested_date"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (NegotiationMessage) TableName() string {
	return "negotiation_messages"
}

func (n *NegotiationMessage) BeforeCreate(tx *gorm.DB) error {
	if n.NegotiationMessageID == uuid.Nil {
		n.NegotiationMessageID = uuid.New()
	}
	return nil
}
