package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Arrangement methods and statuses.
const (
	ArrangementMethodMeetup   = "meetup"
	ArrangementMethodDelivery = "delivery"

	ArrangementStatusPending   = "pending"
	ArrangementStatusAccepted  = "accepted"
	ArrangementStatusCompleted = "completed"
)

// Arrangement holds the negotiated logistics for one trade (1:1). Delivery
// fields are duplicated per side so neither party edits the other's details;
// any edit clears both confirmed-details flags, forcing re-confirmation.
type Arrangement struct {
	ArrangementID uuid.UUID `gorm:"column:arrangement_id;type:uuid;primaryKey" json:"arrangement_id"`
	TradeID       uuid.UUID `gorm:"column:trade_id;type:uuid;not null;uniqueIndex" json:"trade_id"`
	InitiatorID   uuid.UUID `gorm:"column:initiator_id;type:uuid;not null" json:"initiator_id"`
	Method        string    `gorm:"column:method;type:varchar(20);not null" json:"method"`
	Status        string    `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`

	MeetupLocation string `gorm:"column:meetup_location" json:"meetup_location"`
	MeetupDate     string `gorm:"column:meetup_date" json:"meetup_date"`
	MeetupTime     string `gorm:"column:meetup_time" json:"meetup_time"`

	OfferDeliveryAddress       string `gorm:"column:offer_delivery_address" json:"offer_delivery_address"`
	TargetDeliveryAddress      string `gorm:"column:target_delivery_address" json:"target_delivery_address"`
	OfferCourierOption         string `gorm:"column:offer_courier_option" json:"offer_courier_option"`
	TargetCourierOption        string `gorm:"column:target_courier_option" json:"target_courier_option"`
	OfferDeliveryDate          string `gorm:"column:offer_delivery_date" json:"offer_delivery_date"`
	TargetDeliveryDate         string `gorm:"column:target_delivery_date" json:"target_delivery_date"`
	OfferTrackingNumber        string `gorm:"column:offer_tracking_number" json:"offer_tracking_number"`
	TargetTrackingNumber       string `gorm:"column:target_tracking_number" json:"target_tracking_number"`
	OfferDeliveryInstructions  string `gorm:"column:offer_delivery_instructions" json:"offer_delivery_instructions"`
	TargetDeliveryInstructions string `gorm:"column:target_delivery_instructions" json:"target_delivery_instructions"`

	OfferConfirmedDetails  bool `gorm:"column:offer_confirmed_details;not null;default:false" json:"offer_confirmed_details"`
	TargetConfirmedDetails bool `gorm:"column:target_confirmed_details;not null;default:false" json:"target_confirmed_details"`
	OfferConfirmedReceipt  bool `gorm:"column:offer_confirmed_receipt;not null;default:false" json:"offer_confirmed_receipt"`
	TargetConfirmedReceipt bool `gorm:"column:target_confirmed_receipt;not null;default:false" json:"target_confirmed_receipt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Arrangement) TableName() string {
	return "trade_arrangements"
}

func (a *Arrangement) BeforeCreate(tx *gorm.DB) error {
	if a.ArrangementID == uuid.Nil {
		a.ArrangementID = uuid.New()
	}
	return nil
}
