package trades

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"barterzone-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier delivers best-effort trade notifications (email). Failures are
// logged, never surfaced to the caller.
type Notifier interface {
	TradeProposed(ctx context.Context, trade *domain.Trade) error
	TradeAccepted(ctx context.Context, trade *domain.Trade) error
}

// Service owns the trade lifecycle. Item availability is flipped here, inside
// the same transaction as the status transition, and nowhere else.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

// Respond actions.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionCancel  = "cancel"
)

// Propose creates a pending trade offering offerItem for targetItem and binds
// both items (available=false) in one transaction.
func (s *Service) Propose(ctx context.Context, initiatorID, offerItemID, targetItemID uuid.UUID) (*domain.Trade, error) {
	var trade *domain.Trade

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offerItem, targetItem domain.Item
		if err := tx.Where("item_id = ?", offerItemID).First(&offerItem).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrItemNotFound
			}
			return err
		}
		if err := tx.Where("item_id = ?", targetItemID).First(&targetItem).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrItemNotFound
			}
			return err
		}
		if offerItem.UserID != initiatorID {
			return ErrItemNotOwned
		}
		if targetItem.UserID == initiatorID {
			return ErrTradeWithSelf
		}
		if !offerItem.Available || !targetItem.Available {
			return ErrItemUnavailable
		}

		trade = &domain.Trade{
			OfferUserID:  initiatorID,
			TargetUserID: targetItem.UserID,
			OfferItemID:  offerItem.ItemID,
			TargetItemID: targetItem.ItemID,
			Status:       domain.TradeStatusPending,
		}
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		if err := s.setItemsAvailable(tx, trade, false); err != nil {
			return err
		}
		return recordEvent(tx, trade.TradeID, domain.TradeEventProposed, &initiatorID, map[string]interface{}{
			"offer_item_id":  offerItem.ItemID,
			"target_item_id": targetItem.ItemID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, trade, domain.TradeEventProposed)
	return trade, nil
}

// Respond applies accept/decline (target, pending only) or cancel (initiator,
// pending only). Decline and cancel release both items.
func (s *Service) Respond(ctx context.Context, userID, tradeID uuid.UUID, action string) (*domain.Trade, error) {
	var trade *domain.Trade

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParty(userID) {
			return ErrNotParty
		}
		if t.Status != domain.TradeStatusPending {
			return ErrNotPending
		}

		switch action {
		case ActionAccept:
			if userID != t.TargetUserID {
				return ErrNotTarget
			}
			t.Status = domain.TradeStatusAccepted
		case ActionDecline:
			if userID != t.TargetUserID {
				return ErrNotTarget
			}
			t.Status = domain.TradeStatusDeclined
		case ActionCancel:
			if userID != t.OfferUserID {
				return ErrNotInitiator
			}
			t.Status = domain.TradeStatusCancelled
		default:
			return ErrInvalidAction
		}

		if err := tx.Save(t).Error; err != nil {
			return err
		}
		if t.Status != domain.TradeStatusAccepted {
			if err := s.setItemsAvailable(tx, t, true); err != nil {
				return err
			}
		}
		trade = t
		return recordEvent(tx, t.TradeID, eventForStatus(t.Status), &userID, nil)
	})
	if err != nil {
		return nil, err
	}

	if trade.Status == domain.TradeStatusAccepted {
		s.notify(ctx, trade, domain.TradeEventAccepted)
	}
	return trade, nil
}

// ArrangementInput carries one party's logistics fields. Meet-up fields are
// shared; delivery fields land in the caller's per-side columns.
type ArrangementInput struct {
	Method               string `json:"method"`
	MeetupLocation       string `json:"meetup_location"`
	MeetupDate           string `json:"meetup_date"`
	MeetupTime           string `json:"meetup_time"`
	DeliveryAddress      string `json:"delivery_address"`
	CourierOption        string `json:"courier_option"`
	DeliveryDate         string `json:"delivery_date"`
	DeliveryInstructions string `json:"delivery_instructions"`
	TrackingNumber       string `json:"tracking_number"`
}

// NegotiateArrangement creates or updates the trade's arrangement with the
// calling party's fields. Any edit clears BOTH confirmed-details flags: the
// last writer's change invalidates prior consensus.
func (s *Service) NegotiateArrangement(ctx context.Context, userID, tradeID uuid.UUID, in ArrangementInput) (*domain.Arrangement, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method != domain.ArrangementMethodMeetup && method != domain.ArrangementMethodDelivery {
		return nil, ErrInvalidMethod
	}

	var arr *domain.Arrangement
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParty(userID) {
			return ErrNotParty
		}
		if t.IsTerminal() {
			return ErrTradeTerminal
		}

		var a domain.Arrangement
		if err := tx.Where("trade_id = ?", tradeID).First(&a).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			a = domain.Arrangement{TradeID: tradeID, InitiatorID: userID}
		}

		a.Method = method
		if method == domain.ArrangementMethodMeetup {
			a.MeetupLocation = in.MeetupLocation
			a.MeetupDate = in.MeetupDate
			a.MeetupTime = in.MeetupTime
		} else if userID == t.OfferUserID {
			a.OfferDeliveryAddress = in.DeliveryAddress
			a.OfferCourierOption = in.CourierOption
			a.OfferDeliveryDate = in.DeliveryDate
			a.OfferDeliveryInstructions = in.DeliveryInstructions
			a.OfferTrackingNumber = in.TrackingNumber
		} else {
			a.TargetDeliveryAddress = in.DeliveryAddress
			a.TargetCourierOption = in.CourierOption
			a.TargetDeliveryDate = in.DeliveryDate
			a.TargetDeliveryInstructions = in.DeliveryInstructions
			a.TargetTrackingNumber = in.TrackingNumber
		}

		// Last writer invalidates consensus.
		a.OfferConfirmedDetails = false
		a.TargetConfirmedDetails = false
		a.Status = domain.ArrangementStatusPending

		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		arr = &a
		return recordEvent(tx, tradeID, domain.TradeEventArrangementSet, &userID, map[string]interface{}{
			"method": method,
		})
	})
	if err != nil {
		return nil, err
	}
	return arr, nil
}

// ConfirmDetails sets the caller's confirmed-details flag. When both flags are
// set the arrangement advances to accepted, and a still-pending trade is
// accepted with it. Redundant confirms are no-ops.
func (s *Service) ConfirmDetails(ctx context.Context, userID, tradeID uuid.UUID) (*domain.Arrangement, error) {
	var arr *domain.Arrangement
	var accepted *domain.Trade
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParty(userID) {
			return ErrNotParty
		}
		if t.IsTerminal() {
			return ErrTradeTerminal
		}

		var a domain.Arrangement
		if err := tx.Where("trade_id = ?", tradeID).First(&a).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrArrangementMissing
			}
			return err
		}

		if userID == t.OfferUserID {
			a.OfferConfirmedDetails = true
		} else {
			a.TargetConfirmedDetails = true
		}
		if a.OfferConfirmedDetails && a.TargetConfirmedDetails && a.Status == domain.ArrangementStatusPending {
			a.Status = domain.ArrangementStatusAccepted
			if err := recordEvent(tx, tradeID, domain.TradeEventDetailsConfirmed, &userID, nil); err != nil {
				return err
			}
			// Consensus on details accepts a trade still waiting on Respond.
			if t.Status == domain.TradeStatusPending {
				t.Status = domain.TradeStatusAccepted
				if err := tx.Save(t).Error; err != nil {
					return err
				}
				if err := recordEvent(tx, tradeID, domain.TradeEventAccepted, &userID, nil); err != nil {
					return err
				}
				accepted = t
			}
		}
		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		arr = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if accepted != nil {
		s.notify(ctx, accepted, domain.TradeEventAccepted)
	}
	return arr, nil
}

// ConfirmReceipt sets the caller's receipt flag on the arrangement and mirrors
// it on the legacy trade columns. Completion is a single conditional UPDATE so
// it fires exactly once even under concurrent double-submission.
func (s *Service) ConfirmReceipt(ctx context.Context, userID, tradeID uuid.UUID) (*domain.Trade, error) {
	var trade *domain.Trade
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParty(userID) {
			return ErrNotParty
		}
		if t.Status == domain.TradeStatusCompleted {
			trade = t
			return nil
		}
		if t.Status != domain.TradeStatusAccepted {
			return ErrNotAccepted
		}

		if userID == t.OfferUserID && !t.OfferReceived {
			t.OfferReceived = true
			if err := recordEvent(tx, tradeID, domain.TradeEventReceiptConfirmed, &userID, map[string]interface{}{"side": "offer"}); err != nil {
				return err
			}
		} else if userID == t.TargetUserID && !t.TargetReceived {
			t.TargetReceived = true
			if err := recordEvent(tx, tradeID, domain.TradeEventReceiptConfirmed, &userID, map[string]interface{}{"side": "target"}); err != nil {
				return err
			}
		}
		if err := tx.Save(t).Error; err != nil {
			return err
		}

		// Mirror onto the arrangement when one exists.
		var a domain.Arrangement
		if err := tx.Where("trade_id = ?", tradeID).First(&a).Error; err == nil {
			a.OfferConfirmedReceipt = t.OfferReceived
			a.TargetConfirmedReceipt = t.TargetReceived
			if err := tx.Save(&a).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		// Compare-and-swap completion: transitions at most once.
		now := time.Now()
		res := tx.Model(&domain.Trade{}).
			Where("trade_id = ? AND status = ? AND offer_received = ? AND target_received = ?",
				tradeID, domain.TradeStatusAccepted, true, true).
			Updates(map[string]interface{}{"status": domain.TradeStatusCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			t.Status = domain.TradeStatusCompleted
			t.CompletedAt = &now
			if err := tx.Model(&domain.Arrangement{}).Where("trade_id = ?", tradeID).
				Update("status", domain.ArrangementStatusCompleted).Error; err != nil {
				return err
			}
			// Completed trades keep both items out of circulation.
			if err := s.setItemsAvailable(tx, t, false); err != nil {
				return err
			}
			if err := recordEvent(tx, tradeID, domain.TradeEventCompleted, &userID, nil); err != nil {
				return err
			}
		}
		trade = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// Cancel aborts a non-terminal trade for either party, records the reason and
// releases both items.
func (s *Service) Cancel(ctx context.Context, userID, tradeID uuid.UUID, reason string) (*domain.Trade, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrCancelReasonMissing
	}
	var trade *domain.Trade
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTrade(tx, tradeID)
		if err != nil {
			return err
		}
		if !t.IsParty(userID) {
			return ErrNotParty
		}
		if t.IsTerminal() {
			return ErrTradeTerminal
		}

		t.Status = domain.TradeStatusCancelled
		t.CancellationReason = reason
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		if err := s.setItemsAvailable(tx, t, true); err != nil {
			return err
		}
		trade = t
		return recordEvent(tx, tradeID, domain.TradeEventCancelled, &userID, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// GetTrade returns the trade if the user is a party. asAdmin skips the party
// check for moderation views.
func (s *Service) GetTrade(ctx context.Context, userID, tradeID uuid.UUID, asAdmin bool) (*domain.Trade, error) {
	var t domain.Trade
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if !asAdmin && !t.IsParty(userID) {
		return nil, ErrNotParty
	}
	return &t, nil
}

// GetTradeRequests lists the user's pending trades, incoming and outgoing.
func (s *Service) GetTradeRequests(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var ts []domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND (offer_user_id = ? OR target_user_id = ?)", domain.TradeStatusPending, userID, userID).
		Order("created_at DESC").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

// GetTradeHistory lists all trades the user participates in, newest first.
func (s *Service) GetTradeHistory(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var ts []domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("offer_user_id = ? OR target_user_id = ?", userID, userID).
		Order("created_at DESC").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

// GetArrangement returns the trade's arrangement for a party.
func (s *Service) GetArrangement(ctx context.Context, userID, tradeID uuid.UUID) (*domain.Arrangement, error) {
	if _, err := s.GetTrade(ctx, userID, tradeID, false); err != nil {
		return nil, err
	}
	var a domain.Arrangement
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrArrangementMissing
		}
		return nil, err
	}
	return &a, nil
}

// GetTradeEvents lists the trade's history trail for a party.
func (s *Service) GetTradeEvents(ctx context.Context, userID, tradeID uuid.UUID) ([]domain.TradeEvent, error) {
	if _, err := s.GetTrade(ctx, userID, tradeID, false); err != nil {
		return nil, err
	}
	var events []domain.TradeEvent
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).
		Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// NegotiationMessageInput is one trade-scoped message.
type NegotiationMessageInput struct {
	MessageType       string `json:"message_type"`
	Content           string `json:"content"`
	SuggestedLocation string `json:"suggested_location"`
	SuggestedDate     string `json:"suggested_date"`
}

// AddNegotiationMessage appends a trade-scoped message (parties only).
func (s *Service) AddNegotiationMessage(ctx context.Context, userID, tradeID uuid.UUID, in NegotiationMessageInput) (*domain.NegotiationMessage, error) {
	t, err := s.GetTrade(ctx, userID, tradeID, false)
	if err != nil {
		return nil, err
	}
	if t.IsTerminal() && t.Status != domain.TradeStatusCompleted {
		return nil, ErrTradeTerminal
	}
	msgType := in.MessageType
	if msgType == "" {
		msgType = domain.NegotiationTypeText
	}
	if msgType != domain.NegotiationTypeText && msgType != domain.NegotiationTypeSuggestion {
		return nil, ErrInvalidAction
	}
	m := &domain.NegotiationMessage{
		TradeID:           tradeID,
		UserID:            userID,
		MessageType:       msgType,
		Content:           in.Content,
		SuggestedLocation: in.SuggestedLocation,
		SuggestedDate:     in.SuggestedDate,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListNegotiationMessages lists the trade's negotiation thread, oldest first.
func (s *Service) ListNegotiationMessages(ctx context.Context, userID, tradeID uuid.UUID) ([]domain.NegotiationMessage, error) {
	if _, err := s.GetTrade(ctx, userID, tradeID, false); err != nil {
		return nil, err
	}
	var ms []domain.NegotiationMessage
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).
		Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

// setItemsAvailable flips both bound items inside the caller's transaction.
func (s *Service) setItemsAvailable(tx *gorm.DB, t *domain.Trade, available bool) error {
	return tx.Model(&domain.Item{}).
		Where("item_id IN ?", []uuid.UUID{t.OfferItemID, t.TargetItemID}).
		Update("available", available).Error
}

func (s *Service) notify(ctx context.Context, trade *domain.Trade, event string) {
	if s.Notifier == nil || trade == nil {
		return
	}
	var err error
	switch event {
	case domain.TradeEventProposed:
		err = s.Notifier.TradeProposed(ctx, trade)
	case domain.TradeEventAccepted:
		err = s.Notifier.TradeAccepted(ctx, trade)
	}
	if err != nil {
		log.Warn().Err(err).Str("trade_id", trade.TradeID.String()).Str("event", event).Msg("trade notification failed")
	}
}

func lockTrade(tx *gorm.DB, tradeID uuid.UUID) (*domain.Trade, error) {
	var t domain.Trade
	if err := tx.Where("trade_id = ?", tradeID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func eventForStatus(status string) string {
	switch status {
	case domain.TradeStatusAccepted:
		return domain.TradeEventAccepted
	case domain.TradeStatusDeclined:
		return domain.TradeEventDeclined
	case domain.TradeStatusCancelled:
		return domain.TradeEventCancelled
	default:
		return domain.TradeEventProposed
	}
}

func recordEvent(tx *gorm.DB, tradeID uuid.UUID, eventType string, actor *uuid.UUID, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	b, _ := json.Marshal(data)
	return tx.Create(&domain.TradeEvent{
		TradeID:     tradeID,
		EventType:   eventType,
		EventData:   datatypes.JSON(b),
		ActorUserID: actor,
	}).Error
}
