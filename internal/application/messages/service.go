package messages

import (
	"context"
	"errors"
	"strings"

	"barterzone-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyBody     = errors.New("Message body is required")
	ErrSelfMessage   = errors.New("Cannot message yourself")
	ErrUserNotFound  = errors.New("Recipient not found")
)

type Service struct {
	DB *gorm.DB
}

// Send appends a direct message.
func (s *Service) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	var recipient domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", recipientID).First(&recipient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	m := &domain.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Conversation is the latest message exchanged with one partner.
type Conversation struct {
	PartnerID   uuid.UUID `json:"partner_id"`
	LastMessage string    `json:"last_message"`
	LastAt      string    `json:"last_at"`
}

// Conversations returns the user's partners with the latest message each,
// most recent first.
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	var ms []domain.Message
	if err := s.DB.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	var out []Conversation
	for i := range ms {
		partner := ms[i].SenderID
		if partner == userID {
			partner = ms[i].RecipientID
		}
		if seen[partner] {
			continue
		}
		seen[partner] = true
		out = append(out, Conversation{
			PartnerID:   partner,
			LastMessage: ms[i].Body,
			LastAt:      ms[i].CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out, nil
}

// Chat returns the full thread between the user and a partner, oldest first.
func (s *Service) Chat(ctx context.Context, userID, partnerID uuid.UUID) ([]domain.Message, error) {
	var ms []domain.Message
	if err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}
