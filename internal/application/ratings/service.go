package ratings

import (
	"context"
	"errors"
	"strings"

	"barterzone-backend/internal/domain"
	"barterzone-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTradeNotFound     = errors.New("Trade not found")
	ErrTradeNotCompleted = errors.New("Trade is not completed")
	ErrNotParty          = errors.New("User is not a party to this trade")
	ErrInvalidScore      = errors.New("Rating must be between 1 and 5")
	ErrAlreadyRated      = errors.New("You have already rated this trade")
)

type Service struct {
	DB *gorm.DB
}

// RateTrade records one rating of the counterpart on a completed trade. The
// (rater, rated, trade) unique index rejects a second attempt.
func (s *Service) RateTrade(ctx context.Context, raterID, tradeID uuid.UUID, score int, comment string) (*domain.Rating, error) {
	if !validation.IsValidScore(score) {
		return nil, ErrInvalidScore
	}
	var t domain.Trade
	if err := s.DB.WithContext(ctx).Where("trade_id = ?", tradeID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if !t.IsParty(raterID) {
		return nil, ErrNotParty
	}
	if t.Status != domain.TradeStatusCompleted {
		return nil, ErrTradeNotCompleted
	}

	r := &domain.Rating{
		RaterID: raterID,
		RatedID: t.Counterpart(raterID),
		TradeID: tradeID,
		Score:   score,
		Comment: comment,
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}
	return r, nil
}

// UserRatings lists ratings received by a user, newest first.
func (s *Service) UserRatings(ctx context.Context, userID uuid.UUID) ([]domain.Rating, error) {
	var rs []domain.Rating
	if err := s.DB.WithContext(ctx).Where("rated_id = ?", userID).
		Order("created_at DESC").Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

// isDuplicateKey detects unique-constraint violations narrowly (Postgres
// SQLSTATE 23505, SQLite "UNIQUE constraint failed", and GORM's translated
// error) so only the rating-triple conflict maps to 409.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
